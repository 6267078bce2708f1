// Package attribution implements the campaign attribution core: the
// qualification filter that decides which opportunities may be credited to a
// group of campaigns, and the per-type rollup built on top of it.
//
// The engine is a pure computation over the touch and snapshot stores. It
// holds no state between calls, performs no writes, and is safe to call
// concurrently. Store implementations live in repository/postgres and
// repository/memory.
package attribution
