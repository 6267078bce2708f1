// Package journey implements the customer-journey view: per-opportunity
// touch counts, cumulative notional cost, and the touch-count efficiency
// curve used to pick an optimal number of touches.
//
// Unlike the attribution rollup, this view is about raw engagement: touches
// are not filtered by qualification, and campaign cost is not divided across
// co-touched customers. The numbers are per-touch economics, not a
// normalized per-customer acquisition cost.
package journey
