// Package movement implements time-windowed movement detection: which
// opportunities entered the pipeline, or advanced a stage, within N days of
// a campaign. Both detectors are pure reads over the touch and snapshot
// stores and aggregate per campaign type.
package movement
