// Package insights cross-tabulates touched opportunities by attendee-count
// buckets and target-account flag, and derives recommendation records:
// the optimal attendee range per account type and budget reallocation
// candidates among campaign types.
//
// Cost figures in this package are per-touch economics: each opportunity
// carries the full nominal cost of every campaign that touched it, with no
// split across co-touched customers.
package insights
