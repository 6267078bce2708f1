package domain

import "time"

// Opportunity identifies a sales opportunity. Its business state is not
// stored here; it is derived from the opportunity's Snapshots.
type Opportunity struct {
	ID            string `json:"id" db:"id"`
	ExternalID    string `json:"external_id" db:"external_id"`
	Name          string `json:"name" db:"name"`
	ClientName    string `json:"client_name" db:"client_name"`
	TargetAccount *bool  `json:"target_account" db:"target_account"`
}

// IsTargetAccount returns true only when the flag has been set to true.
func (o *Opportunity) IsTargetAccount() bool {
	return o.TargetAccount != nil && *o.TargetAccount
}

// Snapshot is an immutable, append-only record of an opportunity's state as
// observed on a given date. Snapshots are produced by the ingestion side and
// are never mutated or deleted by this engine.
type Snapshot struct {
	OpportunityID string `json:"opportunity_id" db:"opportunity_id"`
	Stage         string `json:"stage" db:"stage"`

	// Value is the year-1 monetary value observed on SnapshotDate.
	Value float64 `json:"value" db:"value"`

	// EnteredPipeline is nil while the opportunity has not yet passed
	// qualification. CloseDate is nil while the opportunity is still open.
	EnteredPipeline *time.Time `json:"entered_pipeline" db:"entered_pipeline"`
	CloseDate       *time.Time `json:"close_date" db:"close_date"`

	SnapshotDate time.Time `json:"snapshot_date" db:"snapshot_date"`
}

// Sales stages. The ordinal chain below defines forward progress; Closed
// Lost is terminal and sits outside the chain.
const (
	StageValidation  = "Validation/Introduction"
	StageDiscovery   = "Discovery"
	StageChampions   = "Developing Champions"
	StageROIAnalysis = "ROI Analysis/Pricing"
	StageNegotiation = "Negotiation/Commit"
	StageClosedWon   = "Closed Won"
	StageClosedLost  = "Closed Lost"
)

var stageRanks = map[string]int{
	StageValidation:  1,
	StageDiscovery:   2,
	StageChampions:   3,
	StageROIAnalysis: 4,
	StageNegotiation: 5,
	StageClosedWon:   6,
}

// StageRank returns the ordinal rank of a stage and whether the stage is
// part of the ordinal chain. Closed Lost and unknown labels have no rank.
func StageRank(stage string) (int, bool) {
	r, ok := stageRanks[stage]
	return r, ok
}

// IsClosedWon reports whether the snapshot is in the won terminal stage.
func (s *Snapshot) IsClosedWon() bool { return s.Stage == StageClosedWon }

// IsClosedLost reports whether the snapshot is in the lost terminal stage.
func (s *Snapshot) IsClosedLost() bool { return s.Stage == StageClosedLost }
