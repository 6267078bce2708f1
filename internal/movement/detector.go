package movement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ignite/campaign-insights/internal/attribution"
	"github.com/ignite/campaign-insights/internal/domain"
)

// DefaultWindowDays is the canonical movement window.
const DefaultWindowDays = 30

// Kind distinguishes the two detector variants.
type Kind string

const (
	KindNewPipeline  Kind = "new_pipeline"
	KindStageAdvance Kind = "stage_advance"
)

// Movement is one detected opportunity movement credited to a campaign.
type Movement struct {
	CampaignID    string  `json:"campaign_id"`
	CampaignType  string  `json:"campaign_type"`
	OpportunityID string  `json:"opportunity_id"`
	Stage         string  `json:"stage"`
	Value         float64 `json:"value"`
	ClosedWon     bool    `json:"closed_won"`
}

// TypeMetrics is the per-campaign-type movement rollup.
type TypeMetrics struct {
	Type           string  `json:"type"`
	TotalCampaigns int     `json:"total_campaigns"`
	TotalCost      float64 `json:"total_cost"`
	Movements      int     `json:"movements"`
	MovedValue     float64 `json:"moved_value"`
	ClosedWonCount int     `json:"closed_won_count"`
	ClosedWonValue float64 `json:"closed_won_value"`

	// CostEfficiency is moved value per cost dollar, 0 when cost is 0.
	CostEfficiency float64 `json:"cost_efficiency"`
}

// Report is the output of one detector run.
type Report struct {
	Kind       Kind          `json:"kind"`
	WindowDays int           `json:"window_days"`
	Types      []TypeMetrics `json:"types"`
	Movements  []Movement    `json:"movements"`
}

// Detector finds time-windowed opportunity movements around campaigns.
type Detector struct {
	touches   attribution.TouchStore
	snapshots attribution.SnapshotStore
}

// NewDetector creates a movement detector backed by the given stores.
func NewDetector(touches attribution.TouchStore, snapshots attribution.SnapshotStore) *Detector {
	return &Detector{touches: touches, snapshots: snapshots}
}

// NewPipeline detects opportunities whose current snapshot shows an
// entered-pipeline date within windowDays of a touching campaign's start.
// Closed Lost opportunities are excluded. windowDays <= 0 falls back to the
// default window.
func (d *Detector) NewPipeline(ctx context.Context, campaigns []domain.Campaign, windowDays int) (*Report, error) {
	return d.detect(ctx, KindNewPipeline, campaigns, windowDays, d.newPipelineMovement)
}

// StageAdvance detects opportunities whose most recent snapshot inside the
// campaign window shows a strictly higher stage rank than the snapshot
// before it. Stages outside the ordinal chain (Closed Lost) never count as
// a positive movement.
func (d *Detector) StageAdvance(ctx context.Context, campaigns []domain.Campaign, windowDays int) (*Report, error) {
	return d.detect(ctx, KindStageAdvance, campaigns, windowDays, d.stageAdvanceMovement)
}

type movementFn func(ctx context.Context, c domain.Campaign, oppID string, windowEnd time.Time) (*Movement, error)

func (d *Detector) detect(ctx context.Context, kind Kind, campaigns []domain.Campaign, windowDays int, fn movementFn) (*Report, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	report := &Report{Kind: kind, WindowDays: windowDays, Movements: []Movement{}}
	byType := make(map[string]*TypeMetrics)
	rowFor := func(campaignType string) *TypeMetrics {
		row, ok := byType[campaignType]
		if !ok {
			row = &TypeMetrics{Type: campaignType}
			byType[campaignType] = row
		}
		return row
	}

	// An opportunity moves at most once per type, even when several
	// campaigns of that type overlap its window.
	seen := make(map[string]map[string]bool)

	for _, c := range campaigns {
		row := rowFor(c.Type)
		row.TotalCampaigns++
		row.TotalCost += c.Cost

		touches, err := d.touches.GetTouches(ctx, []string{c.ID})
		if err != nil {
			return nil, fmt.Errorf("%w: fetch touches for %s: %v", attribution.ErrDataUnavailable, c.ID, err)
		}

		windowEnd := c.StartDate.AddDate(0, 0, windowDays)
		opps := distinctOpportunities(touches)
		for _, oppID := range opps {
			if seen[c.Type][oppID] {
				continue
			}
			m, err := fn(ctx, c, oppID, windowEnd)
			if err != nil {
				return nil, err
			}
			if m == nil {
				continue
			}
			if seen[c.Type] == nil {
				seen[c.Type] = make(map[string]bool)
			}
			seen[c.Type][oppID] = true

			row.Movements++
			row.MovedValue += m.Value
			if m.ClosedWon {
				row.ClosedWonCount++
				row.ClosedWonValue += m.Value
			}
			report.Movements = append(report.Movements, *m)
		}
	}

	for _, row := range byType {
		if row.TotalCost > 0 {
			row.CostEfficiency = row.MovedValue / row.TotalCost
		}
		report.Types = append(report.Types, *row)
	}
	sort.Slice(report.Types, func(i, j int) bool {
		if report.Types[i].MovedValue != report.Types[j].MovedValue {
			return report.Types[i].MovedValue > report.Types[j].MovedValue
		}
		return report.Types[i].Type < report.Types[j].Type
	})

	return report, nil
}

func (d *Detector) newPipelineMovement(ctx context.Context, c domain.Campaign, oppID string, windowEnd time.Time) (*Movement, error) {
	snap, err := d.snapshots.GetLatestSnapshot(ctx, oppID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch snapshot for %s: %v", attribution.ErrDataUnavailable, oppID, err)
	}
	if snap == nil || snap.EnteredPipeline == nil || snap.IsClosedLost() {
		return nil, nil
	}
	entered := *snap.EnteredPipeline
	if entered.Before(c.StartDate) || entered.After(windowEnd) {
		return nil, nil
	}
	return &Movement{
		CampaignID:    c.ID,
		CampaignType:  c.Type,
		OpportunityID: oppID,
		Stage:         snap.Stage,
		Value:         snap.Value,
		ClosedWon:     snap.IsClosedWon(),
	}, nil
}

func (d *Detector) stageAdvanceMovement(ctx context.Context, c domain.Campaign, oppID string, windowEnd time.Time) (*Movement, error) {
	history, err := d.snapshots.GetSnapshotHistory(ctx, oppID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch history for %s: %v", attribution.ErrDataUnavailable, oppID, err)
	}

	// s2 is the most recent snapshot available at or before the window end;
	// it must fall inside the window. s1 is the snapshot just before it.
	var after, before *domain.Snapshot
	for i := range history {
		s := history[i]
		if s.SnapshotDate.After(windowEnd) {
			break
		}
		before = after
		after = &history[i]
	}
	if after == nil || before == nil {
		return nil, nil
	}
	if after.SnapshotDate.Before(c.StartDate) {
		return nil, nil
	}
	if after.Stage == before.Stage {
		return nil, nil
	}

	beforeRank, ok := domain.StageRank(before.Stage)
	if !ok {
		return nil, nil
	}
	afterRank, ok := domain.StageRank(after.Stage)
	if !ok {
		return nil, nil
	}
	if afterRank <= beforeRank {
		return nil, nil
	}

	return &Movement{
		CampaignID:    c.ID,
		CampaignType:  c.Type,
		OpportunityID: oppID,
		Stage:         after.Stage,
		Value:         after.Value,
		ClosedWon:     after.IsClosedWon(),
	}, nil
}

func distinctOpportunities(touches []domain.Touch) []string {
	seen := make(map[string]bool, len(touches))
	out := make([]string, 0, len(touches))
	for _, t := range touches {
		if !seen[t.OpportunityID] {
			seen[t.OpportunityID] = true
			out = append(out, t.OpportunityID)
		}
	}
	return out
}
