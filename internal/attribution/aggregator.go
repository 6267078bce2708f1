package attribution

import (
	"context"
	"sort"

	"github.com/ignite/campaign-insights/internal/domain"
)

// TotalRowType labels the grand-total row produced by AggregateByType. It is
// computed over all campaigns combined, so it is not the sum of the per-type
// rows: one opportunity can qualify under multiple types.
const TotalRowType = "all"

// CampaignTypeMetrics is the rollup row for one campaign type.
type CampaignTypeMetrics struct {
	Type           string  `json:"type"`
	TotalCampaigns int     `json:"total_campaigns"`
	TotalCost      float64 `json:"total_cost"`

	// TotalCustomers is the deduplicated qualifying-opportunity count.
	TotalCustomers int `json:"total_customers"`

	// PipelineValue includes all qualifying opportunities except Closed
	// Lost; OpenPipelineValue additionally excludes Closed Won.
	PipelineValue     float64 `json:"pipeline_value"`
	OpenPipelineValue float64 `json:"open_pipeline_value"`
	ClosedWonValue    float64 `json:"closed_won_value"`

	TotalAttendees int `json:"total_attendees"`

	// Ratio metrics are 0 when their denominator is 0, never NaN.
	WinRate            float64 `json:"win_rate"`            // won / (won + lost), percent
	ROI                float64 `json:"roi"`                 // closed-won value / cost, percent
	CostEfficiency     float64 `json:"cost_efficiency"`     // pipeline value / cost
	AttendeeEfficiency float64 `json:"attendee_efficiency"` // pipeline value / attendees
}

// TypeReport is the full campaign-type rollup: one row per type sorted by
// pipeline value descending, plus the combined grand-total row.
type TypeReport struct {
	Types []CampaignTypeMetrics `json:"types"`
	Total CampaignTypeMetrics   `json:"total"`
}

// AggregateByType rolls up the given campaigns into per-type metrics. Each
// type's campaigns form one qualification group; the total row runs the
// filter once more over all campaigns combined.
func (e *Engine) AggregateByType(ctx context.Context, campaigns []domain.Campaign) (*TypeReport, error) {
	byType := make(map[string][]domain.Campaign)
	for _, c := range campaigns {
		byType[c.Type] = append(byType[c.Type], c)
	}

	report := &TypeReport{Types: make([]CampaignTypeMetrics, 0, len(byType))}
	for campaignType, group := range byType {
		row, err := e.aggregateGroup(ctx, campaignType, group)
		if err != nil {
			return nil, err
		}
		report.Types = append(report.Types, row)
	}

	sort.Slice(report.Types, func(i, j int) bool {
		if report.Types[i].PipelineValue != report.Types[j].PipelineValue {
			return report.Types[i].PipelineValue > report.Types[j].PipelineValue
		}
		return report.Types[i].Type < report.Types[j].Type
	})

	total, err := e.aggregateGroup(ctx, TotalRowType, campaigns)
	if err != nil {
		return nil, err
	}
	report.Total = total

	return report, nil
}

func (e *Engine) aggregateGroup(ctx context.Context, campaignType string, group []domain.Campaign) (CampaignTypeMetrics, error) {
	row := CampaignTypeMetrics{
		Type:           campaignType,
		TotalCampaigns: len(group),
	}

	qualified, touches, err := e.qualify(ctx, group)
	if err != nil {
		return row, err
	}

	// Cost counts each campaign once, however many touches it produced.
	for _, c := range group {
		row.TotalCost += c.Cost
	}

	var won, lost int
	for _, q := range qualified {
		snap := q.Snapshot
		switch {
		case snap.IsClosedWon():
			won++
			row.ClosedWonValue += snap.Value
			row.PipelineValue += snap.Value
		case snap.IsClosedLost():
			lost++
		default:
			row.PipelineValue += snap.Value
			row.OpenPipelineValue += snap.Value
		}
	}
	row.TotalCustomers = len(qualified)

	// Attendees are per-touch, so no dedup applies; only touches on
	// qualifying opportunities count.
	for _, t := range touches {
		if _, ok := qualified[t.OpportunityID]; ok {
			row.TotalAttendees += t.AttendeeCount()
		}
	}

	if won+lost > 0 {
		row.WinRate = float64(won) / float64(won+lost) * 100
	}
	if row.TotalCost > 0 {
		row.ROI = row.ClosedWonValue / row.TotalCost * 100
		row.CostEfficiency = row.PipelineValue / row.TotalCost
	}
	if row.TotalAttendees > 0 {
		row.AttendeeEfficiency = row.PipelineValue / float64(row.TotalAttendees)
	}

	return row, nil
}
