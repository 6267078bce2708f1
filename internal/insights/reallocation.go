package insights

import (
	"fmt"

	"github.com/ignite/campaign-insights/internal/attribution"
)

// inefficientCostShare is the minimum share of total cost a type must carry
// before it can be flagged for reallocation.
const inefficientCostShare = 0.10

// InefficientType is one reallocation candidate.
type InefficientType struct {
	Type      string  `json:"type"`
	Cost      float64 `json:"cost"`
	CostShare float64 `json:"cost_share"` // percent of total cost
	ROI       float64 `json:"roi"`
}

// ReallocationAnalysis flags campaign types whose budget would work harder
// elsewhere. A type is inefficient iff its cost share exceeds 10% of total
// cost and its ROI sits below the unweighted mean across types.
type ReallocationAnalysis struct {
	MeanROI            float64           `json:"mean_roi"`
	TotalCost          float64           `json:"total_cost"`
	Inefficient        []InefficientType `json:"inefficient"`
	ReallocationAmount float64           `json:"reallocation_amount"`
	PotentialGain      float64           `json:"potential_gain"`
	RecommendedTarget  string            `json:"recommended_target"`
	Summary            string            `json:"summary"`
}

// Reallocate derives the budget-reallocation analysis from a campaign-type
// rollup. The grand-total row is not part of the input.
func Reallocate(types []attribution.CampaignTypeMetrics) *ReallocationAnalysis {
	analysis := &ReallocationAnalysis{Inefficient: []InefficientType{}}
	if len(types) == 0 {
		analysis.Summary = "No campaign types to analyze."
		return analysis
	}

	var roiSum float64
	best := types[0]
	for _, t := range types {
		roiSum += t.ROI
		analysis.TotalCost += t.TotalCost
		if t.ROI > best.ROI {
			best = t
		}
	}
	analysis.MeanROI = roiSum / float64(len(types))
	analysis.RecommendedTarget = best.Type

	for _, t := range types {
		if analysis.TotalCost == 0 {
			break
		}
		share := t.TotalCost / analysis.TotalCost
		if share > inefficientCostShare && t.ROI < analysis.MeanROI {
			analysis.Inefficient = append(analysis.Inefficient, InefficientType{
				Type:      t.Type,
				Cost:      t.TotalCost,
				CostShare: share * 100,
				ROI:       t.ROI,
			})
			analysis.ReallocationAmount += t.TotalCost
		}
	}
	analysis.PotentialGain = analysis.ReallocationAmount * best.ROI / 100

	if len(analysis.Inefficient) == 0 {
		analysis.Summary = fmt.Sprintf("No campaign type is both above %.0f%% of spend and below the %.1f%% mean ROI; budget allocation looks healthy.",
			inefficientCostShare*100, analysis.MeanROI)
	} else {
		analysis.Summary = fmt.Sprintf("Shifting $%.0f from %d underperforming type(s) into %s could return about $%.0f at its current %.1f%% ROI.",
			analysis.ReallocationAmount, len(analysis.Inefficient), best.Type, analysis.PotentialGain, best.ROI)
	}
	return analysis
}
