package insights

import (
	"context"
	"fmt"
	"sort"

	"github.com/ignite/campaign-insights/internal/attribution"
	"github.com/ignite/campaign-insights/internal/domain"
)

// AccountType labels the two sides of the target-account split.
const (
	AccountTarget    = "target"
	AccountNonTarget = "non_target"
)

// AttendeeRange is one attendee-count bucket definition. Max 0 means
// unbounded.
type AttendeeRange struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// SegmentationRanges are the canonical buckets for attendee-effectiveness
// segmentation; MatrixRanges are the coarser buckets used by the strategic
// matrix.
var (
	SegmentationRanges = []AttendeeRange{
		{Label: "1-2", Min: 1, Max: 2},
		{Label: "3-5", Min: 3, Max: 5},
		{Label: "6-10", Min: 6, Max: 10},
		{Label: "11+", Min: 11, Max: 0},
	}
	MatrixRanges = []AttendeeRange{
		{Label: "1-2", Min: 1, Max: 2},
		{Label: "3-5", Min: 3, Max: 5},
		{Label: "6+", Min: 6, Max: 0},
	}
)

func (r AttendeeRange) contains(attendees int) bool {
	if attendees < r.Min {
		return false
	}
	return r.Max == 0 || attendees <= r.Max
}

// AttendeeSegment is the metric set for one attendee-count bucket.
type AttendeeSegment struct {
	Range               string  `json:"range"`
	Opportunities       int     `json:"opportunities"`
	TotalAttendees      int     `json:"total_attendees"`
	TotalCost           float64 `json:"total_cost"`
	PipelineValue       float64 `json:"pipeline_value"`
	ClosedWonValue      float64 `json:"closed_won_value"`
	WinRate             float64 `json:"win_rate"`
	AvgDealSize         float64 `json:"avg_deal_size"`
	CostPerAttendee     float64 `json:"cost_per_attendee"`
	PipelinePerAttendee float64 `json:"pipeline_per_attendee"`
}

// AttendeeSegmentation is the attendee-effectiveness report. OptimalRange is
// the bucket with the highest pipeline per attendee.
type AttendeeSegmentation struct {
	Segments     []AttendeeSegment `json:"segments"`
	OptimalRange string            `json:"optimal_range"`
}

// AccountTypeMetrics is the metric set for one side of the target split.
type AccountTypeMetrics struct {
	AccountType         string  `json:"account_type"`
	Opportunities       int     `json:"opportunities"`
	TotalAttendees      int     `json:"total_attendees"`
	PipelineValue       float64 `json:"pipeline_value"`
	ClosedWonValue      float64 `json:"closed_won_value"`
	WinRate             float64 `json:"win_rate"`
	AvgDealSize         float64 `json:"avg_deal_size"`
	PipelinePerAttendee float64 `json:"pipeline_per_attendee"`
}

// TargetComparison contrasts target accounts against the rest.
type TargetComparison struct {
	Target    AccountTypeMetrics `json:"target"`
	NonTarget AccountTypeMetrics `json:"non_target"`

	// Ratios are 0 when the non-target denominator is 0.
	DealSizeMultiplier      float64 `json:"deal_size_multiplier"`
	WinRateAdvantage        float64 `json:"win_rate_advantage"`
	AttendeeEfficiencyRatio float64 `json:"attendee_efficiency_ratio"`
}

// MatrixCell is one account-type x attendee-range cell.
type MatrixCell struct {
	AccountType    string  `json:"account_type"`
	Range          string  `json:"range"`
	Opportunities  int     `json:"opportunities"`
	TotalCost      float64 `json:"total_cost"`
	PipelineValue  float64 `json:"pipeline_value"`
	ClosedWonValue float64 `json:"closed_won_value"`
	ROI            float64 `json:"roi"`
}

// MatrixRecommendation picks the best attendee range for one account type.
type MatrixRecommendation struct {
	AccountType          string  `json:"account_type"`
	OptimalAttendeeRange string  `json:"optimal_attendee_range"`
	Reasoning            string  `json:"reasoning"`
	ExpectedROI          float64 `json:"expected_roi"`
}

// StrategicMatrix crosses attendee ranges with the target-account flag.
type StrategicMatrix struct {
	Cells           []MatrixCell           `json:"cells"`
	Recommendations []MatrixRecommendation `json:"recommendations"`
}

// Generator builds segmentation reports from the raw stores.
type Generator struct {
	touches       attribution.TouchStore
	snapshots     attribution.SnapshotStore
	opportunities attribution.OpportunityStore
}

// NewGenerator creates an insight generator backed by the given stores.
func NewGenerator(touches attribution.TouchStore, snapshots attribution.SnapshotStore, opportunities attribution.OpportunityStore) *Generator {
	return &Generator{touches: touches, snapshots: snapshots, opportunities: opportunities}
}

// profile is the per-opportunity working record behind every segmentation.
type profile struct {
	oppID        string
	attendees    int
	notionalCost float64
	target       bool
	won          bool
	lost         bool
	value        float64
	hasSnapshot  bool
}

func (p profile) pipelineValue() float64 {
	if p.lost {
		return 0
	}
	return p.value
}

func (p profile) closedWonValue() float64 {
	if p.won {
		return p.value
	}
	return 0
}

// buildProfiles collects, for every opportunity touched by the given
// campaigns, its attendee total, notional cost, target flag, and current
// snapshot state. Touches referencing campaigns outside the list are
// skipped.
func (g *Generator) buildProfiles(ctx context.Context, campaigns []domain.Campaign) ([]profile, error) {
	costByCampaign := make(map[string]float64, len(campaigns))
	for _, c := range campaigns {
		costByCampaign[c.ID] = c.Cost
	}

	touches, err := g.touches.GetTouches(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch touches: %v", attribution.ErrDataUnavailable, err)
	}

	attendees := make(map[string]int)
	campaignSets := make(map[string]map[string]bool)
	for _, t := range touches {
		if _, known := costByCampaign[t.CampaignID]; !known {
			continue
		}
		attendees[t.OpportunityID] += t.AttendeeCount()
		set, ok := campaignSets[t.OpportunityID]
		if !ok {
			set = make(map[string]bool)
			campaignSets[t.OpportunityID] = set
		}
		set[t.CampaignID] = true
	}

	ids := make([]string, 0, len(campaignSets))
	for id := range campaignSets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	targets := make(map[string]bool)
	if g.opportunities != nil {
		opps, err := g.opportunities.GetOpportunities(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch opportunities: %v", attribution.ErrDataUnavailable, err)
		}
		for _, o := range opps {
			targets[o.ID] = o.IsTargetAccount()
		}
	}

	profiles := make([]profile, 0, len(ids))
	for _, id := range ids {
		p := profile{oppID: id, attendees: attendees[id], target: targets[id]}
		for campaignID := range campaignSets[id] {
			p.notionalCost += costByCampaign[campaignID]
		}

		snap, err := g.snapshots.GetLatestSnapshot(ctx, id, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch snapshot for %s: %v", attribution.ErrDataUnavailable, id, err)
		}
		if snap != nil {
			p.hasSnapshot = true
			p.value = snap.Value
			p.won = snap.IsClosedWon()
			p.lost = snap.IsClosedLost()
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// AttendeeSegments buckets touched opportunities by attendee count and
// reports effectiveness metrics per bucket. Opportunities with no recorded
// attendees fall outside every bucket.
func (g *Generator) AttendeeSegments(ctx context.Context, campaigns []domain.Campaign) (*AttendeeSegmentation, error) {
	profiles, err := g.buildProfiles(ctx, campaigns)
	if err != nil {
		return nil, err
	}

	report := &AttendeeSegmentation{}
	var bestPerAttendee float64
	for _, r := range SegmentationRanges {
		seg := AttendeeSegment{Range: r.Label}
		var won, lost int
		for _, p := range profiles {
			if !r.contains(p.attendees) {
				continue
			}
			seg.Opportunities++
			seg.TotalAttendees += p.attendees
			seg.TotalCost += p.notionalCost
			seg.PipelineValue += p.pipelineValue()
			seg.ClosedWonValue += p.closedWonValue()
			if p.won {
				won++
			} else if p.lost {
				lost++
			}
		}
		if won+lost > 0 {
			seg.WinRate = float64(won) / float64(won+lost) * 100
		}
		if seg.Opportunities > 0 {
			seg.AvgDealSize = seg.PipelineValue / float64(seg.Opportunities)
		}
		if seg.TotalAttendees > 0 {
			seg.CostPerAttendee = seg.TotalCost / float64(seg.TotalAttendees)
			seg.PipelinePerAttendee = seg.PipelineValue / float64(seg.TotalAttendees)
		}
		report.Segments = append(report.Segments, seg)

		if seg.Opportunities > 0 && (report.OptimalRange == "" || seg.PipelinePerAttendee > bestPerAttendee) {
			report.OptimalRange = seg.Range
			bestPerAttendee = seg.PipelinePerAttendee
		}
	}
	return report, nil
}

// TargetAccounts splits touched opportunities by the target-account flag and
// contrasts the two sides. Opportunities whose flag was never set count as
// non-target.
func (g *Generator) TargetAccounts(ctx context.Context, campaigns []domain.Campaign) (*TargetComparison, error) {
	profiles, err := g.buildProfiles(ctx, campaigns)
	if err != nil {
		return nil, err
	}

	cmp := &TargetComparison{
		Target:    accountMetrics(AccountTarget, profiles, true),
		NonTarget: accountMetrics(AccountNonTarget, profiles, false),
	}
	if cmp.NonTarget.AvgDealSize > 0 {
		cmp.DealSizeMultiplier = cmp.Target.AvgDealSize / cmp.NonTarget.AvgDealSize
	}
	cmp.WinRateAdvantage = cmp.Target.WinRate - cmp.NonTarget.WinRate
	if cmp.NonTarget.PipelinePerAttendee > 0 {
		cmp.AttendeeEfficiencyRatio = cmp.Target.PipelinePerAttendee / cmp.NonTarget.PipelinePerAttendee
	}
	return cmp, nil
}

func accountMetrics(label string, profiles []profile, target bool) AccountTypeMetrics {
	m := AccountTypeMetrics{AccountType: label}
	var won, lost int
	for _, p := range profiles {
		if p.target != target {
			continue
		}
		m.Opportunities++
		m.TotalAttendees += p.attendees
		m.PipelineValue += p.pipelineValue()
		m.ClosedWonValue += p.closedWonValue()
		if p.won {
			won++
		} else if p.lost {
			lost++
		}
	}
	if won+lost > 0 {
		m.WinRate = float64(won) / float64(won+lost) * 100
	}
	if m.Opportunities > 0 {
		m.AvgDealSize = m.PipelineValue / float64(m.Opportunities)
	}
	if m.TotalAttendees > 0 {
		m.PipelinePerAttendee = m.PipelineValue / float64(m.TotalAttendees)
	}
	return m
}

// Matrix crosses the coarse attendee ranges with the target flag and picks
// the highest-ROI range per account type.
func (g *Generator) Matrix(ctx context.Context, campaigns []domain.Campaign) (*StrategicMatrix, error) {
	profiles, err := g.buildProfiles(ctx, campaigns)
	if err != nil {
		return nil, err
	}

	matrix := &StrategicMatrix{}
	for _, accountType := range []string{AccountTarget, AccountNonTarget} {
		target := accountType == AccountTarget
		var best *MatrixCell
		for _, r := range MatrixRanges {
			cell := MatrixCell{AccountType: accountType, Range: r.Label}
			for _, p := range profiles {
				if p.target != target || !r.contains(p.attendees) {
					continue
				}
				cell.Opportunities++
				cell.TotalCost += p.notionalCost
				cell.PipelineValue += p.pipelineValue()
				cell.ClosedWonValue += p.closedWonValue()
			}
			if cell.TotalCost > 0 {
				cell.ROI = cell.ClosedWonValue / cell.TotalCost * 100
			}
			matrix.Cells = append(matrix.Cells, cell)
			if cell.Opportunities > 0 && (best == nil || cell.ROI > best.ROI) {
				c := cell
				best = &c
			}
		}
		if best != nil {
			matrix.Recommendations = append(matrix.Recommendations, MatrixRecommendation{
				AccountType:          accountType,
				OptimalAttendeeRange: best.Range,
				ExpectedROI:          best.ROI,
				Reasoning: fmt.Sprintf(
					"%s accounts close %.0f%% of invested cost when engaged with %s attendees (%d opportunities, $%.0f closed won).",
					displayAccountType(accountType), best.ROI, best.Range, best.Opportunities, best.ClosedWonValue),
			})
		}
	}
	return matrix, nil
}

func displayAccountType(accountType string) string {
	if accountType == AccountTarget {
		return "Target"
	}
	return "Non-target"
}
