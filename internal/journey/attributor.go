package journey

import (
	"context"
	"fmt"
	"sort"

	"github.com/ignite/campaign-insights/internal/attribution"
	"github.com/ignite/campaign-insights/internal/domain"
)

// Customer is the journey record for one opportunity.
type Customer struct {
	OpportunityID string `json:"opportunity_id"`
	Name          string `json:"name"`
	ClientName    string `json:"client_name"`

	// TotalTouches counts distinct campaigns that touched the opportunity.
	TotalTouches int `json:"total_touches"`

	// TotalNotionalCost sums the full nominal cost of every touching
	// campaign. Costs are deliberately not split across co-touched
	// customers.
	TotalNotionalCost float64 `json:"total_notional_cost"`

	CurrentStage   string  `json:"current_stage"`
	PipelineValue  float64 `json:"pipeline_value"`
	ClosedWonValue float64 `json:"closed_won_value"`
}

// TouchBucket is one row of the touch-count histogram.
type TouchBucket struct {
	Touches       int     `json:"touches"`
	CustomerCount int     `json:"customer_count"`
	Percentage    float64 `json:"percentage"`
}

// CACBucket is one point on the cost-per-touch curve: all customers with
// exactly Touches touches.
type CACBucket struct {
	Touches        int     `json:"touches"`
	CustomerCount  int     `json:"customer_count"`
	NotionalCost   float64 `json:"notional_cost"`
	PipelineValue  float64 `json:"pipeline_value"`
	ClosedWonValue float64 `json:"closed_won_value"`

	// Efficiency is pipeline value per notional cost dollar, 0 when the
	// bucket carries no cost.
	Efficiency float64 `json:"efficiency"`
}

// Summary aggregates the journey view across all touched customers.
type Summary struct {
	TotalCustomers            int           `json:"total_customers"`
	AverageTouchesPerCustomer float64       `json:"average_touches_per_customer"`
	MultiTouchPercentage      float64       `json:"multi_touch_percentage"`
	TouchDistribution         []TouchBucket `json:"touch_distribution"`
	CACByTouch                []CACBucket   `json:"cac_by_touch"`
	OptimalTouchCount         int           `json:"optimal_touch_count"`
	Recommendation            string        `json:"recommendation"`
}

// Report pairs the per-customer records with the summary statistics.
type Report struct {
	Customers []Customer `json:"customers"`
	Summary   Summary    `json:"summary"`
}

// Attributor builds customer journeys from the full touch history.
type Attributor struct {
	touches       attribution.TouchStore
	snapshots     attribution.SnapshotStore
	opportunities attribution.OpportunityStore
}

// NewAttributor creates a journey attributor backed by the given stores.
func NewAttributor(touches attribution.TouchStore, snapshots attribution.SnapshotStore, opportunities attribution.OpportunityStore) *Attributor {
	return &Attributor{touches: touches, snapshots: snapshots, opportunities: opportunities}
}

// Analyze builds the journey report over every opportunity touched by the
// given campaigns. Touches referencing campaigns outside the list are
// skipped rather than failing the whole run.
func (a *Attributor) Analyze(ctx context.Context, campaigns []domain.Campaign) (*Report, error) {
	costByCampaign := make(map[string]float64, len(campaigns))
	for _, c := range campaigns {
		costByCampaign[c.ID] = c.Cost
	}

	touches, err := a.touches.GetTouches(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch touches: %v", attribution.ErrDataUnavailable, err)
	}

	// Distinct campaigns per opportunity.
	campaignsByOpp := make(map[string]map[string]bool)
	for _, t := range touches {
		if _, known := costByCampaign[t.CampaignID]; !known {
			continue
		}
		set, ok := campaignsByOpp[t.OpportunityID]
		if !ok {
			set = make(map[string]bool)
			campaignsByOpp[t.OpportunityID] = set
		}
		set[t.CampaignID] = true
	}

	oppIDs := make([]string, 0, len(campaignsByOpp))
	for id := range campaignsByOpp {
		oppIDs = append(oppIDs, id)
	}
	sort.Strings(oppIDs)

	identities := make(map[string]domain.Opportunity)
	if a.opportunities != nil {
		opps, err := a.opportunities.GetOpportunities(ctx, oppIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch opportunities: %v", attribution.ErrDataUnavailable, err)
		}
		for _, o := range opps {
			identities[o.ID] = o
		}
	}

	report := &Report{Customers: make([]Customer, 0, len(oppIDs))}
	for _, oppID := range oppIDs {
		cust := Customer{OpportunityID: oppID}
		if o, ok := identities[oppID]; ok {
			cust.Name = o.Name
			cust.ClientName = o.ClientName
		}
		for campaignID := range campaignsByOpp[oppID] {
			cust.TotalTouches++
			cust.TotalNotionalCost += costByCampaign[campaignID]
		}

		snap, err := a.snapshots.GetLatestSnapshot(ctx, oppID, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch snapshot for %s: %v", attribution.ErrDataUnavailable, oppID, err)
		}
		if snap != nil {
			cust.CurrentStage = snap.Stage
			if snap.IsClosedWon() {
				cust.ClosedWonValue = snap.Value
				cust.PipelineValue = snap.Value
			} else if !snap.IsClosedLost() {
				cust.PipelineValue = snap.Value
			}
		}

		report.Customers = append(report.Customers, cust)
	}

	report.Summary = summarize(report.Customers)
	return report, nil
}

func summarize(customers []Customer) Summary {
	s := Summary{TotalCustomers: len(customers)}
	if len(customers) == 0 {
		s.Recommendation = "No touched customers yet; nothing to recommend."
		return s
	}

	var totalTouches, multiTouch int
	byCount := make(map[int][]Customer)
	for _, c := range customers {
		totalTouches += c.TotalTouches
		if c.TotalTouches > 1 {
			multiTouch++
		}
		byCount[c.TotalTouches] = append(byCount[c.TotalTouches], c)
	}
	s.AverageTouchesPerCustomer = float64(totalTouches) / float64(len(customers))
	s.MultiTouchPercentage = float64(multiTouch) / float64(len(customers)) * 100

	counts := make([]int, 0, len(byCount))
	for n := range byCount {
		counts = append(counts, n)
	}
	sort.Ints(counts)

	// Empty buckets are omitted, not zero-filled.
	for _, n := range counts {
		group := byCount[n]
		s.TouchDistribution = append(s.TouchDistribution, TouchBucket{
			Touches:       n,
			CustomerCount: len(group),
			Percentage:    float64(len(group)) / float64(len(customers)) * 100,
		})

		bucket := CACBucket{Touches: n, CustomerCount: len(group)}
		for _, c := range group {
			bucket.NotionalCost += c.TotalNotionalCost
			bucket.PipelineValue += c.PipelineValue
			bucket.ClosedWonValue += c.ClosedWonValue
		}
		if bucket.NotionalCost > 0 {
			bucket.Efficiency = bucket.PipelineValue / bucket.NotionalCost
		}
		s.CACByTouch = append(s.CACByTouch, bucket)
	}

	best := s.CACByTouch[0]
	for _, b := range s.CACByTouch[1:] {
		if b.Efficiency > best.Efficiency {
			best = b
		}
	}
	s.OptimalTouchCount = best.Touches
	s.Recommendation = fmt.Sprintf(
		"Customers with %d campaign touches return %.2fx pipeline per marketing dollar, the best on the curve; plan journeys toward %d touches before handing off to sales.",
		best.Touches, best.Efficiency, best.Touches)

	return s
}
