package attribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-insights/internal/domain"
	"github.com/ignite/campaign-insights/internal/repository/memory"
)

func intPtr(n int) *int { return &n }

// Three Webinar campaigns ($1,000 + $2,000 + $500) touch O1 and O2; O1 is
// also touched by an Event campaign. O1 counts once in the Webinar row and
// once again in the Event row, never twice within a row.
func webinarFixture(t *testing.T) (*memory.Store, []domain.Campaign) {
	t.Helper()
	store := memory.NewStore()

	campaigns := []domain.Campaign{
		{ID: "w1", Name: "Webinar 1", Type: "Webinar", Cost: 1000, StartDate: day(0)},
		{ID: "w2", Name: "Webinar 2", Type: "Webinar", Cost: 2000, StartDate: day(7)},
		{ID: "w3", Name: "Webinar 3", Type: "Webinar", Cost: 500, StartDate: day(14)},
		{ID: "e1", Name: "Field Event", Type: "Event", Cost: 3000, StartDate: day(3)},
	}
	for _, c := range campaigns {
		store.AddCampaign(c)
	}

	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o1",
		Stage:           domain.StageDiscovery,
		Value:           10000,
		EnteredPipeline: datePtr(day(1)),
		SnapshotDate:    day(20),
	})
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o2",
		Stage:           domain.StageClosedWon,
		Value:           5000,
		EnteredPipeline: datePtr(day(2)),
		CloseDate:       datePtr(day(18)),
		SnapshotDate:    day(18),
	})

	store.AddTouch(domain.Touch{CampaignID: "w1", OpportunityID: "o1", Attendees: intPtr(2), TouchDate: day(0)})
	store.AddTouch(domain.Touch{CampaignID: "w2", OpportunityID: "o1", Attendees: intPtr(3), TouchDate: day(7)})
	store.AddTouch(domain.Touch{CampaignID: "w2", OpportunityID: "o2", Attendees: intPtr(1), TouchDate: day(7)})
	store.AddTouch(domain.Touch{CampaignID: "w3", OpportunityID: "o2", Attendees: intPtr(4), TouchDate: day(14)})
	store.AddTouch(domain.Touch{CampaignID: "e1", OpportunityID: "o1", Attendees: intPtr(5), TouchDate: day(3)})

	return store, campaigns
}

func findType(t *testing.T, rows []CampaignTypeMetrics, campaignType string) CampaignTypeMetrics {
	t.Helper()
	for _, row := range rows {
		if row.Type == campaignType {
			return row
		}
	}
	t.Fatalf("type %q not found", campaignType)
	return CampaignTypeMetrics{}
}

func TestAggregateByTypeWebinarScenario(t *testing.T) {
	store, campaigns := webinarFixture(t)
	engine := NewEngine(store, store)

	report, err := engine.AggregateByType(context.Background(), campaigns)
	require.NoError(t, err)

	webinar := findType(t, report.Types, "Webinar")
	assert.Equal(t, 3, webinar.TotalCampaigns)
	assert.Equal(t, 3500.0, webinar.TotalCost)
	// O1 touched by two webinars still counts once.
	assert.Equal(t, 2, webinar.TotalCustomers)
	assert.Equal(t, 15000.0, webinar.PipelineValue)
	assert.Equal(t, 10000.0, webinar.OpenPipelineValue)
	assert.Equal(t, 5000.0, webinar.ClosedWonValue)
	assert.InDelta(t, 142.857, webinar.ROI, 0.01)
	assert.InDelta(t, 100.0, webinar.WinRate, 1e-6) // 1 won, 0 lost
	assert.InDelta(t, 15000.0/3500.0, webinar.CostEfficiency, 1e-6)
	// Attendees: w1(2) + w2(3) + w2(1) + w3(4) = 10 per-touch, no dedup.
	assert.Equal(t, 10, webinar.TotalAttendees)
	assert.InDelta(t, 1500.0, webinar.AttendeeEfficiency, 1e-6)

	event := findType(t, report.Types, "Event")
	assert.Equal(t, 1, event.TotalCustomers)
	assert.Equal(t, 10000.0, event.PipelineValue)
}

func TestAggregateTotalRowIsNotSumOfTypes(t *testing.T) {
	store, campaigns := webinarFixture(t)
	engine := NewEngine(store, store)

	report, err := engine.AggregateByType(context.Background(), campaigns)
	require.NoError(t, err)

	// O1 qualifies under both Webinar and Event, but the combined row
	// deduplicates it: 2 customers, not 3.
	assert.Equal(t, TotalRowType, report.Total.Type)
	assert.Equal(t, 2, report.Total.TotalCustomers)
	assert.Equal(t, 15000.0, report.Total.PipelineValue)
	assert.Equal(t, 6500.0, report.Total.TotalCost)

	var typeCustomers int
	for _, row := range report.Types {
		typeCustomers += row.TotalCustomers
	}
	assert.Equal(t, 3, typeCustomers)
}

func TestAggregateRowsSortedByPipelineDescending(t *testing.T) {
	store, campaigns := webinarFixture(t)
	engine := NewEngine(store, store)

	report, err := engine.AggregateByType(context.Background(), campaigns)
	require.NoError(t, err)

	require.Len(t, report.Types, 2)
	for i := 1; i < len(report.Types); i++ {
		assert.GreaterOrEqual(t, report.Types[i-1].PipelineValue, report.Types[i].PipelineValue)
	}
}

func TestAggregatePipelineConservation(t *testing.T) {
	store, campaigns := webinarFixture(t)
	engine := NewEngine(store, store)

	var webinarGroup []domain.Campaign
	for _, c := range campaigns {
		if c.Type == "Webinar" {
			webinarGroup = append(webinarGroup, c)
		}
	}

	qualified, err := engine.Qualify(context.Background(), webinarGroup)
	require.NoError(t, err)

	var manual float64
	for _, q := range qualified {
		if !q.Snapshot.IsClosedLost() {
			manual += q.Snapshot.Value
		}
	}

	report, err := engine.AggregateByType(context.Background(), campaigns)
	require.NoError(t, err)
	webinar := findType(t, report.Types, "Webinar")
	assert.InDelta(t, manual, webinar.PipelineValue, 1e-6)
}

func TestAggregateZeroDenominators(t *testing.T) {
	store := memory.NewStore()
	// Zero-cost campaign touching an open opportunity with no attendees and
	// no closed deals: every ratio must be 0, not NaN.
	c := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 0, StartDate: day(0)}
	store.AddCampaign(c)
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o1",
		Stage:           domain.StageDiscovery,
		Value:           1000,
		EnteredPipeline: datePtr(day(1)),
		SnapshotDate:    day(5),
	})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})

	engine := NewEngine(store, store)
	report, err := engine.AggregateByType(context.Background(), []domain.Campaign{c})
	require.NoError(t, err)

	row := findType(t, report.Types, "Webinar")
	assert.Zero(t, row.WinRate)
	assert.Zero(t, row.ROI)
	assert.Zero(t, row.CostEfficiency)
	assert.Zero(t, row.AttendeeEfficiency)
}

func TestAggregateClosedLostExcludedFromPipeline(t *testing.T) {
	store := memory.NewStore()
	c := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 100, StartDate: day(0)}
	store.AddCampaign(c)
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o1",
		Stage:           domain.StageClosedLost,
		Value:           9999,
		EnteredPipeline: datePtr(day(1)),
		CloseDate:       datePtr(day(9)),
		SnapshotDate:    day(9),
	})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})

	engine := NewEngine(store, store)
	report, err := engine.AggregateByType(context.Background(), []domain.Campaign{c})
	require.NoError(t, err)

	row := findType(t, report.Types, "Webinar")
	// The lost deal still qualifies (closed after first touch) but carries
	// no pipeline value and a 0% win rate.
	assert.Equal(t, 1, row.TotalCustomers)
	assert.Zero(t, row.PipelineValue)
	assert.Zero(t, row.WinRate)
}
