package movement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-insights/internal/domain"
	"github.com/ignite/campaign-insights/internal/repository/memory"
)

func day(offset int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func datePtr(t time.Time) *time.Time { return &t }

func findType(t *testing.T, rows []TypeMetrics, campaignType string) TypeMetrics {
	t.Helper()
	for _, row := range rows {
		if row.Type == campaignType {
			return row
		}
	}
	t.Fatalf("type %q not found", campaignType)
	return TypeMetrics{}
}

func TestNewPipelineWithinWindow(t *testing.T) {
	store := memory.NewStore()
	c := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 1000, StartDate: day(0)}
	store.AddCampaign(c)

	// Entered pipeline 10 days after the campaign: inside the 30-day window.
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o1",
		Stage:           domain.StageDiscovery,
		Value:           20000,
		EnteredPipeline: datePtr(day(10)),
		SnapshotDate:    day(15),
	})
	// Entered pipeline 40 days after: outside.
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o2",
		Stage:           domain.StageDiscovery,
		Value:           50000,
		EnteredPipeline: datePtr(day(40)),
		SnapshotDate:    day(45),
	})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o2", TouchDate: day(0)})

	d := NewDetector(store, store)
	report, err := d.NewPipeline(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)

	require.Len(t, report.Movements, 1)
	assert.Equal(t, "o1", report.Movements[0].OpportunityID)

	row := findType(t, report.Types, "Webinar")
	assert.Equal(t, 1, row.Movements)
	assert.Equal(t, 20000.0, row.MovedValue)
	assert.InDelta(t, 20.0, row.CostEfficiency, 1e-6)
}

func TestNewPipelineExcludesClosedLost(t *testing.T) {
	store := memory.NewStore()
	c := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 1000, StartDate: day(0)}
	store.AddCampaign(c)
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o1",
		Stage:           domain.StageClosedLost,
		Value:           20000,
		EnteredPipeline: datePtr(day(10)),
		CloseDate:       datePtr(day(20)),
		SnapshotDate:    day(20),
	})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})

	d := NewDetector(store, store)
	report, err := d.NewPipeline(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)
	assert.Empty(t, report.Movements)
}

func TestNewPipelineBucketsClosedWon(t *testing.T) {
	store := memory.NewStore()
	c := domain.Campaign{ID: "c1", Type: "Event", Cost: 500, StartDate: day(0)}
	store.AddCampaign(c)
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o1",
		Stage:           domain.StageClosedWon,
		Value:           8000,
		EnteredPipeline: datePtr(day(5)),
		CloseDate:       datePtr(day(25)),
		SnapshotDate:    day(25),
	})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})

	d := NewDetector(store, store)
	report, err := d.NewPipeline(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)

	row := findType(t, report.Types, "Event")
	assert.Equal(t, 1, row.ClosedWonCount)
	assert.Equal(t, 8000.0, row.ClosedWonValue)
}

func stageAdvanceStore(t *testing.T, beforeStage, afterStage string) (*memory.Store, domain.Campaign) {
	t.Helper()
	store := memory.NewStore()
	c := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 1000, StartDate: day(0)}
	store.AddCampaign(c)
	store.AddSnapshot(domain.Snapshot{
		OpportunityID: "o1",
		Stage:         beforeStage,
		Value:         10000,
		SnapshotDate:  day(-2),
	})
	store.AddSnapshot(domain.Snapshot{
		OpportunityID: "o1",
		Stage:         afterStage,
		Value:         12000,
		SnapshotDate:  day(14),
	})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})
	return store, c
}

func TestStageAdvanceDetectsForwardProgress(t *testing.T) {
	store, c := stageAdvanceStore(t, domain.StageDiscovery, domain.StageChampions)
	d := NewDetector(store, store)

	report, err := d.StageAdvance(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)

	require.Len(t, report.Movements, 1)
	m := report.Movements[0]
	assert.Equal(t, domain.StageChampions, m.Stage)
	assert.Equal(t, 12000.0, m.Value) // the after-snapshot's value
}

func TestStageAdvanceIgnoresRegression(t *testing.T) {
	store, c := stageAdvanceStore(t, domain.StageChampions, domain.StageDiscovery)
	d := NewDetector(store, store)

	report, err := d.StageAdvance(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)
	assert.Empty(t, report.Movements)
}

func TestStageAdvanceIgnoresSameStage(t *testing.T) {
	store, c := stageAdvanceStore(t, domain.StageDiscovery, domain.StageDiscovery)
	d := NewDetector(store, store)

	report, err := d.StageAdvance(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)
	assert.Empty(t, report.Movements)
}

func TestStageAdvanceClosedLostNeverCounts(t *testing.T) {
	// Closed Lost has no ordinal rank; moving "to" it is never positive.
	store, c := stageAdvanceStore(t, domain.StageNegotiation, domain.StageClosedLost)
	d := NewDetector(store, store)

	report, err := d.StageAdvance(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)
	assert.Empty(t, report.Movements)
}

func TestStageAdvanceToClosedWonCounts(t *testing.T) {
	store, c := stageAdvanceStore(t, domain.StageNegotiation, domain.StageClosedWon)
	d := NewDetector(store, store)

	report, err := d.StageAdvance(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)

	row := findType(t, report.Types, "Webinar")
	assert.Equal(t, 1, row.ClosedWonCount)
	assert.Equal(t, 12000.0, row.ClosedWonValue)
}

func TestStageAdvanceRequiresPairInsideWindow(t *testing.T) {
	store := memory.NewStore()
	c := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 1000, StartDate: day(0)}
	store.AddCampaign(c)
	// Both snapshots predate the campaign; the latest one inside the window
	// is before the campaign start, so no movement is credited.
	store.AddSnapshot(domain.Snapshot{OpportunityID: "o1", Stage: domain.StageValidation, Value: 1000, SnapshotDate: day(-20)})
	store.AddSnapshot(domain.Snapshot{OpportunityID: "o1", Stage: domain.StageDiscovery, Value: 1500, SnapshotDate: day(-10)})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})

	d := NewDetector(store, store)
	report, err := d.StageAdvance(context.Background(), []domain.Campaign{c}, 30)
	require.NoError(t, err)
	assert.Empty(t, report.Movements)
}

func TestDetectDeduplicatesWithinType(t *testing.T) {
	store := memory.NewStore()
	c1 := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 1000, StartDate: day(0)}
	c2 := domain.Campaign{ID: "c2", Type: "Webinar", Cost: 2000, StartDate: day(5)}
	store.AddCampaign(c1)
	store.AddCampaign(c2)
	store.AddSnapshot(domain.Snapshot{
		OpportunityID:   "o1",
		Stage:           domain.StageDiscovery,
		Value:           10000,
		EnteredPipeline: datePtr(day(10)),
		SnapshotDate:    day(12),
	})
	store.AddTouch(domain.Touch{CampaignID: "c1", OpportunityID: "o1", TouchDate: day(0)})
	store.AddTouch(domain.Touch{CampaignID: "c2", OpportunityID: "o1", TouchDate: day(5)})

	d := NewDetector(store, store)
	report, err := d.NewPipeline(context.Background(), []domain.Campaign{c1, c2}, 30)
	require.NoError(t, err)

	// Both campaign windows contain the pipeline entry, but the opportunity
	// moves once per type.
	row := findType(t, report.Types, "Webinar")
	assert.Equal(t, 1, row.Movements)
	assert.Equal(t, 10000.0, row.MovedValue)
	assert.Equal(t, 3000.0, row.TotalCost)
}

func TestDefaultWindowApplied(t *testing.T) {
	store := memory.NewStore()
	c := domain.Campaign{ID: "c1", Type: "Webinar", Cost: 100, StartDate: day(0)}
	store.AddCampaign(c)

	d := NewDetector(store, store)
	report, err := d.NewPipeline(context.Background(), []domain.Campaign{c}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultWindowDays, report.WindowDays)
}
