package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-insights/internal/attribution"
)

func TestReallocateFlagsCostlyLowROI(t *testing.T) {
	types := []attribution.CampaignTypeMetrics{
		{Type: "Webinar", TotalCost: 3000, ROI: 300},
		{Type: "Event", TotalCost: 6000, ROI: 50},
		{Type: "Executive Dinner", TotalCost: 1000, ROI: 100},
	}

	analysis := Reallocate(types)
	assert.InDelta(t, 150.0, analysis.MeanROI, 1e-6)
	assert.Equal(t, 10000.0, analysis.TotalCost)
	assert.Equal(t, "Webinar", analysis.RecommendedTarget)

	// Event: 60% of spend, ROI below mean. Executive Dinner is also below
	// the mean but carries only 10% of spend, which does not exceed the
	// threshold.
	require.Len(t, analysis.Inefficient, 1)
	flagged := analysis.Inefficient[0]
	assert.Equal(t, "Event", flagged.Type)
	assert.InDelta(t, 60.0, flagged.CostShare, 1e-6)

	assert.Equal(t, 6000.0, analysis.ReallocationAmount)
	assert.InDelta(t, 18000.0, analysis.PotentialGain, 1e-6) // 6000 at 300% ROI
	assert.NotEmpty(t, analysis.Summary)
}

func TestReallocateHealthyAllocation(t *testing.T) {
	types := []attribution.CampaignTypeMetrics{
		{Type: "Webinar", TotalCost: 5000, ROI: 120},
		{Type: "Event", TotalCost: 5000, ROI: 120},
	}

	analysis := Reallocate(types)
	assert.Empty(t, analysis.Inefficient)
	assert.Zero(t, analysis.ReallocationAmount)
	assert.Zero(t, analysis.PotentialGain)
	assert.NotEmpty(t, analysis.Summary)
}

func TestReallocateUnweightedMean(t *testing.T) {
	// A tiny high-ROI type pulls the unweighted mean up even though it
	// carries almost no spend.
	types := []attribution.CampaignTypeMetrics{
		{Type: "Webinar", TotalCost: 9900, ROI: 90},
		{Type: "Executive Dinner", TotalCost: 100, ROI: 500},
	}

	analysis := Reallocate(types)
	assert.InDelta(t, 295.0, analysis.MeanROI, 1e-6)
	require.Len(t, analysis.Inefficient, 1)
	assert.Equal(t, "Webinar", analysis.Inefficient[0].Type)
	assert.Equal(t, "Executive Dinner", analysis.RecommendedTarget)
}

func TestReallocateEmptyInput(t *testing.T) {
	analysis := Reallocate(nil)
	assert.Zero(t, analysis.MeanROI)
	assert.Empty(t, analysis.Inefficient)
	assert.NotEmpty(t, analysis.Summary)
}

func TestReallocateZeroCost(t *testing.T) {
	types := []attribution.CampaignTypeMetrics{
		{Type: "Webinar", TotalCost: 0, ROI: 0},
	}

	analysis := Reallocate(types)
	assert.Zero(t, analysis.TotalCost)
	assert.Empty(t, analysis.Inefficient)
}
