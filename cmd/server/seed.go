package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignite/campaign-insights/internal/domain"
	"github.com/ignite/campaign-insights/internal/repository/memory"
)

// seedDemo loads a small, self-consistent dataset so the API is explorable
// without a database: three campaign types, a handful of opportunities with
// multi-snapshot histories, and overlapping touches across types.
func seedDemo(store *memory.Store) {
	day := func(offset int) time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}
	ptr := func(t time.Time) *time.Time { return &t }
	intPtr := func(n int) *int { return &n }
	boolPtr := func(b bool) *bool { return &b }

	webinarA := domain.Campaign{ID: uuid.New().String(), Name: "Q1 Product Webinar", Type: "Webinar", Cost: 1000, StartDate: day(0)}
	webinarB := domain.Campaign{ID: uuid.New().String(), Name: "Q1 Deep Dive Webinar", Type: "Webinar", Cost: 2000, StartDate: day(14)}
	webinarC := domain.Campaign{ID: uuid.New().String(), Name: "Customer Story Webinar", Type: "Webinar", Cost: 500, StartDate: day(28)}
	fieldEvent := domain.Campaign{ID: uuid.New().String(), Name: "Regional Field Event", Type: "Event", Cost: 8000, StartDate: day(7)}
	dinner := domain.Campaign{ID: uuid.New().String(), Name: "Executive Dinner", Type: "Executive Dinner", Cost: 4000, StartDate: day(21)}
	for _, c := range []domain.Campaign{webinarA, webinarB, webinarC, fieldEvent, dinner} {
		store.AddCampaign(c)
	}

	type opp struct {
		o         domain.Opportunity
		snapshots []domain.Snapshot
		touches   []domain.Touch
	}

	acme := domain.Opportunity{ID: uuid.New().String(), ExternalID: "OPP-1001", Name: "Acme Platform Expansion", ClientName: "Acme Corp", TargetAccount: boolPtr(true)}
	globex := domain.Opportunity{ID: uuid.New().String(), ExternalID: "OPP-1002", Name: "Globex Rollout", ClientName: "Globex", TargetAccount: boolPtr(false)}
	initech := domain.Opportunity{ID: uuid.New().String(), ExternalID: "OPP-1003", Name: "Initech Renewal Upsell", ClientName: "Initech", TargetAccount: boolPtr(true)}
	umbrella := domain.Opportunity{ID: uuid.New().String(), ExternalID: "OPP-1004", Name: "Umbrella Pilot", ClientName: "Umbrella"}

	seeds := []opp{
		{
			o: acme,
			snapshots: []domain.Snapshot{
				{OpportunityID: acme.ID, Stage: domain.StageDiscovery, Value: 120000, EnteredPipeline: ptr(day(5)), SnapshotDate: day(10)},
				{OpportunityID: acme.ID, Stage: domain.StageChampions, Value: 150000, EnteredPipeline: ptr(day(5)), SnapshotDate: day(25)},
			},
			touches: []domain.Touch{
				{CampaignID: webinarA.ID, OpportunityID: acme.ID, Attendees: intPtr(3), TouchDate: day(0)},
				{CampaignID: fieldEvent.ID, OpportunityID: acme.ID, Attendees: intPtr(6), TouchDate: day(7)},
				{CampaignID: dinner.ID, OpportunityID: acme.ID, Attendees: intPtr(2), TouchDate: day(21)},
			},
		},
		{
			o: globex,
			snapshots: []domain.Snapshot{
				{OpportunityID: globex.ID, Stage: domain.StageValidation, Value: 40000, SnapshotDate: day(8)},
				{OpportunityID: globex.ID, Stage: domain.StageDiscovery, Value: 45000, EnteredPipeline: ptr(day(16)), SnapshotDate: day(20)},
			},
			touches: []domain.Touch{
				{CampaignID: webinarB.ID, OpportunityID: globex.ID, Attendees: intPtr(1), TouchDate: day(14)},
			},
		},
		{
			o: initech,
			snapshots: []domain.Snapshot{
				{OpportunityID: initech.ID, Stage: domain.StageNegotiation, Value: 90000, EnteredPipeline: ptr(day(-30)), SnapshotDate: day(12)},
				{OpportunityID: initech.ID, Stage: domain.StageClosedWon, Value: 95000, EnteredPipeline: ptr(day(-30)), CloseDate: ptr(day(26)), SnapshotDate: day(26)},
			},
			touches: []domain.Touch{
				{CampaignID: webinarA.ID, OpportunityID: initech.ID, Attendees: intPtr(4), TouchDate: day(0)},
				{CampaignID: webinarB.ID, OpportunityID: initech.ID, Attendees: intPtr(4), TouchDate: day(14)},
				{CampaignID: dinner.ID, OpportunityID: initech.ID, Attendees: intPtr(3), TouchDate: day(21)},
			},
		},
		{
			o: umbrella,
			snapshots: []domain.Snapshot{
				{OpportunityID: umbrella.ID, Stage: domain.StageClosedLost, Value: 30000, EnteredPipeline: ptr(day(2)), CloseDate: ptr(day(18)), SnapshotDate: day(18)},
			},
			touches: []domain.Touch{
				{CampaignID: fieldEvent.ID, OpportunityID: umbrella.ID, Attendees: intPtr(2), TouchDate: day(7)},
			},
		},
	}

	for _, s := range seeds {
		store.AddOpportunity(s.o)
		for _, snap := range s.snapshots {
			store.AddSnapshot(snap)
		}
		for _, t := range s.touches {
			store.AddTouch(t)
		}
	}
}
