// Package memory provides an in-memory implementation of the attribution
// store interfaces. It backs tests and the demo seed path when no database
// is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ignite/campaign-insights/internal/domain"
)

// Store holds campaigns, opportunities, snapshots, and touches in memory.
// Safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	campaigns     []domain.Campaign
	opportunities map[string]domain.Opportunity
	snapshots     map[string][]domain.Snapshot // per opportunity, date ascending
	touches       []domain.Touch
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		opportunities: make(map[string]domain.Opportunity),
		snapshots:     make(map[string][]domain.Snapshot),
	}
}

// AddCampaign registers a campaign.
func (s *Store) AddCampaign(c domain.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = append(s.campaigns, c)
}

// AddOpportunity registers an opportunity.
func (s *Store) AddOpportunity(o domain.Opportunity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opportunities[o.ID] = o
}

// AddSnapshot appends a snapshot, keeping the per-opportunity history
// ordered by snapshot date ascending.
func (s *Store) AddSnapshot(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.snapshots[snap.OpportunityID], snap)
	sort.Slice(history, func(i, j int) bool {
		return history[i].SnapshotDate.Before(history[j].SnapshotDate)
	})
	s.snapshots[snap.OpportunityID] = history
}

// AddTouch registers a campaign-to-opportunity touch.
func (s *Store) AddTouch(t domain.Touch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touches = append(s.touches, t)
}

// GetCampaigns returns campaigns, optionally filtered by type.
func (s *Store) GetCampaigns(ctx context.Context, campaignType string) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		if campaignType != "" && c.Type != campaignType {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// GetOpportunities returns the opportunities with the given IDs, skipping
// unknown ones.
func (s *Store) GetOpportunities(ctx context.Context, ids []string) ([]domain.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Opportunity, 0, len(ids))
	for _, id := range ids {
		if o, ok := s.opportunities[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// GetTouches returns touches, optionally restricted to the given campaigns.
func (s *Store) GetTouches(ctx context.Context, campaignIDs []string) ([]domain.Touch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(campaignIDs) == 0 {
		out := make([]domain.Touch, len(s.touches))
		copy(out, s.touches)
		return out, nil
	}
	want := make(map[string]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		want[id] = true
	}
	var out []domain.Touch
	for _, t := range s.touches {
		if want[t.CampaignID] {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetLatestSnapshot returns the most recent snapshot at or before asOf (or
// overall when asOf is nil); nil when the opportunity has none.
func (s *Store) GetLatestSnapshot(ctx context.Context, opportunityID string, asOf *time.Time) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.snapshots[opportunityID]
	for i := len(history) - 1; i >= 0; i-- {
		if asOf == nil || !history[i].SnapshotDate.After(*asOf) {
			snap := history[i]
			return &snap, nil
		}
	}
	return nil, nil
}

// GetSnapshotHistory returns all snapshots for the opportunity, date
// ascending.
func (s *Store) GetSnapshotHistory(ctx context.Context, opportunityID string) ([]domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.snapshots[opportunityID]
	out := make([]domain.Snapshot, len(history))
	copy(out, history)
	return out, nil
}
