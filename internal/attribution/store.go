package attribution

import (
	"context"
	"time"

	"github.com/ignite/campaign-insights/internal/domain"
)

// TouchStore supplies campaign-to-opportunity associations.
// Implementations must be safe for concurrent use.
type TouchStore interface {
	// GetTouches returns all touches, optionally restricted to the given
	// campaign IDs. A nil or empty filter means no restriction.
	GetTouches(ctx context.Context, campaignIDs []string) ([]domain.Touch, error)
}

// SnapshotStore supplies point-in-time opportunity state.
type SnapshotStore interface {
	// GetLatestSnapshot returns the snapshot with the maximum snapshot date
	// at or before asOf (or overall when asOf is nil). Returns nil, nil when
	// the opportunity has no snapshot.
	GetLatestSnapshot(ctx context.Context, opportunityID string, asOf *time.Time) (*domain.Snapshot, error)

	// GetSnapshotHistory returns every snapshot for the opportunity ordered
	// by snapshot date ascending.
	GetSnapshotHistory(ctx context.Context, opportunityID string) ([]domain.Snapshot, error)
}

// CampaignStore supplies campaign records.
type CampaignStore interface {
	// GetCampaigns returns campaigns, optionally filtered by type.
	GetCampaigns(ctx context.Context, campaignType string) ([]domain.Campaign, error)
}

// OpportunityStore supplies opportunity identity records.
type OpportunityStore interface {
	// GetOpportunities returns the opportunities with the given IDs. Unknown
	// IDs are silently skipped.
	GetOpportunities(ctx context.Context, ids []string) ([]domain.Opportunity, error)
}
