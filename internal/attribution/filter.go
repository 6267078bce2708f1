package attribution

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/campaign-insights/internal/domain"
)

// Engine computes campaign attribution from the touch and snapshot stores.
// The caller decides which campaigns to pass in; any time-period filtering
// happens before the engine is invoked.
type Engine struct {
	touches   TouchStore
	snapshots SnapshotStore
}

// NewEngine creates an attribution engine backed by the given stores.
func NewEngine(touches TouchStore, snapshots SnapshotStore) *Engine {
	return &Engine{touches: touches, snapshots: snapshots}
}

// Qualified describes one opportunity credited to a campaign group: the
// current snapshot it qualified on and its earliest touch date within the
// group.
type Qualified struct {
	OpportunityID string          `json:"opportunity_id"`
	FirstTouch    time.Time       `json:"first_touch"`
	Snapshot      domain.Snapshot `json:"snapshot"`
}

// Qualify returns the deduplicated set of opportunities that may be credited
// to the campaign group, keyed by opportunity ID. An opportunity qualifies
// iff its current snapshot has a non-nil entered-pipeline date and its close
// date, when set, is after the opportunity's own earliest touch date within
// the group. An empty group yields an empty set.
func (e *Engine) Qualify(ctx context.Context, group []domain.Campaign) (map[string]Qualified, error) {
	qualified, _, err := e.qualify(ctx, group)
	return qualified, err
}

// qualify also returns the raw touches fetched for the group so callers that
// need per-touch data (attendee sums) avoid a second fetch.
func (e *Engine) qualify(ctx context.Context, group []domain.Campaign) (map[string]Qualified, []domain.Touch, error) {
	qualified := make(map[string]Qualified)
	if len(group) == 0 {
		return qualified, nil, nil
	}

	ids := make([]string, 0, len(group))
	for _, c := range group {
		ids = append(ids, c.ID)
	}

	touches, err := e.touches.GetTouches(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetch touches: %v", ErrDataUnavailable, err)
	}

	// Earliest touch date per opportunity within this group. The per-opportunity
	// date decides the close-date criterion; the group minimum would understate
	// attribution for opportunities touched later.
	firstTouch := make(map[string]time.Time)
	for _, t := range touches {
		if cur, ok := firstTouch[t.OpportunityID]; !ok || t.TouchDate.Before(cur) {
			firstTouch[t.OpportunityID] = t.TouchDate
		}
	}

	for oppID, first := range firstTouch {
		snap, err := e.snapshots.GetLatestSnapshot(ctx, oppID, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fetch snapshot for %s: %v", ErrDataUnavailable, oppID, err)
		}
		if snap == nil {
			// No snapshot at all: cannot satisfy the entered-pipeline criterion.
			continue
		}
		if snap.EnteredPipeline == nil {
			continue
		}
		if snap.CloseDate != nil && !snap.CloseDate.After(first) {
			// Closed before the group ever touched it.
			continue
		}
		qualified[oppID] = Qualified{
			OpportunityID: oppID,
			FirstTouch:    first,
			Snapshot:      *snap,
		}
	}

	return qualified, touches, nil
}
