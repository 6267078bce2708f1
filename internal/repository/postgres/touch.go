package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/campaign-insights/internal/domain"
)

// TouchRepo implements attribution.TouchStore against PostgreSQL.
type TouchRepo struct{ db *sql.DB }

// NewTouchRepo creates a Postgres-backed touch store.
func NewTouchRepo(db *sql.DB) *TouchRepo { return &TouchRepo{db: db} }

func (r *TouchRepo) GetTouches(ctx context.Context, campaignIDs []string) ([]domain.Touch, error) {
	q := `
		SELECT campaign_id, opportunity_id, attendees, touch_date
		FROM campaign_touches`
	args := []interface{}{}
	if len(campaignIDs) > 0 {
		q += ` WHERE campaign_id = ANY($1)`
		args = append(args, pq.Array(campaignIDs))
	}
	q += ` ORDER BY touch_date, campaign_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list touches: %w", err)
	}
	defer rows.Close()

	var out []domain.Touch
	for rows.Next() {
		var t domain.Touch
		if err := rows.Scan(&t.CampaignID, &t.OpportunityID, &t.Attendees, &t.TouchDate); err != nil {
			return nil, fmt.Errorf("scan touch: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
