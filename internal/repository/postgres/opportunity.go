package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/campaign-insights/internal/domain"
)

// OpportunityRepo implements attribution.OpportunityStore against
// PostgreSQL.
type OpportunityRepo struct{ db *sql.DB }

// NewOpportunityRepo creates a Postgres-backed opportunity store.
func NewOpportunityRepo(db *sql.DB) *OpportunityRepo { return &OpportunityRepo{db: db} }

func (r *OpportunityRepo) GetOpportunities(ctx context.Context, ids []string) ([]domain.Opportunity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, external_id, COALESCE(name,''), COALESCE(client_name,''), target_account
		FROM opportunities
		WHERE id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var out []domain.Opportunity
	for rows.Next() {
		var o domain.Opportunity
		if err := rows.Scan(&o.ID, &o.ExternalID, &o.Name, &o.ClientName, &o.TargetAccount); err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
