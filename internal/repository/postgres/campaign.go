// Package postgres implements the attribution store interfaces against
// PostgreSQL. The engine never writes; every repository here is read-only.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/campaign-insights/internal/domain"
)

// CampaignRepo implements attribution.CampaignStore against PostgreSQL.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign store.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

func (r *CampaignRepo) GetCampaigns(ctx context.Context, campaignType string) ([]domain.Campaign, error) {
	q := `
		SELECT id, name, type, cost, start_date
		FROM campaigns`
	args := []interface{}{}
	if campaignType != "" {
		q += ` WHERE type = $1`
		args = append(args, campaignType)
	}
	q += ` ORDER BY start_date, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Cost, &c.StartDate); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
