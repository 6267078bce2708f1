package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/campaign-insights/internal/domain"
)

// SnapshotRepo implements attribution.SnapshotStore against PostgreSQL.
// Snapshots are append-only; this repository only ever reads them.
type SnapshotRepo struct{ db *sql.DB }

// NewSnapshotRepo creates a Postgres-backed snapshot store.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

func (r *SnapshotRepo) GetLatestSnapshot(ctx context.Context, opportunityID string, asOf *time.Time) (*domain.Snapshot, error) {
	q := `
		SELECT opportunity_id, stage, value, entered_pipeline, close_date, snapshot_date
		FROM opportunity_snapshots
		WHERE opportunity_id = $1`
	args := []interface{}{opportunityID}
	if asOf != nil {
		q += ` AND snapshot_date <= $2`
		args = append(args, *asOf)
	}
	q += ` ORDER BY snapshot_date DESC LIMIT 1`

	s := &domain.Snapshot{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&s.OpportunityID, &s.Stage, &s.Value, &s.EnteredPipeline, &s.CloseDate, &s.SnapshotDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return s, nil
}

func (r *SnapshotRepo) GetSnapshotHistory(ctx context.Context, opportunityID string) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT opportunity_id, stage, value, entered_pipeline, close_date, snapshot_date
		FROM opportunity_snapshots
		WHERE opportunity_id = $1
		ORDER BY snapshot_date
	`, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		if err := rows.Scan(&s.OpportunityID, &s.Stage, &s.Value, &s.EnteredPipeline, &s.CloseDate, &s.SnapshotDate); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
