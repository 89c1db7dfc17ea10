package sqlite

import (
	"context"
	"fmt"

	"github.com/louisbranch/vitalog/internal/storage"
)

// ListInteractions returns every stored interaction finding.
func (s *Store) ListInteractions(ctx context.Context) ([]storage.Interaction, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, medication_id, supplement_id, severity, description, recommendation, created_at
FROM interactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var interactions []storage.Interaction
	for rows.Next() {
		var (
			rec       storage.Interaction
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.MedicationID, &rec.SupplementID,
			&rec.Severity, &rec.Description, &rec.Recommendation, &createdAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		interactions = append(interactions, rec)
	}
	return interactions, rows.Err()
}

// ReplaceInteractions swaps the entire stored set for the provided findings
// inside one transaction, so a concurrent reader never observes the
// half-replaced state. It returns the refreshed set.
func (s *Store) ReplaceInteractions(ctx context.Context, findings []storage.NewInteraction) ([]storage.Interaction, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin interaction replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM interactions"); err != nil {
		return nil, fmt.Errorf("clear interactions: %w", err)
	}

	now := nowMillis()
	for _, finding := range findings {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO interactions (medication_id, supplement_id, severity, description, recommendation, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
			finding.MedicationID,
			finding.SupplementID,
			finding.Severity,
			finding.Description,
			finding.Recommendation,
			now,
		); err != nil {
			return nil, fmt.Errorf("insert interaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit interaction replace: %w", err)
	}
	return s.ListInteractions(ctx)
}
