package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/vitalog/internal/storage"
)

// CreateLabResult inserts a lab result in the processing state and returns
// the stored row.
func (s *Store) CreateLabResult(ctx context.Context, fileName string) (storage.LabResult, error) {
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO lab_results (file_name, upload_date, raw_text, status)
VALUES (?, ?, NULL, 'processing')`,
		fileName, nowMillis())
	if err != nil {
		return storage.LabResult{}, fmt.Errorf("insert lab result: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.LabResult{}, fmt.Errorf("lab result insert id: %w", err)
	}
	return s.GetLabResult(ctx, id)
}

// GetLabResult loads one lab result by id.
func (s *Store) GetLabResult(ctx context.Context, id int64) (storage.LabResult, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, file_name, upload_date, raw_text, status FROM lab_results WHERE id = ?`, id)
	return scanLabResultRow(row)
}

// ListLabResults returns all lab results, newest first.
func (s *Store) ListLabResults(ctx context.Context) ([]storage.LabResult, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, file_name, upload_date, raw_text, status
FROM lab_results ORDER BY upload_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list lab results: %w", err)
	}
	defer rows.Close()

	var results []storage.LabResult
	for rows.Next() {
		var (
			rec        storage.LabResult
			uploadDate int64
			rawText    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.FileName, &uploadDate, &rawText, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan lab result: %w", err)
		}
		rec.UploadDate = fromMillis(uploadDate)
		if rawText.Valid {
			value := rawText.String
			rec.RawText = &value
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// UpdateLabResult applies a partial patch and returns the refreshed row.
func (s *Store) UpdateLabResult(ctx context.Context, id int64, update storage.LabResultUpdate) (storage.LabResult, error) {
	var (
		sets []string
		args []any
	)
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.RawText != nil {
		sets = append(sets, "raw_text = ?")
		args = append(args, *update.RawText)
	}
	if len(sets) > 0 {
		args = append(args, id)
		query := "UPDATE lab_results SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		result, err := s.sqlDB.ExecContext(ctx, query, args...)
		if err != nil {
			return storage.LabResult{}, fmt.Errorf("update lab result: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return storage.LabResult{}, fmt.Errorf("update lab result rows affected: %w", err)
		}
		if affected == 0 {
			return storage.LabResult{}, storage.ErrNotFound
		}
	}
	return s.GetLabResult(ctx, id)
}

// DeleteLabResult removes a lab result; markers and recommendations cascade.
func (s *Store) DeleteLabResult(ctx context.Context, id int64) error {
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM lab_results WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete lab result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lab result rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateHealthMarker inserts one extracted marker and returns the stored row.
func (s *Store) CreateHealthMarker(ctx context.Context, marker storage.NewHealthMarker) (storage.HealthMarker, error) {
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO health_markers (lab_result_id, name, value, unit, normal_min, normal_max, status, category)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		marker.LabResultID,
		marker.Name,
		marker.Value,
		marker.Unit,
		marker.NormalMin,
		marker.NormalMax,
		marker.Status,
		marker.Category,
	)
	if err != nil {
		return storage.HealthMarker{}, fmt.Errorf("insert health marker: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.HealthMarker{}, fmt.Errorf("health marker insert id: %w", err)
	}
	return storage.HealthMarker{
		ID:          id,
		LabResultID: marker.LabResultID,
		Name:        marker.Name,
		Value:       marker.Value,
		Unit:        marker.Unit,
		NormalMin:   marker.NormalMin,
		NormalMax:   marker.NormalMax,
		Status:      marker.Status,
		Category:    marker.Category,
	}, nil
}

// ListHealthMarkers returns every stored marker.
func (s *Store) ListHealthMarkers(ctx context.Context) ([]storage.HealthMarker, error) {
	return s.listHealthMarkers(ctx, `
SELECT id, lab_result_id, name, value, unit, normal_min, normal_max, status, category
FROM health_markers ORDER BY id`)
}

// ListHealthMarkersByLabResult returns the markers owned by one lab result.
func (s *Store) ListHealthMarkersByLabResult(ctx context.Context, labResultID int64) ([]storage.HealthMarker, error) {
	return s.listHealthMarkers(ctx, `
SELECT id, lab_result_id, name, value, unit, normal_min, normal_max, status, category
FROM health_markers WHERE lab_result_id = ? ORDER BY id`, labResultID)
}

func (s *Store) listHealthMarkers(ctx context.Context, query string, args ...any) ([]storage.HealthMarker, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list health markers: %w", err)
	}
	defer rows.Close()

	var markers []storage.HealthMarker
	for rows.Next() {
		var rec storage.HealthMarker
		if err := rows.Scan(
			&rec.ID,
			&rec.LabResultID,
			&rec.Name,
			&rec.Value,
			&rec.Unit,
			&rec.NormalMin,
			&rec.NormalMax,
			&rec.Status,
			&rec.Category,
		); err != nil {
			return nil, fmt.Errorf("scan health marker: %w", err)
		}
		markers = append(markers, rec)
	}
	return markers, rows.Err()
}

// CreateRecommendation inserts one extraction-produced recommendation.
func (s *Store) CreateRecommendation(ctx context.Context, rec storage.NewRecommendation) (storage.Recommendation, error) {
	actionItems, err := encodeStrings(rec.ActionItems)
	if err != nil {
		return storage.Recommendation{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO recommendations (lab_result_id, type, title, description, priority, related_marker, action_items, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.LabResultID,
		rec.Type,
		rec.Title,
		rec.Description,
		rec.Priority,
		rec.RelatedMarker,
		actionItems,
		nowMillis(),
	)
	if err != nil {
		return storage.Recommendation{}, fmt.Errorf("insert recommendation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Recommendation{}, fmt.Errorf("recommendation insert id: %w", err)
	}
	return s.getRecommendation(ctx, id)
}

// ListRecommendations returns every stored recommendation.
func (s *Store) ListRecommendations(ctx context.Context) ([]storage.Recommendation, error) {
	return s.listRecommendations(ctx, `
SELECT id, lab_result_id, type, title, description, priority, related_marker, action_items, created_at
FROM recommendations ORDER BY id`)
}

// ListRecommendationsByLabResult returns recommendations owned by one lab result.
func (s *Store) ListRecommendationsByLabResult(ctx context.Context, labResultID int64) ([]storage.Recommendation, error) {
	return s.listRecommendations(ctx, `
SELECT id, lab_result_id, type, title, description, priority, related_marker, action_items, created_at
FROM recommendations WHERE lab_result_id = ? ORDER BY id`, labResultID)
}

func (s *Store) getRecommendation(ctx context.Context, id int64) (storage.Recommendation, error) {
	recs, err := s.listRecommendations(ctx, `
SELECT id, lab_result_id, type, title, description, priority, related_marker, action_items, created_at
FROM recommendations WHERE id = ?`, id)
	if err != nil {
		return storage.Recommendation{}, err
	}
	if len(recs) == 0 {
		return storage.Recommendation{}, storage.ErrNotFound
	}
	return recs[0], nil
}

func (s *Store) listRecommendations(ctx context.Context, query string, args ...any) ([]storage.Recommendation, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []storage.Recommendation
	for rows.Next() {
		var (
			rec         storage.Recommendation
			actionItems string
			createdAt   int64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.LabResultID,
			&rec.Type,
			&rec.Title,
			&rec.Description,
			&rec.Priority,
			&rec.RelatedMarker,
			&actionItems,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		items, err := decodeStrings(actionItems)
		if err != nil {
			return nil, err
		}
		rec.ActionItems = items
		rec.CreatedAt = fromMillis(createdAt)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanLabResultRow(row *sql.Row) (storage.LabResult, error) {
	var (
		rec        storage.LabResult
		uploadDate int64
		rawText    sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.FileName, &uploadDate, &rawText, &rec.Status); err != nil {
		if err == sql.ErrNoRows {
			return storage.LabResult{}, storage.ErrNotFound
		}
		return storage.LabResult{}, fmt.Errorf("scan lab result: %w", err)
	}
	rec.UploadDate = fromMillis(uploadDate)
	if rawText.Valid {
		value := rawText.String
		rec.RawText = &value
	}
	return rec, nil
}
