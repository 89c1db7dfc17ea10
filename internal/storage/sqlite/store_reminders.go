package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/louisbranch/vitalog/internal/storage"
)

// CreateReminder inserts a reminder and returns the stored row.
func (s *Store) CreateReminder(ctx context.Context, reminder storage.NewReminder) (storage.Reminder, error) {
	days, err := encodeStrings(reminder.Days)
	if err != nil {
		return storage.Reminder{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO reminders (title, time, days, type, related_id, enabled, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reminder.Title,
		reminder.Time,
		days,
		reminder.Type,
		nullableID(reminder.RelatedID),
		reminder.Enabled,
		nowMillis(),
	)
	if err != nil {
		return storage.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Reminder{}, fmt.Errorf("reminder insert id: %w", err)
	}
	return s.getReminder(ctx, id)
}

// ListReminders returns every reminder, oldest first.
func (s *Store) ListReminders(ctx context.Context) ([]storage.Reminder, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, title, time, days, type, related_id, enabled, created_at
FROM reminders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []storage.Reminder
	for rows.Next() {
		var (
			rec       storage.Reminder
			days      string
			relatedID sql.NullInt64
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Time, &days, &rec.Type,
			&relatedID, &rec.Enabled, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		decoded, err := decodeStrings(days)
		if err != nil {
			return nil, err
		}
		rec.Days = decoded
		if relatedID.Valid {
			value := relatedID.Int64
			rec.RelatedID = &value
		}
		rec.CreatedAt = fromMillis(createdAt)
		reminders = append(reminders, rec)
	}
	return reminders, rows.Err()
}

// UpdateReminder applies a partial patch and returns the refreshed row.
func (s *Store) UpdateReminder(ctx context.Context, id int64, update storage.ReminderUpdate) (storage.Reminder, error) {
	var (
		sets []string
		args []any
	)
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Time != nil {
		sets = append(sets, "time = ?")
		args = append(args, *update.Time)
	}
	if update.Days != nil {
		days, err := encodeStrings(*update.Days)
		if err != nil {
			return storage.Reminder{}, err
		}
		sets = append(sets, "days = ?")
		args = append(args, days)
	}
	if update.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *update.Type)
	}
	if update.RelatedID != nil {
		sets = append(sets, "related_id = ?")
		args = append(args, *update.RelatedID)
	}
	if update.Enabled != nil {
		sets = append(sets, "enabled = ?")
		args = append(args, *update.Enabled)
	}
	if err := s.applyUpdate(ctx, "reminders", sets, args, id); err != nil {
		return storage.Reminder{}, err
	}
	return s.getReminder(ctx, id)
}

// DeleteReminder removes a reminder.
func (s *Store) DeleteReminder(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "reminders", id)
}

func (s *Store) getReminder(ctx context.Context, id int64) (storage.Reminder, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, title, time, days, type, related_id, enabled, created_at
FROM reminders WHERE id = ?`, id)

	var (
		rec       storage.Reminder
		days      string
		relatedID sql.NullInt64
		createdAt int64
	)
	err := row.Scan(&rec.ID, &rec.Title, &rec.Time, &days, &rec.Type,
		&relatedID, &rec.Enabled, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.Reminder{}, storage.ErrNotFound
		}
		return storage.Reminder{}, fmt.Errorf("scan reminder: %w", err)
	}
	decoded, err := decodeStrings(days)
	if err != nil {
		return storage.Reminder{}, err
	}
	rec.Days = decoded
	if relatedID.Valid {
		value := relatedID.Int64
		rec.RelatedID = &value
	}
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

func nullableID(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}
