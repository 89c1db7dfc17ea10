package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/louisbranch/vitalog/internal/storage"
)

// CreatePillStack inserts a pill stack and returns the stored row.
func (s *Store) CreatePillStack(ctx context.Context, stack storage.NewPillStack) (storage.PillStack, error) {
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO pill_stacks (name, description, time_block, created_at)
VALUES (?, ?, ?, ?)`,
		stack.Name,
		stack.Description,
		stack.TimeBlock,
		nowMillis(),
	)
	if err != nil {
		return storage.PillStack{}, fmt.Errorf("insert pill stack: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.PillStack{}, fmt.Errorf("pill stack insert id: %w", err)
	}
	return s.getPillStack(ctx, id)
}

// ListPillStacks returns every pill stack, oldest first.
func (s *Store) ListPillStacks(ctx context.Context) ([]storage.PillStack, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, description, time_block, created_at FROM pill_stacks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list pill stacks: %w", err)
	}
	defer rows.Close()

	var stacks []storage.PillStack
	for rows.Next() {
		var (
			rec       storage.PillStack
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.TimeBlock, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pill stack: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		stacks = append(stacks, rec)
	}
	return stacks, rows.Err()
}

// UpdatePillStack applies a partial patch and returns the refreshed row.
func (s *Store) UpdatePillStack(ctx context.Context, id int64, update storage.PillStackUpdate) (storage.PillStack, error) {
	var (
		sets []string
		args []any
	)
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.TimeBlock != nil {
		sets = append(sets, "time_block = ?")
		args = append(args, *update.TimeBlock)
	}
	if err := s.applyUpdate(ctx, "pill_stacks", sets, args, id); err != nil {
		return storage.PillStack{}, err
	}
	return s.getPillStack(ctx, id)
}

// DeletePillStack removes a pill stack.
func (s *Store) DeletePillStack(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "pill_stacks", id)
}

func (s *Store) getPillStack(ctx context.Context, id int64) (storage.PillStack, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, description, time_block, created_at FROM pill_stacks WHERE id = ?`, id)

	var (
		rec       storage.PillStack
		createdAt int64
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.TimeBlock, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.PillStack{}, storage.ErrNotFound
		}
		return storage.PillStack{}, fmt.Errorf("scan pill stack: %w", err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

// CreatePillDose inserts a dose and returns the stored row.
func (s *Store) CreatePillDose(ctx context.Context, dose storage.NewPillDose) (storage.PillDose, error) {
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO pill_doses (pill_type, pill_id, scheduled_date, scheduled_time_block, status, taken_at, snoozed_until, created_at)
VALUES (?, ?, ?, ?, ?, NULL, NULL, ?)`,
		dose.PillType,
		dose.PillID,
		dose.ScheduledDate,
		dose.ScheduledTimeBlock,
		dose.Status,
		nowMillis(),
	)
	if err != nil {
		return storage.PillDose{}, fmt.Errorf("insert pill dose: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.PillDose{}, fmt.Errorf("pill dose insert id: %w", err)
	}
	return s.getPillDose(ctx, id)
}

// ListPillDoses returns every dose, oldest first.
func (s *Store) ListPillDoses(ctx context.Context) ([]storage.PillDose, error) {
	return s.listPillDoses(ctx, `
SELECT id, pill_type, pill_id, scheduled_date, scheduled_time_block, status, taken_at, snoozed_until, created_at
FROM pill_doses ORDER BY id`)
}

// ListPillDosesByDate returns the doses scheduled for one date.
func (s *Store) ListPillDosesByDate(ctx context.Context, date string) ([]storage.PillDose, error) {
	return s.listPillDoses(ctx, `
SELECT id, pill_type, pill_id, scheduled_date, scheduled_time_block, status, taken_at, snoozed_until, created_at
FROM pill_doses WHERE scheduled_date = ? ORDER BY id`, date)
}

// UpdatePillDose applies a partial patch and returns the refreshed row.
func (s *Store) UpdatePillDose(ctx context.Context, id int64, update storage.PillDoseUpdate) (storage.PillDose, error) {
	var (
		sets []string
		args []any
	)
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.TakenAt != nil {
		sets = append(sets, "taken_at = ?")
		args = append(args, toMillis(*update.TakenAt))
	}
	if update.SnoozedUntil != nil {
		sets = append(sets, "snoozed_until = ?")
		args = append(args, toMillis(*update.SnoozedUntil))
	}
	if update.ScheduledDate != nil {
		sets = append(sets, "scheduled_date = ?")
		args = append(args, *update.ScheduledDate)
	}
	if update.ScheduledTimeBlock != nil {
		sets = append(sets, "scheduled_time_block = ?")
		args = append(args, *update.ScheduledTimeBlock)
	}
	if err := s.applyUpdate(ctx, "pill_doses", sets, args, id); err != nil {
		return storage.PillDose{}, err
	}
	return s.getPillDose(ctx, id)
}

func (s *Store) getPillDose(ctx context.Context, id int64) (storage.PillDose, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, pill_type, pill_id, scheduled_date, scheduled_time_block, status, taken_at, snoozed_until, created_at
FROM pill_doses WHERE id = ?`, id)

	var (
		rec          storage.PillDose
		takenAt      sql.NullInt64
		snoozedUntil sql.NullInt64
		createdAt    int64
	)
	err := row.Scan(&rec.ID, &rec.PillType, &rec.PillID, &rec.ScheduledDate,
		&rec.ScheduledTimeBlock, &rec.Status, &takenAt, &snoozedUntil, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.PillDose{}, storage.ErrNotFound
		}
		return storage.PillDose{}, fmt.Errorf("scan pill dose: %w", err)
	}
	rec.TakenAt = millisPtr(takenAt)
	rec.SnoozedUntil = millisPtr(snoozedUntil)
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

func (s *Store) listPillDoses(ctx context.Context, query string, args ...any) ([]storage.PillDose, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pill doses: %w", err)
	}
	defer rows.Close()

	var doses []storage.PillDose
	for rows.Next() {
		var (
			rec          storage.PillDose
			takenAt      sql.NullInt64
			snoozedUntil sql.NullInt64
			createdAt    int64
		)
		if err := rows.Scan(&rec.ID, &rec.PillType, &rec.PillID, &rec.ScheduledDate,
			&rec.ScheduledTimeBlock, &rec.Status, &takenAt, &snoozedUntil, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pill dose: %w", err)
		}
		rec.TakenAt = millisPtr(takenAt)
		rec.SnoozedUntil = millisPtr(snoozedUntil)
		rec.CreatedAt = fromMillis(createdAt)
		doses = append(doses, rec)
	}
	return doses, rows.Err()
}
