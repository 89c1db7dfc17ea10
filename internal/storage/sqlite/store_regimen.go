package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/vitalog/internal/storage"
)

// CreateMedication inserts a medication and returns the stored row.
func (s *Store) CreateMedication(ctx context.Context, med storage.NewMedication) (storage.Medication, error) {
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO medications (name, dosage, frequency, time_of_day, with_food, notes, active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.TimeOfDay,
		med.WithFood,
		med.Notes,
		med.Active,
		nowMillis(),
	)
	if err != nil {
		return storage.Medication{}, fmt.Errorf("insert medication: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Medication{}, fmt.Errorf("medication insert id: %w", err)
	}
	return s.getMedication(ctx, id)
}

// ListMedications returns every medication, oldest first.
func (s *Store) ListMedications(ctx context.Context) ([]storage.Medication, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, dosage, frequency, time_of_day, with_food, notes, active, created_at
FROM medications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var meds []storage.Medication
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, med)
	}
	return meds, rows.Err()
}

// UpdateMedication applies a partial patch and returns the refreshed row.
func (s *Store) UpdateMedication(ctx context.Context, id int64, update storage.MedicationUpdate) (storage.Medication, error) {
	var (
		sets []string
		args []any
	)
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Dosage != nil {
		sets = append(sets, "dosage = ?")
		args = append(args, *update.Dosage)
	}
	if update.Frequency != nil {
		sets = append(sets, "frequency = ?")
		args = append(args, *update.Frequency)
	}
	if update.TimeOfDay != nil {
		sets = append(sets, "time_of_day = ?")
		args = append(args, *update.TimeOfDay)
	}
	if update.WithFood != nil {
		sets = append(sets, "with_food = ?")
		args = append(args, *update.WithFood)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *update.Active)
	}
	if err := s.applyUpdate(ctx, "medications", sets, args, id); err != nil {
		return storage.Medication{}, err
	}
	return s.getMedication(ctx, id)
}

// DeleteMedication removes a medication; stored interactions cascade.
func (s *Store) DeleteMedication(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "medications", id)
}

func (s *Store) getMedication(ctx context.Context, id int64) (storage.Medication, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, dosage, frequency, time_of_day, with_food, notes, active, created_at
FROM medications WHERE id = ?`, id)

	var (
		med       storage.Medication
		createdAt int64
	)
	err := row.Scan(&med.ID, &med.Name, &med.Dosage, &med.Frequency, &med.TimeOfDay,
		&med.WithFood, &med.Notes, &med.Active, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.Medication{}, storage.ErrNotFound
		}
		return storage.Medication{}, fmt.Errorf("scan medication: %w", err)
	}
	med.CreatedAt = fromMillis(createdAt)
	return med, nil
}

func scanMedication(rows *sql.Rows) (storage.Medication, error) {
	var (
		med       storage.Medication
		createdAt int64
	)
	err := rows.Scan(&med.ID, &med.Name, &med.Dosage, &med.Frequency, &med.TimeOfDay,
		&med.WithFood, &med.Notes, &med.Active, &createdAt)
	if err != nil {
		return storage.Medication{}, fmt.Errorf("scan medication: %w", err)
	}
	med.CreatedAt = fromMillis(createdAt)
	return med, nil
}

// CreateSupplement inserts a supplement and returns the stored row.
func (s *Store) CreateSupplement(ctx context.Context, supp storage.NewSupplement) (storage.Supplement, error) {
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO supplements (name, dosage, frequency, time_of_day, with_food, reason, source, active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		supp.Name,
		supp.Dosage,
		supp.Frequency,
		supp.TimeOfDay,
		supp.WithFood,
		supp.Reason,
		supp.Source,
		supp.Active,
		nowMillis(),
	)
	if err != nil {
		return storage.Supplement{}, fmt.Errorf("insert supplement: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Supplement{}, fmt.Errorf("supplement insert id: %w", err)
	}
	return s.getSupplement(ctx, id)
}

// ListSupplements returns every supplement, oldest first.
func (s *Store) ListSupplements(ctx context.Context) ([]storage.Supplement, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, dosage, frequency, time_of_day, with_food, reason, source, active, created_at
FROM supplements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list supplements: %w", err)
	}
	defer rows.Close()

	var supps []storage.Supplement
	for rows.Next() {
		supp, err := scanSupplement(rows)
		if err != nil {
			return nil, err
		}
		supps = append(supps, supp)
	}
	return supps, rows.Err()
}

// UpdateSupplement applies a partial patch and returns the refreshed row.
func (s *Store) UpdateSupplement(ctx context.Context, id int64, update storage.SupplementUpdate) (storage.Supplement, error) {
	var (
		sets []string
		args []any
	)
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Dosage != nil {
		sets = append(sets, "dosage = ?")
		args = append(args, *update.Dosage)
	}
	if update.Frequency != nil {
		sets = append(sets, "frequency = ?")
		args = append(args, *update.Frequency)
	}
	if update.TimeOfDay != nil {
		sets = append(sets, "time_of_day = ?")
		args = append(args, *update.TimeOfDay)
	}
	if update.WithFood != nil {
		sets = append(sets, "with_food = ?")
		args = append(args, *update.WithFood)
	}
	if update.Reason != nil {
		sets = append(sets, "reason = ?")
		args = append(args, *update.Reason)
	}
	if update.Source != nil {
		sets = append(sets, "source = ?")
		args = append(args, *update.Source)
	}
	if update.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *update.Active)
	}
	if err := s.applyUpdate(ctx, "supplements", sets, args, id); err != nil {
		return storage.Supplement{}, err
	}
	return s.getSupplement(ctx, id)
}

// DeleteSupplement removes a supplement; stored interactions cascade.
func (s *Store) DeleteSupplement(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "supplements", id)
}

func (s *Store) getSupplement(ctx context.Context, id int64) (storage.Supplement, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, dosage, frequency, time_of_day, with_food, reason, source, active, created_at
FROM supplements WHERE id = ?`, id)

	var (
		supp      storage.Supplement
		createdAt int64
	)
	err := row.Scan(&supp.ID, &supp.Name, &supp.Dosage, &supp.Frequency, &supp.TimeOfDay,
		&supp.WithFood, &supp.Reason, &supp.Source, &supp.Active, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.Supplement{}, storage.ErrNotFound
		}
		return storage.Supplement{}, fmt.Errorf("scan supplement: %w", err)
	}
	supp.CreatedAt = fromMillis(createdAt)
	return supp, nil
}

func scanSupplement(rows *sql.Rows) (storage.Supplement, error) {
	var (
		supp      storage.Supplement
		createdAt int64
	)
	err := rows.Scan(&supp.ID, &supp.Name, &supp.Dosage, &supp.Frequency, &supp.TimeOfDay,
		&supp.WithFood, &supp.Reason, &supp.Source, &supp.Active, &createdAt)
	if err != nil {
		return storage.Supplement{}, fmt.Errorf("scan supplement: %w", err)
	}
	supp.CreatedAt = fromMillis(createdAt)
	return supp, nil
}

// applyUpdate runs a partial UPDATE against one row. A no-op patch leaves the
// row untouched but still requires it to exist.
func (s *Store) applyUpdate(ctx context.Context, table string, sets []string, args []any, id int64) error {
	if len(sets) == 0 {
		var found int
		row := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id)
		if err := row.Scan(&found); err != nil {
			if err == sql.ErrNoRows {
				return storage.ErrNotFound
			}
			return fmt.Errorf("check %s row: %w", table, err)
		}
		return nil
	}
	args = append(args, id)
	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := s.sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s rows affected: %w", table, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s rows affected: %w", table, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
