package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/vitalog/internal/storage"
)

const userColumns = `id, username, password_hash, age, sex, height_cm, weight_kg,
	activity_level, profile_completed, created_at, updated_at`

// CreateUser persists an account record.
func (s *Store) CreateUser(ctx context.Context, user storage.User) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (id, username, password_hash, age, sex, height_cm, weight_kg,
	activity_level, profile_completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		nullableInt(user.Age),
		user.Sex,
		nullableFloat(user.HeightCm),
		nullableFloat(user.WeightKg),
		user.ActivityLevel,
		user.ProfileCompleted,
		toMillis(user.CreatedAt),
		toMillis(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID loads one account by its identifier.
func (s *Store) GetUserByID(ctx context.Context, id string) (storage.User, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUserRow(row)
}

// GetUserByUsername loads one account by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUserRow(row)
}

// UpdateHealthProfile applies a partial health-profile patch and returns the
// refreshed account record.
func (s *Store) UpdateHealthProfile(ctx context.Context, id string, update storage.HealthProfileUpdate) (storage.User, error) {
	var (
		sets []string
		args []any
	)
	if update.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *update.Age)
	}
	if update.Sex != nil {
		sets = append(sets, "sex = ?")
		args = append(args, *update.Sex)
	}
	if update.HeightCm != nil {
		sets = append(sets, "height_cm = ?")
		args = append(args, *update.HeightCm)
	}
	if update.WeightKg != nil {
		sets = append(sets, "weight_kg = ?")
		args = append(args, *update.WeightKg)
	}
	if update.ActivityLevel != nil {
		sets = append(sets, "activity_level = ?")
		args = append(args, *update.ActivityLevel)
	}
	if update.ProfileCompleted != nil {
		sets = append(sets, "profile_completed = ?")
		args = append(args, *update.ProfileCompleted)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, nowMillis())
		args = append(args, id)
		query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		result, err := s.sqlDB.ExecContext(ctx, query, args...)
		if err != nil {
			return storage.User{}, fmt.Errorf("update user health profile: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return storage.User{}, fmt.Errorf("update user rows affected: %w", err)
		}
		if affected == 0 {
			return storage.User{}, storage.ErrNotFound
		}
	}
	return s.GetUserByID(ctx, id)
}

func scanUserRow(row *sql.Row) (storage.User, error) {
	var (
		user             storage.User
		age              sql.NullInt64
		heightCm         sql.NullFloat64
		weightKg         sql.NullFloat64
		profileCompleted bool
		createdAt        int64
		updatedAt        int64
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&age,
		&user.Sex,
		&heightCm,
		&weightKg,
		&user.ActivityLevel,
		&profileCompleted,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("scan user: %w", err)
	}
	if age.Valid {
		value := int(age.Int64)
		user.Age = &value
	}
	if heightCm.Valid {
		value := heightCm.Float64
		user.HeightCm = &value
	}
	if weightKg.Valid {
		value := weightKg.Float64
		user.WeightKg = &value
	}
	user.ProfileCompleted = profileCompleted
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullableFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
