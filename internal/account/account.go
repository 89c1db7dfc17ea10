// Package account models user accounts and their optional health profile.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/platform/id"
	"github.com/louisbranch/vitalog/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 100
)

var (
	// ErrInvalidCredentials indicates a failed username/password login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Sex is the profile sex attribute.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ActivityLevel is the profile activity attribute.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

// Credentials captures a registration or login request.
type Credentials struct {
	Username string
	Password string
}

// NormalizeCredentials validates and canonicalizes credentials.
func NormalizeCredentials(creds Credentials) (Credentials, error) {
	var fields []health.FieldError

	creds.Username = strings.ToLower(strings.TrimSpace(creds.Username))
	if creds.Username == "" {
		fields = append(fields, health.FieldError{Field: "username", Message: "username is required"})
	}
	if len(creds.Password) < minPasswordLength {
		fields = append(fields, health.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		})
	}
	if len(creds.Password) > maxPasswordLength {
		fields = append(fields, health.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d characters", maxPasswordLength),
		})
	}

	if len(fields) > 0 {
		return Credentials{}, &health.ValidationError{Fields: fields}
	}
	return creds, nil
}

// NewUser constructs a user record with a generated id and hashed password.
func NewUser(creds Credentials, now func() time.Time) (storage.User, error) {
	if now == nil {
		now = time.Now
	}
	normalized, err := NormalizeCredentials(creds)
	if err != nil {
		return storage.User{}, err
	}

	userID, err := id.NewID()
	if err != nil {
		return storage.User{}, fmt.Errorf("generate user id: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(normalized.Password), bcrypt.DefaultCost)
	if err != nil {
		return storage.User{}, fmt.Errorf("hash password: %w", err)
	}

	createdAt := now().UTC()
	return storage.User{
		ID:           userID,
		Username:     normalized.Username,
		PasswordHash: string(hash),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// VerifyPassword checks a login password against the stored hash.
func VerifyPassword(user storage.User, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HealthProfileInput captures a partial health-profile patch.
type HealthProfileInput struct {
	Age           *int
	Sex           *string
	HeightCm      *float64
	WeightKg      *float64
	ActivityLevel *string
}

// NormalizeHealthProfileInput validates and canonicalizes a profile patch.
// Submitting any patch marks the profile complete.
func NormalizeHealthProfileInput(input HealthProfileInput) (storage.HealthProfileUpdate, error) {
	var fields []health.FieldError
	var update storage.HealthProfileUpdate

	if input.Age != nil {
		if *input.Age < 1 || *input.Age > 150 {
			fields = append(fields, health.FieldError{Field: "age", Message: "must be between 1 and 150"})
		} else {
			update.Age = input.Age
		}
	}
	if input.Sex != nil {
		sex := strings.ToLower(strings.TrimSpace(*input.Sex))
		switch Sex(sex) {
		case SexMale, SexFemale, SexOther:
			update.Sex = &sex
		default:
			fields = append(fields, health.FieldError{Field: "sex", Message: "must be one of male, female, other"})
		}
	}
	if input.HeightCm != nil {
		if *input.HeightCm <= 0 || *input.HeightCm > 300 {
			fields = append(fields, health.FieldError{Field: "heightCm", Message: "must be between 0 and 300"})
		} else {
			update.HeightCm = input.HeightCm
		}
	}
	if input.WeightKg != nil {
		if *input.WeightKg <= 0 || *input.WeightKg > 700 {
			fields = append(fields, health.FieldError{Field: "weightKg", Message: "must be between 0 and 700"})
		} else {
			update.WeightKg = input.WeightKg
		}
	}
	if input.ActivityLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*input.ActivityLevel))
		switch ActivityLevel(level) {
		case ActivityLow, ActivityModerate, ActivityHigh:
			update.ActivityLevel = &level
		default:
			fields = append(fields, health.FieldError{Field: "activityLevel", Message: "must be one of low, moderate, high"})
		}
	}

	if len(fields) > 0 {
		return storage.HealthProfileUpdate{}, &health.ValidationError{Fields: fields}
	}

	completed := true
	update.ProfileCompleted = &completed
	return update, nil
}

// SkipHealthProfile marks the profile complete without recording attributes.
func SkipHealthProfile() storage.HealthProfileUpdate {
	completed := true
	return storage.HealthProfileUpdate{ProfileCompleted: &completed}
}
