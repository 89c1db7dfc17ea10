// Package storage defines persistence contracts for health-tracking state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// User stores one account with its optional health profile.
type User struct {
	ID               string
	Username         string
	PasswordHash     string
	Age              *int
	Sex              string
	HeightCm         *float64
	WeightKg         *float64
	ActivityLevel    string
	ProfileCompleted bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HealthProfileUpdate carries a partial health-profile patch. Nil fields are
// left untouched.
type HealthProfileUpdate struct {
	Age              *int
	Sex              *string
	HeightCm         *float64
	WeightKg         *float64
	ActivityLevel    *string
	ProfileCompleted *bool
}

// LabResult stores one uploaded lab document and its processing lifecycle.
type LabResult struct {
	ID         int64
	FileName   string
	UploadDate time.Time
	RawText    *string
	Status     string
}

// LabResultUpdate carries a partial lab-result patch.
type LabResultUpdate struct {
	Status  *string
	RawText *string
}

// HealthMarker stores one extracted lab measurement.
type HealthMarker struct {
	ID          int64
	LabResultID int64
	Name        string
	Value       float64
	Unit        string
	NormalMin   float64
	NormalMax   float64
	Status      string
	Category    string
}

// NewHealthMarker carries fields for creating a marker.
type NewHealthMarker struct {
	LabResultID int64
	Name        string
	Value       float64
	Unit        string
	NormalMin   float64
	NormalMax   float64
	Status      string
	Category    string
}

// Medication stores one user-managed medication.
type Medication struct {
	ID        int64
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	WithFood  bool
	Notes     string
	Active    bool
	CreatedAt time.Time
}

// NewMedication carries fields for creating a medication.
type NewMedication struct {
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	WithFood  bool
	Notes     string
	Active    bool
}

// MedicationUpdate carries a partial medication patch.
type MedicationUpdate struct {
	Name      *string
	Dosage    *string
	Frequency *string
	TimeOfDay *string
	WithFood  *bool
	Notes     *string
	Active    *bool
}

// Supplement stores one user-managed supplement.
type Supplement struct {
	ID        int64
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	WithFood  bool
	Reason    string
	Source    string
	Active    bool
	CreatedAt time.Time
}

// NewSupplement carries fields for creating a supplement.
type NewSupplement struct {
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	WithFood  bool
	Reason    string
	Source    string
	Active    bool
}

// SupplementUpdate carries a partial supplement patch.
type SupplementUpdate struct {
	Name      *string
	Dosage    *string
	Frequency *string
	TimeOfDay *string
	WithFood  *bool
	Reason    *string
	Source    *string
	Active    *bool
}

// Recommendation stores one extraction-produced recommendation.
type Recommendation struct {
	ID            int64
	LabResultID   int64
	Type          string
	Title         string
	Description   string
	Priority      string
	RelatedMarker string
	ActionItems   []string
	CreatedAt     time.Time
}

// NewRecommendation carries fields for creating a recommendation.
type NewRecommendation struct {
	LabResultID   int64
	Type          string
	Title         string
	Description   string
	Priority      string
	RelatedMarker string
	ActionItems   []string
}

// Reminder stores one scheduled reminder.
type Reminder struct {
	ID        int64
	Title     string
	Time      string
	Days      []string
	Type      string
	RelatedID *int64
	Enabled   bool
	CreatedAt time.Time
}

// NewReminder carries fields for creating a reminder.
type NewReminder struct {
	Title     string
	Time      string
	Days      []string
	Type      string
	RelatedID *int64
	Enabled   bool
}

// ReminderUpdate carries a partial reminder patch.
type ReminderUpdate struct {
	Title     *string
	Time      *string
	Days      *[]string
	Type      *string
	RelatedID *int64
	Enabled   *bool
}

// Interaction stores one flagged medication-supplement conflict.
type Interaction struct {
	ID             int64
	MedicationID   int64
	SupplementID   int64
	Severity       string
	Description    string
	Recommendation string
	CreatedAt      time.Time
}

// NewInteraction carries fields for storing an interaction finding.
type NewInteraction struct {
	MedicationID   int64
	SupplementID   int64
	Severity       string
	Description    string
	Recommendation string
}

// PillStack stores one named grouping of pills taken together.
type PillStack struct {
	ID          int64
	Name        string
	Description string
	TimeBlock   string
	CreatedAt   time.Time
}

// NewPillStack carries fields for creating a pill stack.
type NewPillStack struct {
	Name        string
	Description string
	TimeBlock   string
}

// PillStackUpdate carries a partial pill-stack patch.
type PillStackUpdate struct {
	Name        *string
	Description *string
	TimeBlock   *string
}

// PillDose stores one scheduled pill-taking instance.
type PillDose struct {
	ID                 int64
	PillType           string
	PillID             int64
	ScheduledDate      string
	ScheduledTimeBlock string
	Status             string
	TakenAt            *time.Time
	SnoozedUntil       *time.Time
	CreatedAt          time.Time
}

// NewPillDose carries fields for creating a dose.
type NewPillDose struct {
	PillType           string
	PillID             int64
	ScheduledDate      string
	ScheduledTimeBlock string
	Status             string
}

// PillDoseUpdate carries a partial dose patch.
type PillDoseUpdate struct {
	Status             *string
	TakenAt            *time.Time
	SnoozedUntil       *time.Time
	ScheduledDate      *string
	ScheduledTimeBlock *string
}

// UserStore persists account records.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UpdateHealthProfile(ctx context.Context, id string, update HealthProfileUpdate) (User, error)
}

// LabResultStore persists lab results and their extraction output. Deleting a
// lab result cascades to its markers and recommendations.
type LabResultStore interface {
	CreateLabResult(ctx context.Context, fileName string) (LabResult, error)
	GetLabResult(ctx context.Context, id int64) (LabResult, error)
	ListLabResults(ctx context.Context) ([]LabResult, error)
	UpdateLabResult(ctx context.Context, id int64, update LabResultUpdate) (LabResult, error)
	DeleteLabResult(ctx context.Context, id int64) error

	CreateHealthMarker(ctx context.Context, marker NewHealthMarker) (HealthMarker, error)
	ListHealthMarkers(ctx context.Context) ([]HealthMarker, error)
	ListHealthMarkersByLabResult(ctx context.Context, labResultID int64) ([]HealthMarker, error)

	CreateRecommendation(ctx context.Context, rec NewRecommendation) (Recommendation, error)
	ListRecommendations(ctx context.Context) ([]Recommendation, error)
	ListRecommendationsByLabResult(ctx context.Context, labResultID int64) ([]Recommendation, error)
}

// MedicationStore persists medication records.
type MedicationStore interface {
	CreateMedication(ctx context.Context, med NewMedication) (Medication, error)
	ListMedications(ctx context.Context) ([]Medication, error)
	UpdateMedication(ctx context.Context, id int64, update MedicationUpdate) (Medication, error)
	DeleteMedication(ctx context.Context, id int64) error
}

// SupplementStore persists supplement records.
type SupplementStore interface {
	CreateSupplement(ctx context.Context, supp NewSupplement) (Supplement, error)
	ListSupplements(ctx context.Context) ([]Supplement, error)
	UpdateSupplement(ctx context.Context, id int64, update SupplementUpdate) (Supplement, error)
	DeleteSupplement(ctx context.Context, id int64) error
}

// ReminderStore persists reminder records.
type ReminderStore interface {
	CreateReminder(ctx context.Context, reminder NewReminder) (Reminder, error)
	ListReminders(ctx context.Context) ([]Reminder, error)
	UpdateReminder(ctx context.Context, id int64, update ReminderUpdate) (Reminder, error)
	DeleteReminder(ctx context.Context, id int64) error
}

// InteractionStore persists interaction-check findings. ReplaceInteractions
// swaps the entire stored set in a single transaction so readers never
// observe a half-replaced state.
type InteractionStore interface {
	ListInteractions(ctx context.Context) ([]Interaction, error)
	ReplaceInteractions(ctx context.Context, findings []NewInteraction) ([]Interaction, error)
}

// PillStore persists pill stacks and scheduled doses.
type PillStore interface {
	CreatePillStack(ctx context.Context, stack NewPillStack) (PillStack, error)
	ListPillStacks(ctx context.Context) ([]PillStack, error)
	UpdatePillStack(ctx context.Context, id int64, update PillStackUpdate) (PillStack, error)
	DeletePillStack(ctx context.Context, id int64) error

	CreatePillDose(ctx context.Context, dose NewPillDose) (PillDose, error)
	ListPillDoses(ctx context.Context) ([]PillDose, error)
	ListPillDosesByDate(ctx context.Context, date string) ([]PillDose, error)
	UpdatePillDose(ctx context.Context, id int64, update PillDoseUpdate) (PillDose, error)
}

// Store aggregates every persistence contract the service depends on.
type Store interface {
	UserStore
	LabResultStore
	MedicationStore
	SupplementStore
	ReminderStore
	InteractionStore
	PillStore
}
