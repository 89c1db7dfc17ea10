// Package health models the tracked regimen: medications, supplements,
// reminders, pill stacks, and scheduled doses.
//
// Create inputs are validated and canonicalized through Normalize functions;
// handlers surface the resulting field errors as structured 400 responses.
package health

import (
	"fmt"
	"strings"
)

// TimeBlock is a coarse part of day used for scheduling doses.
type TimeBlock string

const (
	TimeBlockMorning   TimeBlock = "morning"
	TimeBlockAfternoon TimeBlock = "afternoon"
	TimeBlockEvening   TimeBlock = "evening"
	TimeBlockNight     TimeBlock = "night"
)

// PillType distinguishes the two dose sources.
type PillType string

const (
	PillTypeMedication PillType = "medication"
	PillTypeSupplement PillType = "supplement"
)

// DoseStatus is the lifecycle state of one scheduled dose.
type DoseStatus string

const (
	DoseStatusPending DoseStatus = "pending"
	DoseStatusTaken   DoseStatus = "taken"
	DoseStatusSnoozed DoseStatus = "snoozed"
	DoseStatusSkipped DoseStatus = "skipped"
)

// ReminderType categorizes a reminder.
type ReminderType string

const (
	ReminderTypeMedication ReminderType = "medication"
	ReminderTypeSupplement ReminderType = "supplement"
	ReminderTypeActivity   ReminderType = "activity"
)

// LabResultStatus is the lifecycle state of an uploaded lab result.
type LabResultStatus string

const (
	LabStatusProcessing LabResultStatus = "processing"
	LabStatusCompleted  LabResultStatus = "completed"
	LabStatusError      LabResultStatus = "error"
)

// MarkerStatus classifies an extracted marker against its normal range.
type MarkerStatus string

const (
	MarkerStatusLow    MarkerStatus = "low"
	MarkerStatusNormal MarkerStatus = "normal"
	MarkerStatusHigh   MarkerStatus = "high"
)

// Severity grades one medication-supplement interaction.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// RecommendationType categorizes an extraction recommendation.
type RecommendationType string

const (
	RecommendationSupplement RecommendationType = "supplement"
	RecommendationDietary    RecommendationType = "dietary"
	RecommendationPhysical   RecommendationType = "physical"
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var weekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field errors for one request body.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

type fieldErrors []FieldError

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

// ValidWeekday reports whether value is a lowercase weekday name.
func ValidWeekday(value string) bool {
	return weekdays[value]
}

// ValidTimeBlock reports whether value names a known time block.
func ValidTimeBlock(value string) bool {
	switch TimeBlock(value) {
	case TimeBlockMorning, TimeBlockAfternoon, TimeBlockEvening, TimeBlockNight:
		return true
	}
	return false
}

// ValidDoseStatus reports whether value names a known dose status.
func ValidDoseStatus(value string) bool {
	switch DoseStatus(value) {
	case DoseStatusPending, DoseStatusTaken, DoseStatusSnoozed, DoseStatusSkipped:
		return true
	}
	return false
}

// ValidReminderTime reports whether value is a 24-hour HH:MM clock time.
func ValidReminderTime(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	hh, mm := value[:2], value[3:]
	for _, part := range []string{hh, mm} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	hour := int(value[0]-'0')*10 + int(value[1]-'0')
	minute := int(value[3]-'0')*10 + int(value[4]-'0')
	return hour < 24 && minute < 60
}

// ValidScheduleDate reports whether value is a YYYY-MM-DD calendar date.
func ValidScheduleDate(value string) bool {
	if len(value) != 10 || value[4] != '-' || value[7] != '-' {
		return false
	}
	for i, r := range value {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	month := int(value[5]-'0')*10 + int(value[6]-'0')
	day := int(value[8]-'0')*10 + int(value[9]-'0')
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// MedicationInput captures user-provided fields for creating a medication.
type MedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	WithFood  bool
	Notes     string
	Active    *bool
}

// NormalizeMedicationInput validates and canonicalizes medication input.
// Active defaults to true when unset.
func NormalizeMedicationInput(input MedicationInput) (MedicationInput, error) {
	var fe fieldErrors

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		fe.add("name", "name is required")
	}
	input.Dosage = strings.TrimSpace(input.Dosage)
	if input.Dosage == "" {
		fe.add("dosage", "dosage is required")
	}
	input.Frequency = strings.TrimSpace(input.Frequency)
	if input.Frequency == "" {
		fe.add("frequency", "frequency is required")
	}
	input.TimeOfDay = strings.ToLower(strings.TrimSpace(input.TimeOfDay))
	if input.TimeOfDay != "" && !ValidTimeBlock(input.TimeOfDay) {
		fe.add("timeOfDay", "must be one of morning, afternoon, evening, night")
	}
	input.Notes = strings.TrimSpace(input.Notes)
	if input.Active == nil {
		active := true
		input.Active = &active
	}

	if err := fe.err(); err != nil {
		return MedicationInput{}, err
	}
	return input, nil
}

// SupplementInput captures user-provided fields for creating a supplement.
type SupplementInput struct {
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	WithFood  bool
	Reason    string
	Source    string
	Active    *bool
}

// NormalizeSupplementInput validates and canonicalizes supplement input.
// Active defaults to true when unset.
func NormalizeSupplementInput(input SupplementInput) (SupplementInput, error) {
	var fe fieldErrors

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		fe.add("name", "name is required")
	}
	input.Dosage = strings.TrimSpace(input.Dosage)
	if input.Dosage == "" {
		fe.add("dosage", "dosage is required")
	}
	input.Frequency = strings.TrimSpace(input.Frequency)
	if input.Frequency == "" {
		fe.add("frequency", "frequency is required")
	}
	input.TimeOfDay = strings.ToLower(strings.TrimSpace(input.TimeOfDay))
	if input.TimeOfDay != "" && !ValidTimeBlock(input.TimeOfDay) {
		fe.add("timeOfDay", "must be one of morning, afternoon, evening, night")
	}
	input.Reason = strings.TrimSpace(input.Reason)
	input.Source = strings.TrimSpace(input.Source)
	if input.Active == nil {
		active := true
		input.Active = &active
	}

	if err := fe.err(); err != nil {
		return SupplementInput{}, err
	}
	return input, nil
}

// ReminderInput captures user-provided fields for creating a reminder.
type ReminderInput struct {
	Title     string
	Time      string
	Days      []string
	Type      string
	RelatedID *int64
	Enabled   *bool
}

// NormalizeReminderInput validates and canonicalizes reminder input.
// Enabled defaults to true when unset.
func NormalizeReminderInput(input ReminderInput) (ReminderInput, error) {
	var fe fieldErrors

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		fe.add("title", "title is required")
	}
	input.Time = strings.TrimSpace(input.Time)
	if !ValidReminderTime(input.Time) {
		fe.add("time", "must be HH:MM in 24-hour time")
	}
	normalizedDays := make([]string, 0, len(input.Days))
	for _, day := range input.Days {
		day = strings.ToLower(strings.TrimSpace(day))
		if !weekdays[day] {
			fe.add("days", fmt.Sprintf("unknown weekday %q", day))
			continue
		}
		normalizedDays = append(normalizedDays, day)
	}
	input.Days = normalizedDays
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	switch ReminderType(input.Type) {
	case ReminderTypeMedication, ReminderTypeSupplement, ReminderTypeActivity:
	default:
		fe.add("type", "must be one of medication, supplement, activity")
	}
	if input.Enabled == nil {
		enabled := true
		input.Enabled = &enabled
	}

	if err := fe.err(); err != nil {
		return ReminderInput{}, err
	}
	return input, nil
}

// PillStackInput captures user-provided fields for creating a pill stack.
type PillStackInput struct {
	Name        string
	Description string
	TimeBlock   string
}

// NormalizePillStackInput validates and canonicalizes pill stack input.
// TimeBlock defaults to morning when unset.
func NormalizePillStackInput(input PillStackInput) (PillStackInput, error) {
	var fe fieldErrors

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		fe.add("name", "name is required")
	}
	input.Description = strings.TrimSpace(input.Description)
	input.TimeBlock = strings.ToLower(strings.TrimSpace(input.TimeBlock))
	if input.TimeBlock == "" {
		input.TimeBlock = string(TimeBlockMorning)
	}
	if !ValidTimeBlock(input.TimeBlock) {
		fe.add("timeBlock", "must be one of morning, afternoon, evening, night")
	}

	if err := fe.err(); err != nil {
		return PillStackInput{}, err
	}
	return input, nil
}

// PillDoseInput captures user-provided fields for creating a dose.
type PillDoseInput struct {
	PillType           string
	PillID             int64
	ScheduledDate      string
	ScheduledTimeBlock string
	Status             string
}

// NormalizePillDoseInput validates and canonicalizes dose input.
// Status defaults to pending when unset.
func NormalizePillDoseInput(input PillDoseInput) (PillDoseInput, error) {
	var fe fieldErrors

	input.PillType = strings.ToLower(strings.TrimSpace(input.PillType))
	switch PillType(input.PillType) {
	case PillTypeMedication, PillTypeSupplement:
	default:
		fe.add("pillType", "must be medication or supplement")
	}
	if input.PillID <= 0 {
		fe.add("pillId", "pillId is required")
	}
	input.ScheduledDate = strings.TrimSpace(input.ScheduledDate)
	if !ValidScheduleDate(input.ScheduledDate) {
		fe.add("scheduledDate", "must be YYYY-MM-DD")
	}
	input.ScheduledTimeBlock = strings.ToLower(strings.TrimSpace(input.ScheduledTimeBlock))
	if !ValidTimeBlock(input.ScheduledTimeBlock) {
		fe.add("scheduledTimeBlock", "must be one of morning, afternoon, evening, night")
	}
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Status == "" {
		input.Status = string(DoseStatusPending)
	}
	if !ValidDoseStatus(input.Status) {
		fe.add("status", "must be one of pending, taken, snoozed, skipped")
	}

	if err := fe.err(); err != nil {
		return PillDoseInput{}, err
	}
	return input, nil
}
