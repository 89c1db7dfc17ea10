package health

import (
	"errors"
	"testing"
)

func TestNormalizeMedicationInputDefaultsActive(t *testing.T) {
	input, err := NormalizeMedicationInput(MedicationInput{
		Name:      "  Metformin ",
		Dosage:    "500mg",
		Frequency: "twice daily",
	})
	if err != nil {
		t.Fatalf("normalize medication: %v", err)
	}
	if input.Name != "Metformin" {
		t.Fatalf("name = %q, want trimmed", input.Name)
	}
	if input.Active == nil || !*input.Active {
		t.Fatal("expected active to default to true")
	}
}

func TestNormalizeMedicationInputCollectsFieldErrors(t *testing.T) {
	_, err := NormalizeMedicationInput(MedicationInput{TimeOfDay: "dawn"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	fields := make(map[string]bool)
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "dosage", "frequency", "timeOfDay"} {
		if !fields[want] {
			t.Fatalf("missing field error for %q in %v", want, verr.Fields)
		}
	}
}

func TestNormalizeSupplementInputDefaultsActive(t *testing.T) {
	input, err := NormalizeSupplementInput(SupplementInput{
		Name:      "Vitamin D3",
		Dosage:    "2000 IU",
		Frequency: "daily",
		TimeOfDay: "Morning",
	})
	if err != nil {
		t.Fatalf("normalize supplement: %v", err)
	}
	if input.TimeOfDay != "morning" {
		t.Fatalf("timeOfDay = %q, want lowercased", input.TimeOfDay)
	}
	if input.Active == nil || !*input.Active {
		t.Fatal("expected active to default to true")
	}
}

func TestNormalizeReminderInput(t *testing.T) {
	input, err := NormalizeReminderInput(ReminderInput{
		Title: "Take meds",
		Time:  "08:30",
		Days:  []string{"Monday", "friday"},
		Type:  "medication",
	})
	if err != nil {
		t.Fatalf("normalize reminder: %v", err)
	}
	if len(input.Days) != 2 || input.Days[0] != "monday" || input.Days[1] != "friday" {
		t.Fatalf("days = %v, want lowercased weekdays", input.Days)
	}
	if input.Enabled == nil || !*input.Enabled {
		t.Fatal("expected enabled to default to true")
	}
}

func TestNormalizeReminderInputRejectsBadTimeAndDay(t *testing.T) {
	_, err := NormalizeReminderInput(ReminderInput{
		Title: "x",
		Time:  "25:00",
		Days:  []string{"funday"},
		Type:  "activity",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	fields := make(map[string]bool)
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	if !fields["time"] || !fields["days"] {
		t.Fatalf("expected time and days errors, got %v", verr.Fields)
	}
}

func TestNormalizePillStackInputDefaultsTimeBlock(t *testing.T) {
	input, err := NormalizePillStackInput(PillStackInput{Name: "AM stack"})
	if err != nil {
		t.Fatalf("normalize pill stack: %v", err)
	}
	if input.TimeBlock != "morning" {
		t.Fatalf("timeBlock = %q, want morning", input.TimeBlock)
	}
}

func TestNormalizePillDoseInput(t *testing.T) {
	input, err := NormalizePillDoseInput(PillDoseInput{
		PillType:           "medication",
		PillID:             3,
		ScheduledDate:      "2026-09-01",
		ScheduledTimeBlock: "evening",
	})
	if err != nil {
		t.Fatalf("normalize pill dose: %v", err)
	}
	if input.Status != "pending" {
		t.Fatalf("status = %q, want pending default", input.Status)
	}
}

func TestNormalizePillDoseInputRejectsBadValues(t *testing.T) {
	_, err := NormalizePillDoseInput(PillDoseInput{
		PillType:           "vitamin",
		ScheduledDate:      "09/01/2026",
		ScheduledTimeBlock: "noon",
		Status:             "lost",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Fields) != 5 {
		t.Fatalf("expected 5 field errors, got %d: %v", len(verr.Fields), verr.Fields)
	}
}

func TestValidReminderTime(t *testing.T) {
	valid := []string{"00:00", "08:30", "23:59"}
	invalid := []string{"", "8:30", "24:00", "12:60", "ab:cd", "12-30"}
	for _, v := range valid {
		if !ValidReminderTime(v) {
			t.Errorf("ValidReminderTime(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if ValidReminderTime(v) {
			t.Errorf("ValidReminderTime(%q) = true, want false", v)
		}
	}
}

func TestValidScheduleDate(t *testing.T) {
	valid := []string{"2026-01-01", "2026-12-31"}
	invalid := []string{"", "2026-13-01", "2026-00-10", "2026-01-32", "01-01-2026", "2026/01/01"}
	for _, v := range valid {
		if !ValidScheduleDate(v) {
			t.Errorf("ValidScheduleDate(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if ValidScheduleDate(v) {
			t.Errorf("ValidScheduleDate(%q) = true, want false", v)
		}
	}
}
