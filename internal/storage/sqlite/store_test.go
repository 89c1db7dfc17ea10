package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/vitalog/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "vitalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestCreateUserUniqueUsername(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := storage.User{
		ID:           "user-1",
		Username:     "casey",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := user
	dup.ID = "user-2"
	if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create err = %v, want ErrAlreadyExists", err)
	}

	got, err := store.GetUserByUsername(ctx, "casey")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("id = %q, want user-1", got.ID)
	}
}

func TestUpdateHealthProfilePartial(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := storage.User{
		ID:           "user-1",
		Username:     "casey",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	age := 41
	sex := "female"
	updated, err := store.UpdateHealthProfile(ctx, "user-1", storage.HealthProfileUpdate{
		Age: &age,
		Sex: &sex,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Age == nil || *updated.Age != 41 || updated.Sex != "female" {
		t.Errorf("profile = %+v", updated)
	}
	if updated.ProfileCompleted {
		t.Error("profileCompleted changed without being set")
	}
	if updated.HeightCm != nil {
		t.Errorf("heightCm = %v, want nil", updated.HeightCm)
	}

	if _, err := store.UpdateHealthProfile(ctx, "missing", storage.HealthProfileUpdate{Age: &age}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestLabResultLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result, err := store.CreateLabResult(ctx, "bloodwork.pdf")
	if err != nil {
		t.Fatalf("create lab result: %v", err)
	}
	if result.Status != "processing" {
		t.Errorf("status = %q, want processing", result.Status)
	}
	if result.RawText != nil {
		t.Errorf("rawText = %v, want nil", result.RawText)
	}

	status := "completed"
	rawText := "Vitamin D: 18 ng/mL"
	updated, err := store.UpdateLabResult(ctx, result.ID, storage.LabResultUpdate{
		Status:  &status,
		RawText: &rawText,
	})
	if err != nil {
		t.Fatalf("update lab result: %v", err)
	}
	if updated.Status != "completed" || updated.RawText == nil || *updated.RawText != rawText {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := store.UpdateLabResult(ctx, 999, storage.LabResultUpdate{Status: &status}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing update err = %v, want ErrNotFound", err)
	}
}

func TestDeleteLabResultCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result, err := store.CreateLabResult(ctx, "panel.pdf")
	if err != nil {
		t.Fatalf("create lab result: %v", err)
	}
	if _, err := store.CreateHealthMarker(ctx, storage.NewHealthMarker{
		LabResultID: result.ID,
		Name:        "Ferritin",
		Value:       12.5,
		Unit:        "ng/mL",
		NormalMin:   20,
		NormalMax:   250,
		Status:      "low",
		Category:    "minerals",
	}); err != nil {
		t.Fatalf("create marker: %v", err)
	}
	if _, err := store.CreateRecommendation(ctx, storage.NewRecommendation{
		LabResultID:   result.ID,
		Type:          "supplement",
		Title:         "Iron supplementation",
		Description:   "Ferritin below range",
		Priority:      "high",
		RelatedMarker: "Ferritin",
		ActionItems:   []string{"take with vitamin C", "retest in 3 months"},
	}); err != nil {
		t.Fatalf("create recommendation: %v", err)
	}

	if err := store.DeleteLabResult(ctx, result.ID); err != nil {
		t.Fatalf("delete lab result: %v", err)
	}

	markers, err := store.ListHealthMarkers(ctx)
	if err != nil {
		t.Fatalf("list markers: %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("markers after cascade = %d, want 0", len(markers))
	}
	recs, err := store.ListRecommendations(ctx)
	if err != nil {
		t.Fatalf("list recommendations: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("recommendations after cascade = %d, want 0", len(recs))
	}

	if err := store.DeleteLabResult(ctx, result.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("repeat delete err = %v, want ErrNotFound", err)
	}
}

func TestRecommendationActionItemsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result, err := store.CreateLabResult(ctx, "panel.pdf")
	if err != nil {
		t.Fatalf("create lab result: %v", err)
	}
	rec, err := store.CreateRecommendation(ctx, storage.NewRecommendation{
		LabResultID: result.ID,
		Type:        "dietary",
		Title:       "More leafy greens",
		Description: "Low folate",
		Priority:    "medium",
	})
	if err != nil {
		t.Fatalf("create recommendation: %v", err)
	}
	if len(rec.ActionItems) != 0 {
		t.Errorf("actionItems = %v, want empty", rec.ActionItems)
	}

	byResult, err := store.ListRecommendationsByLabResult(ctx, result.ID)
	if err != nil {
		t.Fatalf("list by lab result: %v", err)
	}
	if len(byResult) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(byResult))
	}
}

func TestMedicationCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	med, err := store.CreateMedication(ctx, storage.NewMedication{
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: "twice daily",
		TimeOfDay: "morning",
		WithFood:  true,
		Active:    true,
	})
	if err != nil {
		t.Fatalf("create medication: %v", err)
	}

	active := false
	notes := "hold before surgery"
	updated, err := store.UpdateMedication(ctx, med.ID, storage.MedicationUpdate{
		Active: &active,
		Notes:  &notes,
	})
	if err != nil {
		t.Fatalf("update medication: %v", err)
	}
	if updated.Active || updated.Notes != notes {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Name != "Metformin" {
		t.Errorf("name changed to %q", updated.Name)
	}

	if _, err := store.UpdateMedication(ctx, 999, storage.MedicationUpdate{Active: &active}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing update err = %v, want ErrNotFound", err)
	}

	if err := store.DeleteMedication(ctx, med.ID); err != nil {
		t.Fatalf("delete medication: %v", err)
	}
	if err := store.DeleteMedication(ctx, med.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("repeat delete err = %v, want ErrNotFound", err)
	}
}

func TestReminderDaysRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	relatedID := int64(7)
	reminder, err := store.CreateReminder(ctx, storage.NewReminder{
		Title:     "Evening meds",
		Time:      "21:00",
		Days:      []string{"monday", "wednesday", "friday"},
		Type:      "medication",
		RelatedID: &relatedID,
		Enabled:   true,
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	listed, err := store.ListReminders(ctx)
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("reminders = %d, want 1", len(listed))
	}
	got := listed[0]
	if len(got.Days) != 3 || got.Days[1] != "wednesday" {
		t.Errorf("days = %v", got.Days)
	}
	if got.RelatedID == nil || *got.RelatedID != 7 {
		t.Errorf("relatedId = %v, want 7", got.RelatedID)
	}

	days := []string{"sunday"}
	updated, err := store.UpdateReminder(ctx, reminder.ID, storage.ReminderUpdate{Days: &days})
	if err != nil {
		t.Fatalf("update reminder: %v", err)
	}
	if len(updated.Days) != 1 || updated.Days[0] != "sunday" {
		t.Errorf("updated days = %v", updated.Days)
	}
}

func TestReplaceInteractionsIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	med, err := store.CreateMedication(ctx, storage.NewMedication{
		Name: "Warfarin", Dosage: "5mg", Frequency: "daily", Active: true,
	})
	if err != nil {
		t.Fatalf("create medication: %v", err)
	}
	supp, err := store.CreateSupplement(ctx, storage.NewSupplement{
		Name: "Fish Oil", Dosage: "1000mg", Frequency: "daily", Active: true,
	})
	if err != nil {
		t.Fatalf("create supplement: %v", err)
	}

	first, err := store.ReplaceInteractions(ctx, []storage.NewInteraction{
		{MedicationID: med.ID, SupplementID: supp.ID, Severity: "severe", Description: "bleeding risk", Recommendation: "consult physician"},
	})
	if err != nil {
		t.Fatalf("replace interactions: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("interactions = %d, want 1", len(first))
	}

	second, err := store.ReplaceInteractions(ctx, []storage.NewInteraction{
		{MedicationID: med.ID, SupplementID: supp.ID, Severity: "mild", Description: "minor absorption effect", Recommendation: "separate doses"},
	})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if len(second) != 1 || second[0].Severity != "mild" {
		t.Fatalf("second set = %+v", second)
	}

	cleared, err := store.ReplaceInteractions(ctx, nil)
	if err != nil {
		t.Fatalf("clear interactions: %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("cleared = %d, want 0", len(cleared))
	}
	listed, err := store.ListInteractions(ctx)
	if err != nil {
		t.Fatalf("list interactions: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("listed = %d, want 0", len(listed))
	}
}

func TestPillDosesByDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2026-09-01", "2026-09-01", "2026-09-02"} {
		if _, err := store.CreatePillDose(ctx, storage.NewPillDose{
			PillType:           "medication",
			PillID:             1,
			ScheduledDate:      date,
			ScheduledTimeBlock: "morning",
			Status:             "pending",
		}); err != nil {
			t.Fatalf("create dose: %v", err)
		}
	}

	byDate, err := store.ListPillDosesByDate(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(byDate) != 2 {
		t.Fatalf("doses = %d, want 2", len(byDate))
	}

	all, err := store.ListPillDoses(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all doses = %d, want 3", len(all))
	}
}

func TestUpdatePillDoseTimestamps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dose, err := store.CreatePillDose(ctx, storage.NewPillDose{
		PillType:           "supplement",
		PillID:             2,
		ScheduledDate:      "2026-09-01",
		ScheduledTimeBlock: "evening",
		Status:             "pending",
	})
	if err != nil {
		t.Fatalf("create dose: %v", err)
	}
	if dose.TakenAt != nil || dose.SnoozedUntil != nil {
		t.Fatalf("new dose has timestamps: %+v", dose)
	}

	status := "taken"
	takenAt := time.Date(2026, 9, 1, 20, 15, 0, 0, time.UTC)
	updated, err := store.UpdatePillDose(ctx, dose.ID, storage.PillDoseUpdate{
		Status:  &status,
		TakenAt: &takenAt,
	})
	if err != nil {
		t.Fatalf("update dose: %v", err)
	}
	if updated.Status != "taken" {
		t.Errorf("status = %q", updated.Status)
	}
	if updated.TakenAt == nil || !updated.TakenAt.Equal(takenAt) {
		t.Errorf("takenAt = %v, want %v", updated.TakenAt, takenAt)
	}

	if _, err := store.UpdatePillDose(ctx, 999, storage.PillDoseUpdate{Status: &status}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing update err = %v, want ErrNotFound", err)
	}
}

func TestPillStackCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stack, err := store.CreatePillStack(ctx, storage.NewPillStack{
		Name:        "Morning stack",
		Description: "With breakfast",
		TimeBlock:   "morning",
	})
	if err != nil {
		t.Fatalf("create stack: %v", err)
	}

	timeBlock := "night"
	updated, err := store.UpdatePillStack(ctx, stack.ID, storage.PillStackUpdate{TimeBlock: &timeBlock})
	if err != nil {
		t.Fatalf("update stack: %v", err)
	}
	if updated.TimeBlock != "night" || updated.Name != "Morning stack" {
		t.Errorf("updated = %+v", updated)
	}

	if err := store.DeletePillStack(ctx, stack.ID); err != nil {
		t.Fatalf("delete stack: %v", err)
	}
	stacks, err := store.ListPillStacks(ctx)
	if err != nil {
		t.Fatalf("list stacks: %v", err)
	}
	if len(stacks) != 0 {
		t.Errorf("stacks = %d, want 0", len(stacks))
	}
}
