package interaction

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/vitalog/internal/ai"
	"github.com/louisbranch/vitalog/internal/storage"
)

type fakeRegimen struct {
	storage.MedicationStore
	storage.SupplementStore
	medications []storage.Medication
	supplements []storage.Supplement
}

func (f *fakeRegimen) ListMedications(ctx context.Context) ([]storage.Medication, error) {
	return f.medications, nil
}

func (f *fakeRegimen) ListSupplements(ctx context.Context) ([]storage.Supplement, error) {
	return f.supplements, nil
}

type fakeInteractionStore struct {
	storage.InteractionStore
	replaced [][]storage.NewInteraction
}

func (f *fakeInteractionStore) ReplaceInteractions(ctx context.Context, findings []storage.NewInteraction) ([]storage.Interaction, error) {
	f.replaced = append(f.replaced, findings)
	out := make([]storage.Interaction, len(findings))
	for i, finding := range findings {
		out[i] = storage.Interaction{
			ID:             int64(i + 1),
			MedicationID:   finding.MedicationID,
			SupplementID:   finding.SupplementID,
			Severity:       finding.Severity,
			Description:    finding.Description,
			Recommendation: finding.Recommendation,
		}
	}
	return out, nil
}

type fakeChecker struct {
	findings []ai.Finding
	err      error
	calls    int
}

func (f *fakeChecker) CheckInteractions(ctx context.Context, medications, supplements []ai.Pill) ([]ai.Finding, error) {
	f.calls++
	return f.findings, f.err
}

func TestCheckReplacesFindings(t *testing.T) {
	regimen := &fakeRegimen{
		medications: []storage.Medication{
			{ID: 1, Name: "Warfarin", Active: true},
			{ID: 2, Name: "Old Med", Active: false},
		},
		supplements: []storage.Supplement{
			{ID: 3, Name: "Fish Oil", Active: true},
		},
	}
	store := &fakeInteractionStore{}
	checker := &fakeChecker{findings: []ai.Finding{
		{MedicationID: 1, SupplementID: 3, Severity: "Severe", Description: "bleeding risk", Recommendation: "consult physician"},
	}}

	svc := NewService(regimen, regimen, store, checker)
	got, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if checker.calls != 1 {
		t.Fatalf("checker calls = %d, want 1", checker.calls)
	}
	if len(got) != 1 {
		t.Fatalf("got %d interactions, want 1", len(got))
	}
	if got[0].Severity != "severe" {
		t.Errorf("severity = %q, want %q", got[0].Severity, "severe")
	}
	if got[0].MedicationID != 1 || got[0].SupplementID != 3 {
		t.Errorf("ids = (%d, %d), want (1, 3)", got[0].MedicationID, got[0].SupplementID)
	}
}

func TestCheckSkipsCheckerWithoutActivePair(t *testing.T) {
	cases := []struct {
		name        string
		medications []storage.Medication
		supplements []storage.Supplement
	}{
		{
			name:        "no active medications",
			medications: []storage.Medication{{ID: 1, Name: "Old Med", Active: false}},
			supplements: []storage.Supplement{{ID: 2, Name: "Fish Oil", Active: true}},
		},
		{
			name:        "no supplements",
			medications: []storage.Medication{{ID: 1, Name: "Warfarin", Active: true}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			regimen := &fakeRegimen{medications: tc.medications, supplements: tc.supplements}
			store := &fakeInteractionStore{}
			checker := &fakeChecker{}

			svc := NewService(regimen, regimen, store, checker)
			got, err := svc.Check(context.Background())
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if checker.calls != 0 {
				t.Fatalf("checker calls = %d, want 0", checker.calls)
			}
			if len(got) != 0 {
				t.Fatalf("got %d interactions, want 0", len(got))
			}
			if len(store.replaced) != 1 || len(store.replaced[0]) != 0 {
				t.Fatalf("stored findings not cleared: %v", store.replaced)
			}
		})
	}
}

func TestCheckDropsUnknownIDs(t *testing.T) {
	regimen := &fakeRegimen{
		medications: []storage.Medication{{ID: 1, Name: "Warfarin", Active: true}},
		supplements: []storage.Supplement{{ID: 3, Name: "Fish Oil", Active: true}},
	}
	store := &fakeInteractionStore{}
	checker := &fakeChecker{findings: []ai.Finding{
		{MedicationID: 99, SupplementID: 3, Severity: "mild"},
		{MedicationID: 1, SupplementID: 3, Severity: "not-a-grade"},
	}}

	svc := NewService(regimen, regimen, store, checker)
	got, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d interactions, want 1", len(got))
	}
	if got[0].Severity != "moderate" {
		t.Errorf("unknown severity mapped to %q, want %q", got[0].Severity, "moderate")
	}
}

func TestCheckCheckerError(t *testing.T) {
	regimen := &fakeRegimen{
		medications: []storage.Medication{{ID: 1, Name: "Warfarin", Active: true}},
		supplements: []storage.Supplement{{ID: 3, Name: "Fish Oil", Active: true}},
	}
	store := &fakeInteractionStore{}
	checker := &fakeChecker{err: errors.New("upstream unavailable")}

	svc := NewService(regimen, regimen, store, checker)
	if _, err := svc.Check(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(store.replaced) != 0 {
		t.Fatalf("findings replaced despite checker failure: %v", store.replaced)
	}
}
