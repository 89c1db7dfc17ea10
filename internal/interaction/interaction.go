// Package interaction coordinates medication-supplement conflict checks.
package interaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/vitalog/internal/ai"
	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/storage"
)

// Service runs interaction checks and maintains the stored findings.
type Service struct {
	medications storage.MedicationStore
	supplements storage.SupplementStore
	store       storage.InteractionStore
	checker     ai.InteractionChecker
}

// NewService creates an interaction-check service.
func NewService(medications storage.MedicationStore, supplements storage.SupplementStore, store storage.InteractionStore, checker ai.InteractionChecker) *Service {
	return &Service{
		medications: medications,
		supplements: supplements,
		store:       store,
		checker:     checker,
	}
}

// Check loads the active regimen, asks the external checker for conflicts,
// and swaps the stored findings for the returned set in one transaction.
// With no active medications or no active supplements the external service
// is skipped and the stored set is simply cleared.
func (s *Service) Check(ctx context.Context) ([]storage.Interaction, error) {
	meds, err := s.medications.ListMedications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	supps, err := s.supplements.ListSupplements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list supplements: %w", err)
	}

	var activeMeds []ai.Pill
	for _, med := range meds {
		if med.Active {
			activeMeds = append(activeMeds, ai.Pill{ID: med.ID, Name: med.Name})
		}
	}
	var activeSupps []ai.Pill
	for _, supp := range supps {
		if supp.Active {
			activeSupps = append(activeSupps, ai.Pill{ID: supp.ID, Name: supp.Name})
		}
	}

	if len(activeMeds) == 0 || len(activeSupps) == 0 {
		return s.store.ReplaceInteractions(ctx, nil)
	}

	findings, err := s.checker.CheckInteractions(ctx, activeMeds, activeSupps)
	if err != nil {
		return nil, fmt.Errorf("check interactions: %w", err)
	}

	medIDs := make(map[int64]bool, len(activeMeds))
	for _, pill := range activeMeds {
		medIDs[pill.ID] = true
	}
	suppIDs := make(map[int64]bool, len(activeSupps))
	for _, pill := range activeSupps {
		suppIDs[pill.ID] = true
	}

	records := make([]storage.NewInteraction, 0, len(findings))
	for _, finding := range findings {
		// The model occasionally hallucinates ids outside the submitted set.
		if !medIDs[finding.MedicationID] || !suppIDs[finding.SupplementID] {
			continue
		}
		severity := strings.ToLower(strings.TrimSpace(finding.Severity))
		switch health.Severity(severity) {
		case health.SeverityMild, health.SeverityModerate, health.SeveritySevere:
		default:
			severity = string(health.SeverityModerate)
		}
		records = append(records, storage.NewInteraction{
			MedicationID:   finding.MedicationID,
			SupplementID:   finding.SupplementID,
			Severity:       severity,
			Description:    finding.Description,
			Recommendation: finding.Recommendation,
		})
	}

	return s.store.ReplaceInteractions(ctx, records)
}
