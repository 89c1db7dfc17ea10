// Package schedule derives daily pill-taking schedules from the active
// regimen.
package schedule

import (
	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/storage"
)

// doseKey dedupes generated doses per date.
type doseKey struct {
	pillType  string
	pillID    int64
	timeBlock string
}

// MissingDoses computes the pending doses to create for one date: one per
// active medication and supplement in its scheduled time block (defaulting
// to morning), skipping combinations already present among existing.
// Inactive entries never produce doses.
func MissingDoses(date string, medications []storage.Medication, supplements []storage.Supplement, existing []storage.PillDose) []storage.NewPillDose {
	seen := make(map[doseKey]bool, len(existing))
	for _, dose := range existing {
		seen[doseKey{dose.PillType, dose.PillID, dose.ScheduledTimeBlock}] = true
	}

	var doses []storage.NewPillDose
	for _, med := range medications {
		if !med.Active {
			continue
		}
		doses = appendMissing(doses, seen, date, string(health.PillTypeMedication), med.ID, med.TimeOfDay)
	}
	for _, supp := range supplements {
		if !supp.Active {
			continue
		}
		doses = appendMissing(doses, seen, date, string(health.PillTypeSupplement), supp.ID, supp.TimeOfDay)
	}
	return doses
}

func appendMissing(doses []storage.NewPillDose, seen map[doseKey]bool, date, pillType string, pillID int64, timeBlock string) []storage.NewPillDose {
	if timeBlock == "" {
		timeBlock = string(health.TimeBlockMorning)
	}
	key := doseKey{pillType, pillID, timeBlock}
	if seen[key] {
		return doses
	}
	seen[key] = true
	return append(doses, storage.NewPillDose{
		PillType:           pillType,
		PillID:             pillID,
		ScheduledDate:      date,
		ScheduledTimeBlock: timeBlock,
		Status:             string(health.DoseStatusPending),
	})
}
