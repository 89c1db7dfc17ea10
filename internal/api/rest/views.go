package rest

import (
	"time"

	"github.com/louisbranch/vitalog/internal/storage"
)

// View structs shape storage records into the JSON the client consumes.
// Field names mirror the client's camelCase contract.

type userView struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Age              *int      `json:"age"`
	Sex              string    `json:"sex,omitempty"`
	HeightCm         *float64  `json:"heightCm"`
	WeightKg         *float64  `json:"weightKg"`
	ActivityLevel    string    `json:"activityLevel,omitempty"`
	ProfileCompleted bool      `json:"profileCompleted"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toUserView(user storage.User) userView {
	return userView{
		ID:               user.ID,
		Username:         user.Username,
		Age:              user.Age,
		Sex:              user.Sex,
		HeightCm:         user.HeightCm,
		WeightKg:         user.WeightKg,
		ActivityLevel:    user.ActivityLevel,
		ProfileCompleted: user.ProfileCompleted,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

type labResultView struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"fileName"`
	UploadDate time.Time `json:"uploadDate"`
	RawText    *string   `json:"rawText"`
	Status     string    `json:"status"`
}

func toLabResultView(result storage.LabResult) labResultView {
	return labResultView{
		ID:         result.ID,
		FileName:   result.FileName,
		UploadDate: result.UploadDate,
		RawText:    result.RawText,
		Status:     result.Status,
	}
}

func toLabResultViews(results []storage.LabResult) []labResultView {
	views := make([]labResultView, len(results))
	for i, result := range results {
		views[i] = toLabResultView(result)
	}
	return views
}

type healthMarkerView struct {
	ID          int64   `json:"id"`
	LabResultID int64   `json:"labResultId"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	NormalMin   float64 `json:"normalMin"`
	NormalMax   float64 `json:"normalMax"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
}

func toHealthMarkerViews(markers []storage.HealthMarker) []healthMarkerView {
	views := make([]healthMarkerView, len(markers))
	for i, marker := range markers {
		views[i] = healthMarkerView{
			ID:          marker.ID,
			LabResultID: marker.LabResultID,
			Name:        marker.Name,
			Value:       marker.Value,
			Unit:        marker.Unit,
			NormalMin:   marker.NormalMin,
			NormalMax:   marker.NormalMax,
			Status:      marker.Status,
			Category:    marker.Category,
		}
	}
	return views
}

type medicationView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	TimeOfDay string    `json:"timeOfDay"`
	WithFood  bool      `json:"withFood"`
	Notes     string    `json:"notes"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMedicationView(med storage.Medication) medicationView {
	return medicationView{
		ID:        med.ID,
		Name:      med.Name,
		Dosage:    med.Dosage,
		Frequency: med.Frequency,
		TimeOfDay: med.TimeOfDay,
		WithFood:  med.WithFood,
		Notes:     med.Notes,
		Active:    med.Active,
		CreatedAt: med.CreatedAt,
	}
}

func toMedicationViews(meds []storage.Medication) []medicationView {
	views := make([]medicationView, len(meds))
	for i, med := range meds {
		views[i] = toMedicationView(med)
	}
	return views
}

type supplementView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	TimeOfDay string    `json:"timeOfDay"`
	WithFood  bool      `json:"withFood"`
	Reason    string    `json:"reason"`
	Source    string    `json:"source"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func toSupplementView(supp storage.Supplement) supplementView {
	return supplementView{
		ID:        supp.ID,
		Name:      supp.Name,
		Dosage:    supp.Dosage,
		Frequency: supp.Frequency,
		TimeOfDay: supp.TimeOfDay,
		WithFood:  supp.WithFood,
		Reason:    supp.Reason,
		Source:    supp.Source,
		Active:    supp.Active,
		CreatedAt: supp.CreatedAt,
	}
}

func toSupplementViews(supps []storage.Supplement) []supplementView {
	views := make([]supplementView, len(supps))
	for i, supp := range supps {
		views[i] = toSupplementView(supp)
	}
	return views
}

type recommendationView struct {
	ID            int64     `json:"id"`
	LabResultID   int64     `json:"labResultId"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Priority      string    `json:"priority"`
	RelatedMarker string    `json:"relatedMarker"`
	ActionItems   []string  `json:"actionItems"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toRecommendationViews(recs []storage.Recommendation) []recommendationView {
	views := make([]recommendationView, len(recs))
	for i, rec := range recs {
		items := rec.ActionItems
		if items == nil {
			items = []string{}
		}
		views[i] = recommendationView{
			ID:            rec.ID,
			LabResultID:   rec.LabResultID,
			Type:          rec.Type,
			Title:         rec.Title,
			Description:   rec.Description,
			Priority:      rec.Priority,
			RelatedMarker: rec.RelatedMarker,
			ActionItems:   items,
			CreatedAt:     rec.CreatedAt,
		}
	}
	return views
}

type reminderView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Time      string    `json:"time"`
	Days      []string  `json:"days"`
	Type      string    `json:"type"`
	RelatedID *int64    `json:"relatedId"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReminderView(reminder storage.Reminder) reminderView {
	days := reminder.Days
	if days == nil {
		days = []string{}
	}
	return reminderView{
		ID:        reminder.ID,
		Title:     reminder.Title,
		Time:      reminder.Time,
		Days:      days,
		Type:      reminder.Type,
		RelatedID: reminder.RelatedID,
		Enabled:   reminder.Enabled,
		CreatedAt: reminder.CreatedAt,
	}
}

func toReminderViews(reminders []storage.Reminder) []reminderView {
	views := make([]reminderView, len(reminders))
	for i, reminder := range reminders {
		views[i] = toReminderView(reminder)
	}
	return views
}

type interactionView struct {
	ID             int64     `json:"id"`
	MedicationID   int64     `json:"medicationId"`
	SupplementID   int64     `json:"supplementId"`
	Severity       string    `json:"severity"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toInteractionViews(interactions []storage.Interaction) []interactionView {
	views := make([]interactionView, len(interactions))
	for i, interaction := range interactions {
		views[i] = interactionView{
			ID:             interaction.ID,
			MedicationID:   interaction.MedicationID,
			SupplementID:   interaction.SupplementID,
			Severity:       interaction.Severity,
			Description:    interaction.Description,
			Recommendation: interaction.Recommendation,
			CreatedAt:      interaction.CreatedAt,
		}
	}
	return views
}

type pillStackView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TimeBlock   string    `json:"timeBlock"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toPillStackView(stack storage.PillStack) pillStackView {
	return pillStackView{
		ID:          stack.ID,
		Name:        stack.Name,
		Description: stack.Description,
		TimeBlock:   stack.TimeBlock,
		CreatedAt:   stack.CreatedAt,
	}
}

func toPillStackViews(stacks []storage.PillStack) []pillStackView {
	views := make([]pillStackView, len(stacks))
	for i, stack := range stacks {
		views[i] = toPillStackView(stack)
	}
	return views
}

type pillDoseView struct {
	ID                 int64      `json:"id"`
	PillType           string     `json:"pillType"`
	PillID             int64      `json:"pillId"`
	ScheduledDate      string     `json:"scheduledDate"`
	ScheduledTimeBlock string     `json:"scheduledTimeBlock"`
	Status             string     `json:"status"`
	TakenAt            *time.Time `json:"takenAt"`
	SnoozedUntil       *time.Time `json:"snoozedUntil"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func toPillDoseView(dose storage.PillDose) pillDoseView {
	return pillDoseView{
		ID:                 dose.ID,
		PillType:           dose.PillType,
		PillID:             dose.PillID,
		ScheduledDate:      dose.ScheduledDate,
		ScheduledTimeBlock: dose.ScheduledTimeBlock,
		Status:             dose.Status,
		TakenAt:            dose.TakenAt,
		SnoozedUntil:       dose.SnoozedUntil,
		CreatedAt:          dose.CreatedAt,
	}
}

func toPillDoseViews(doses []storage.PillDose) []pillDoseView {
	views := make([]pillDoseView, len(doses))
	for i, dose := range doses {
		views[i] = toPillDoseView(dose)
	}
	return views
}
