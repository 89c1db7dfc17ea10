package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/schedule"
	"github.com/louisbranch/vitalog/internal/storage"
)

type pillStackRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TimeBlock   string `json:"timeBlock"`
}

func (s *Server) handleListPillStacks(w http.ResponseWriter, r *http.Request) {
	stacks, err := s.store.ListPillStacks(r.Context())
	if err != nil {
		s.writeError(w, r, err, "pill stacks")
		return
	}
	s.writeJSON(w, http.StatusOK, toPillStackViews(stacks))
}

func (s *Server) handleCreatePillStack(w http.ResponseWriter, r *http.Request) {
	var req pillStackRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	input, err := health.NormalizePillStackInput(health.PillStackInput{
		Name:        req.Name,
		Description: req.Description,
		TimeBlock:   req.TimeBlock,
	})
	if err != nil {
		s.writeError(w, r, err, "pill stack")
		return
	}

	stack, err := s.store.CreatePillStack(r.Context(), storage.NewPillStack{
		Name:        input.Name,
		Description: input.Description,
		TimeBlock:   input.TimeBlock,
	})
	if err != nil {
		s.writeError(w, r, err, "pill stack")
		return
	}
	s.writeJSON(w, http.StatusCreated, toPillStackView(stack))
}

type pillStackPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TimeBlock   *string `json:"timeBlock"`
}

func (p pillStackPatch) toUpdate() (storage.PillStackUpdate, error) {
	var fields []health.FieldError
	var update storage.PillStackUpdate

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			fields = append(fields, health.FieldError{Field: "name", Message: "name cannot be empty"})
		} else {
			update.Name = &name
		}
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		update.Description = &description
	}
	if p.TimeBlock != nil {
		timeBlock := strings.ToLower(strings.TrimSpace(*p.TimeBlock))
		if !health.ValidTimeBlock(timeBlock) {
			fields = append(fields, health.FieldError{Field: "timeBlock", Message: "must be one of morning, afternoon, evening, night"})
		} else {
			update.TimeBlock = &timeBlock
		}
	}

	if len(fields) > 0 {
		return storage.PillStackUpdate{}, &health.ValidationError{Fields: fields}
	}
	return update, nil
}

func (s *Server) handleUpdatePillStack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	var patch pillStackPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	update, err := patch.toUpdate()
	if err != nil {
		s.writeError(w, r, err, "pill stack")
		return
	}

	stack, err := s.store.UpdatePillStack(r.Context(), id, update)
	if err != nil {
		s.writeError(w, r, err, "pill stack")
		return
	}
	s.writeJSON(w, http.StatusOK, toPillStackView(stack))
}

func (s *Server) handleDeletePillStack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeletePillStack(r.Context(), id); err != nil {
		s.writeError(w, r, err, "pill stack")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pillDoseRequest struct {
	PillType           string `json:"pillType"`
	PillID             int64  `json:"pillId"`
	ScheduledDate      string `json:"scheduledDate"`
	ScheduledTimeBlock string `json:"scheduledTimeBlock"`
	Status             string `json:"status"`
}

func (s *Server) handleListPillDoses(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	var (
		doses []storage.PillDose
		err   error
	)
	if date != "" {
		doses, err = s.store.ListPillDosesByDate(r.Context(), date)
	} else {
		doses, err = s.store.ListPillDoses(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err, "pill doses")
		return
	}
	s.writeJSON(w, http.StatusOK, toPillDoseViews(doses))
}

func (s *Server) handleCreatePillDose(w http.ResponseWriter, r *http.Request) {
	var req pillDoseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	input, err := health.NormalizePillDoseInput(health.PillDoseInput{
		PillType:           req.PillType,
		PillID:             req.PillID,
		ScheduledDate:      req.ScheduledDate,
		ScheduledTimeBlock: req.ScheduledTimeBlock,
		Status:             req.Status,
	})
	if err != nil {
		s.writeError(w, r, err, "pill dose")
		return
	}

	dose, err := s.store.CreatePillDose(r.Context(), storage.NewPillDose{
		PillType:           input.PillType,
		PillID:             input.PillID,
		ScheduledDate:      input.ScheduledDate,
		ScheduledTimeBlock: input.ScheduledTimeBlock,
		Status:             input.Status,
	})
	if err != nil {
		s.writeError(w, r, err, "pill dose")
		return
	}
	s.writeJSON(w, http.StatusCreated, toPillDoseView(dose))
}

type pillDosePatch struct {
	Status             *string `json:"status"`
	TakenAt            *string `json:"takenAt"`
	SnoozedUntil       *string `json:"snoozedUntil"`
	ScheduledDate      *string `json:"scheduledDate"`
	ScheduledTimeBlock *string `json:"scheduledTimeBlock"`
}

func (p pillDosePatch) toUpdate() (storage.PillDoseUpdate, error) {
	var fields []health.FieldError
	var update storage.PillDoseUpdate

	if p.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*p.Status))
		if !health.ValidDoseStatus(status) {
			fields = append(fields, health.FieldError{Field: "status", Message: "must be one of pending, taken, snoozed, skipped"})
		} else {
			update.Status = &status
		}
	}
	if p.TakenAt != nil {
		takenAt, err := time.Parse(time.RFC3339, *p.TakenAt)
		if err != nil {
			fields = append(fields, health.FieldError{Field: "takenAt", Message: "must be an RFC 3339 timestamp"})
		} else {
			update.TakenAt = &takenAt
		}
	}
	if p.SnoozedUntil != nil {
		snoozedUntil, err := time.Parse(time.RFC3339, *p.SnoozedUntil)
		if err != nil {
			fields = append(fields, health.FieldError{Field: "snoozedUntil", Message: "must be an RFC 3339 timestamp"})
		} else {
			update.SnoozedUntil = &snoozedUntil
		}
	}
	if p.ScheduledDate != nil {
		date := strings.TrimSpace(*p.ScheduledDate)
		if !health.ValidScheduleDate(date) {
			fields = append(fields, health.FieldError{Field: "scheduledDate", Message: "must be YYYY-MM-DD"})
		} else {
			update.ScheduledDate = &date
		}
	}
	if p.ScheduledTimeBlock != nil {
		timeBlock := strings.ToLower(strings.TrimSpace(*p.ScheduledTimeBlock))
		if !health.ValidTimeBlock(timeBlock) {
			fields = append(fields, health.FieldError{Field: "scheduledTimeBlock", Message: "must be one of morning, afternoon, evening, night"})
		} else {
			update.ScheduledTimeBlock = &timeBlock
		}
	}

	if len(fields) > 0 {
		return storage.PillDoseUpdate{}, &health.ValidationError{Fields: fields}
	}
	return update, nil
}

func (s *Server) handleUpdatePillDose(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	var patch pillDosePatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	update, err := patch.toUpdate()
	if err != nil {
		s.writeError(w, r, err, "pill dose")
		return
	}

	dose, err := s.store.UpdatePillDose(r.Context(), id, update)
	if err != nil {
		s.writeError(w, r, err, "pill dose")
		return
	}
	s.writeJSON(w, http.StatusOK, toPillDoseView(dose))
}

type generateDosesRequest struct {
	Date string `json:"date"`
}

// handleGeneratePillDoses fills in pending doses for every active pill on the
// given date, skipping slots that already have one, and returns the full day.
func (s *Server) handleGeneratePillDoses(w http.ResponseWriter, r *http.Request) {
	var req generateDosesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	req.Date = strings.TrimSpace(req.Date)
	if req.Date == "" {
		s.writeBadRequest(w, "date is required")
		return
	}
	if !health.ValidScheduleDate(req.Date) {
		s.writeBadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	existing, err := s.store.ListPillDosesByDate(r.Context(), req.Date)
	if err != nil {
		s.writeError(w, r, err, "pill doses")
		return
	}
	medications, err := s.store.ListMedications(r.Context())
	if err != nil {
		s.writeError(w, r, err, "pill doses")
		return
	}
	supplements, err := s.store.ListSupplements(r.Context())
	if err != nil {
		s.writeError(w, r, err, "pill doses")
		return
	}

	for _, dose := range schedule.MissingDoses(req.Date, medications, supplements, existing) {
		if _, err := s.store.CreatePillDose(r.Context(), dose); err != nil {
			s.writeError(w, r, err, "pill doses")
			return
		}
	}

	doses, err := s.store.ListPillDosesByDate(r.Context(), req.Date)
	if err != nil {
		s.writeError(w, r, err, "pill doses")
		return
	}
	s.writeJSON(w, http.StatusOK, toPillDoseViews(doses))
}
