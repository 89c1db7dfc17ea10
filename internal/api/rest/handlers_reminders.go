package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/storage"
)

type reminderRequest struct {
	Title     string   `json:"title"`
	Time      string   `json:"time"`
	Days      []string `json:"days"`
	Type      string   `json:"type"`
	RelatedID *int64   `json:"relatedId"`
	Enabled   *bool    `json:"enabled"`
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.store.ListReminders(r.Context())
	if err != nil {
		s.writeError(w, r, err, "reminders")
		return
	}
	s.writeJSON(w, http.StatusOK, toReminderViews(reminders))
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	input, err := health.NormalizeReminderInput(health.ReminderInput{
		Title:     req.Title,
		Time:      req.Time,
		Days:      req.Days,
		Type:      req.Type,
		RelatedID: req.RelatedID,
		Enabled:   req.Enabled,
	})
	if err != nil {
		s.writeError(w, r, err, "reminder")
		return
	}

	reminder, err := s.store.CreateReminder(r.Context(), storage.NewReminder{
		Title:     input.Title,
		Time:      input.Time,
		Days:      input.Days,
		Type:      input.Type,
		RelatedID: input.RelatedID,
		Enabled:   *input.Enabled,
	})
	if err != nil {
		s.writeError(w, r, err, "reminder")
		return
	}
	s.writeJSON(w, http.StatusCreated, toReminderView(reminder))
}

type reminderPatch struct {
	Title     *string   `json:"title"`
	Time      *string   `json:"time"`
	Days      *[]string `json:"days"`
	Type      *string   `json:"type"`
	RelatedID *int64    `json:"relatedId"`
	Enabled   *bool     `json:"enabled"`
}

func (p reminderPatch) toUpdate() (storage.ReminderUpdate, error) {
	var fields []health.FieldError
	var update storage.ReminderUpdate

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			fields = append(fields, health.FieldError{Field: "title", Message: "title cannot be empty"})
		} else {
			update.Title = &title
		}
	}
	if p.Time != nil {
		clock := strings.TrimSpace(*p.Time)
		if !health.ValidReminderTime(clock) {
			fields = append(fields, health.FieldError{Field: "time", Message: "must be HH:MM in 24-hour time"})
		} else {
			update.Time = &clock
		}
	}
	if p.Days != nil {
		days := make([]string, 0, len(*p.Days))
		for _, day := range *p.Days {
			day = strings.ToLower(strings.TrimSpace(day))
			if !health.ValidWeekday(day) {
				fields = append(fields, health.FieldError{Field: "days", Message: fmt.Sprintf("unknown weekday %q", day)})
				continue
			}
			days = append(days, day)
		}
		update.Days = &days
	}
	if p.Type != nil {
		kind := strings.ToLower(strings.TrimSpace(*p.Type))
		switch health.ReminderType(kind) {
		case health.ReminderTypeMedication, health.ReminderTypeSupplement, health.ReminderTypeActivity:
			update.Type = &kind
		default:
			fields = append(fields, health.FieldError{Field: "type", Message: "must be one of medication, supplement, activity"})
		}
	}
	update.RelatedID = p.RelatedID
	update.Enabled = p.Enabled

	if len(fields) > 0 {
		return storage.ReminderUpdate{}, &health.ValidationError{Fields: fields}
	}
	return update, nil
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	var patch reminderPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	update, err := patch.toUpdate()
	if err != nil {
		s.writeError(w, r, err, "reminder")
		return
	}

	reminder, err := s.store.UpdateReminder(r.Context(), id, update)
	if err != nil {
		s.writeError(w, r, err, "reminder")
		return
	}
	s.writeJSON(w, http.StatusOK, toReminderView(reminder))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteReminder(r.Context(), id); err != nil {
		s.writeError(w, r, err, "reminder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
