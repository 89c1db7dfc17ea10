package rest

import (
	"net/http"
	"strings"

	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/storage"
)

type medicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	TimeOfDay string `json:"timeOfDay"`
	WithFood  bool   `json:"withFood"`
	Notes     string `json:"notes"`
	Active    *bool  `json:"active"`
}

func (s *Server) handleListMedications(w http.ResponseWriter, r *http.Request) {
	meds, err := s.store.ListMedications(r.Context())
	if err != nil {
		s.writeError(w, r, err, "medications")
		return
	}
	s.writeJSON(w, http.StatusOK, toMedicationViews(meds))
}

func (s *Server) handleCreateMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	input, err := health.NormalizeMedicationInput(health.MedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		TimeOfDay: req.TimeOfDay,
		WithFood:  req.WithFood,
		Notes:     req.Notes,
		Active:    req.Active,
	})
	if err != nil {
		s.writeError(w, r, err, "medication")
		return
	}

	med, err := s.store.CreateMedication(r.Context(), storage.NewMedication{
		Name:      input.Name,
		Dosage:    input.Dosage,
		Frequency: input.Frequency,
		TimeOfDay: input.TimeOfDay,
		WithFood:  input.WithFood,
		Notes:     input.Notes,
		Active:    *input.Active,
	})
	if err != nil {
		s.writeError(w, r, err, "medication")
		return
	}
	s.writeJSON(w, http.StatusCreated, toMedicationView(med))
}

type medicationPatch struct {
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	TimeOfDay *string `json:"timeOfDay"`
	WithFood  *bool   `json:"withFood"`
	Notes     *string `json:"notes"`
	Active    *bool   `json:"active"`
}

func (p medicationPatch) toUpdate() (storage.MedicationUpdate, error) {
	var fields []health.FieldError
	var update storage.MedicationUpdate

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			fields = append(fields, health.FieldError{Field: "name", Message: "name cannot be empty"})
		} else {
			update.Name = &name
		}
	}
	if p.Dosage != nil {
		dosage := strings.TrimSpace(*p.Dosage)
		if dosage == "" {
			fields = append(fields, health.FieldError{Field: "dosage", Message: "dosage cannot be empty"})
		} else {
			update.Dosage = &dosage
		}
	}
	if p.Frequency != nil {
		frequency := strings.TrimSpace(*p.Frequency)
		if frequency == "" {
			fields = append(fields, health.FieldError{Field: "frequency", Message: "frequency cannot be empty"})
		} else {
			update.Frequency = &frequency
		}
	}
	if p.TimeOfDay != nil {
		timeOfDay := strings.ToLower(strings.TrimSpace(*p.TimeOfDay))
		if timeOfDay != "" && !health.ValidTimeBlock(timeOfDay) {
			fields = append(fields, health.FieldError{Field: "timeOfDay", Message: "must be one of morning, afternoon, evening, night"})
		} else {
			update.TimeOfDay = &timeOfDay
		}
	}
	update.WithFood = p.WithFood
	if p.Notes != nil {
		notes := strings.TrimSpace(*p.Notes)
		update.Notes = &notes
	}
	update.Active = p.Active

	if len(fields) > 0 {
		return storage.MedicationUpdate{}, &health.ValidationError{Fields: fields}
	}
	return update, nil
}

func (s *Server) handleUpdateMedication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	var patch medicationPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	update, err := patch.toUpdate()
	if err != nil {
		s.writeError(w, r, err, "medication")
		return
	}

	med, err := s.store.UpdateMedication(r.Context(), id, update)
	if err != nil {
		s.writeError(w, r, err, "medication")
		return
	}
	s.writeJSON(w, http.StatusOK, toMedicationView(med))
}

func (s *Server) handleDeleteMedication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteMedication(r.Context(), id); err != nil {
		s.writeError(w, r, err, "medication")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type supplementRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	TimeOfDay string `json:"timeOfDay"`
	WithFood  bool   `json:"withFood"`
	Reason    string `json:"reason"`
	Source    string `json:"source"`
	Active    *bool  `json:"active"`
}

func (s *Server) handleListSupplements(w http.ResponseWriter, r *http.Request) {
	supps, err := s.store.ListSupplements(r.Context())
	if err != nil {
		s.writeError(w, r, err, "supplements")
		return
	}
	s.writeJSON(w, http.StatusOK, toSupplementViews(supps))
}

func (s *Server) handleCreateSupplement(w http.ResponseWriter, r *http.Request) {
	var req supplementRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	input, err := health.NormalizeSupplementInput(health.SupplementInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		TimeOfDay: req.TimeOfDay,
		WithFood:  req.WithFood,
		Reason:    req.Reason,
		Source:    req.Source,
		Active:    req.Active,
	})
	if err != nil {
		s.writeError(w, r, err, "supplement")
		return
	}

	supp, err := s.store.CreateSupplement(r.Context(), storage.NewSupplement{
		Name:      input.Name,
		Dosage:    input.Dosage,
		Frequency: input.Frequency,
		TimeOfDay: input.TimeOfDay,
		WithFood:  input.WithFood,
		Reason:    input.Reason,
		Source:    input.Source,
		Active:    *input.Active,
	})
	if err != nil {
		s.writeError(w, r, err, "supplement")
		return
	}
	s.writeJSON(w, http.StatusCreated, toSupplementView(supp))
}

type supplementPatch struct {
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	TimeOfDay *string `json:"timeOfDay"`
	WithFood  *bool   `json:"withFood"`
	Reason    *string `json:"reason"`
	Source    *string `json:"source"`
	Active    *bool   `json:"active"`
}

func (p supplementPatch) toUpdate() (storage.SupplementUpdate, error) {
	var fields []health.FieldError
	var update storage.SupplementUpdate

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			fields = append(fields, health.FieldError{Field: "name", Message: "name cannot be empty"})
		} else {
			update.Name = &name
		}
	}
	if p.Dosage != nil {
		dosage := strings.TrimSpace(*p.Dosage)
		if dosage == "" {
			fields = append(fields, health.FieldError{Field: "dosage", Message: "dosage cannot be empty"})
		} else {
			update.Dosage = &dosage
		}
	}
	if p.Frequency != nil {
		frequency := strings.TrimSpace(*p.Frequency)
		if frequency == "" {
			fields = append(fields, health.FieldError{Field: "frequency", Message: "frequency cannot be empty"})
		} else {
			update.Frequency = &frequency
		}
	}
	if p.TimeOfDay != nil {
		timeOfDay := strings.ToLower(strings.TrimSpace(*p.TimeOfDay))
		if timeOfDay != "" && !health.ValidTimeBlock(timeOfDay) {
			fields = append(fields, health.FieldError{Field: "timeOfDay", Message: "must be one of morning, afternoon, evening, night"})
		} else {
			update.TimeOfDay = &timeOfDay
		}
	}
	update.WithFood = p.WithFood
	if p.Reason != nil {
		reason := strings.TrimSpace(*p.Reason)
		update.Reason = &reason
	}
	if p.Source != nil {
		source := strings.TrimSpace(*p.Source)
		update.Source = &source
	}
	update.Active = p.Active

	if len(fields) > 0 {
		return storage.SupplementUpdate{}, &health.ValidationError{Fields: fields}
	}
	return update, nil
}

func (s *Server) handleUpdateSupplement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	var patch supplementPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	update, err := patch.toUpdate()
	if err != nil {
		s.writeError(w, r, err, "supplement")
		return
	}

	supp, err := s.store.UpdateSupplement(r.Context(), id, update)
	if err != nil {
		s.writeError(w, r, err, "supplement")
		return
	}
	s.writeJSON(w, http.StatusOK, toSupplementView(supp))
}

func (s *Server) handleDeleteSupplement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteSupplement(r.Context(), id); err != nil {
		s.writeError(w, r, err, "supplement")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
