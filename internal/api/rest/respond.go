package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/storage"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []health.FieldError `json:"fields,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Validation failures carry
// their field list, unexpected errors are logged and masked as a plain 500.
// The resource noun names what the request was acting on.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var validation *health.ValidationError
	switch {
	case errors.As(err, &validation):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid input",
			Fields: validation.Fields,
		})
	case errors.Is(err, storage.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: resource + " not found"})
	case errors.Is(err, storage.ErrAlreadyExists):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: resource + " already exists"})
	default:
		s.logger.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// decodeJSON reads a request body into target, rejecting unknown fields so
// typos surface as 400s instead of silently ignored attributes.
func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathID parses the {id} segment of the matched route.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}
