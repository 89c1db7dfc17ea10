package rest

import "net/http"

func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.store.ListInteractions(r.Context())
	if err != nil {
		s.writeError(w, r, err, "interactions")
		return
	}
	s.writeJSON(w, http.StatusOK, toInteractionViews(interactions))
}

// handleCheckInteractions re-evaluates the active regimen and returns the
// refreshed finding set. Previous findings are replaced wholesale.
func (s *Server) handleCheckInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.interactions.Check(r.Context())
	if err != nil {
		s.writeError(w, r, err, "interactions")
		return
	}
	s.writeJSON(w, http.StatusOK, toInteractionViews(interactions))
}
