package rest

import (
	"io"
	"net/http"
)

// Uploads larger than this are rejected before reading the file into memory.
const maxUploadBytes = 10 << 20

func (s *Server) handleListLabResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.store.ListLabResults(r.Context())
	if err != nil {
		s.writeError(w, r, err, "lab results")
		return
	}
	s.writeJSON(w, http.StatusOK, toLabResultViews(results))
}

// handleUploadLabResult accepts a multipart upload, records the document in
// the processing state, and hands the raw text to the background extractor.
// The 201 response returns before extraction finishes.
func (s *Server) handleUploadLabResult(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeBadRequest(w, "no file uploaded")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeBadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	rawText, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, err, "lab result")
		return
	}

	result, err := s.store.CreateLabResult(r.Context(), header.Filename)
	if err != nil {
		s.writeError(w, r, err, "lab result")
		return
	}
	s.processor.Enqueue(result.ID, string(rawText))

	s.writeJSON(w, http.StatusCreated, toLabResultView(result))
}

func (s *Server) handleDeleteLabResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteLabResult(r.Context(), id); err != nil {
		s.writeError(w, r, err, "lab result")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListHealthMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := s.store.ListHealthMarkers(r.Context())
	if err != nil {
		s.writeError(w, r, err, "health markers")
		return
	}
	s.writeJSON(w, http.StatusOK, toHealthMarkerViews(markers))
}

func (s *Server) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListRecommendations(r.Context())
	if err != nil {
		s.writeError(w, r, err, "recommendations")
		return
	}
	s.writeJSON(w, http.StatusOK, toRecommendationViews(recs))
}
