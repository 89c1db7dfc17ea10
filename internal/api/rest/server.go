// Package rest exposes the health-tracking API over JSON HTTP.
package rest

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/vitalog/internal/account"
	"github.com/louisbranch/vitalog/internal/storage"
)

// Enqueuer schedules background extraction for an uploaded lab result.
type Enqueuer interface {
	Enqueue(labResultID int64, rawText string)
}

// InteractionChecker runs a regimen conflict check and returns the stored set.
type InteractionChecker interface {
	Check(ctx context.Context) ([]storage.Interaction, error)
}

// Server holds the handler dependencies for the API.
type Server struct {
	store        storage.Store
	processor    Enqueuer
	interactions InteractionChecker
	tokens       *account.TokenIssuer
	logger       *log.Logger
}

// Config carries the dependencies for NewServer.
type Config struct {
	Store        storage.Store
	Processor    Enqueuer
	Interactions InteractionChecker
	Tokens       *account.TokenIssuer
	Logger       *log.Logger
}

// NewServer creates the API server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:        cfg.Store,
		processor:    cfg.Processor,
		interactions: cfg.Interactions,
		tokens:       cfg.Tokens,
		logger:       logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(http.MethodPost+" /api/auth/register", s.handleRegister)
	mux.HandleFunc(http.MethodPost+" /api/auth/login", s.handleLogin)
	mux.HandleFunc(http.MethodGet+" /api/me", s.requireAuth(s.handleMe))
	mux.HandleFunc(http.MethodPatch+" /api/me/health-profile", s.requireAuth(s.handleUpdateHealthProfile))
	mux.HandleFunc(http.MethodPost+" /api/me/health-profile/skip", s.requireAuth(s.handleSkipHealthProfile))

	mux.HandleFunc(http.MethodGet+" /api/lab-results", s.handleListLabResults)
	mux.HandleFunc(http.MethodPost+" /api/lab-results/upload", s.handleUploadLabResult)
	mux.HandleFunc(http.MethodDelete+" /api/lab-results/{id}", s.handleDeleteLabResult)
	mux.HandleFunc(http.MethodGet+" /api/health-markers", s.handleListHealthMarkers)
	mux.HandleFunc(http.MethodGet+" /api/recommendations", s.handleListRecommendations)

	mux.HandleFunc(http.MethodGet+" /api/medications", s.handleListMedications)
	mux.HandleFunc(http.MethodPost+" /api/medications", s.handleCreateMedication)
	mux.HandleFunc(http.MethodPatch+" /api/medications/{id}", s.handleUpdateMedication)
	mux.HandleFunc(http.MethodDelete+" /api/medications/{id}", s.handleDeleteMedication)

	mux.HandleFunc(http.MethodGet+" /api/supplements", s.handleListSupplements)
	mux.HandleFunc(http.MethodPost+" /api/supplements", s.handleCreateSupplement)
	mux.HandleFunc(http.MethodPatch+" /api/supplements/{id}", s.handleUpdateSupplement)
	mux.HandleFunc(http.MethodDelete+" /api/supplements/{id}", s.handleDeleteSupplement)

	mux.HandleFunc(http.MethodGet+" /api/reminders", s.handleListReminders)
	mux.HandleFunc(http.MethodPost+" /api/reminders", s.handleCreateReminder)
	mux.HandleFunc(http.MethodPatch+" /api/reminders/{id}", s.handleUpdateReminder)
	mux.HandleFunc(http.MethodDelete+" /api/reminders/{id}", s.handleDeleteReminder)

	mux.HandleFunc(http.MethodGet+" /api/interactions", s.handleListInteractions)
	mux.HandleFunc(http.MethodPost+" /api/interactions/check", s.handleCheckInteractions)

	mux.HandleFunc(http.MethodGet+" /api/pill-stacks", s.handleListPillStacks)
	mux.HandleFunc(http.MethodPost+" /api/pill-stacks", s.handleCreatePillStack)
	mux.HandleFunc(http.MethodPatch+" /api/pill-stacks/{id}", s.handleUpdatePillStack)
	mux.HandleFunc(http.MethodDelete+" /api/pill-stacks/{id}", s.handleDeletePillStack)

	mux.HandleFunc(http.MethodGet+" /api/pill-doses", s.handleListPillDoses)
	mux.HandleFunc(http.MethodPost+" /api/pill-doses", s.handleCreatePillDose)
	mux.HandleFunc(http.MethodPost+" /api/pill-doses/generate", s.handleGeneratePillDoses)
	mux.HandleFunc(http.MethodPatch+" /api/pill-doses/{id}", s.handleUpdatePillDose)

	return mux
}

type contextKey string

const userIDKey contextKey = "userID"

// requireAuth verifies the Bearer session token and stashes the user id on
// the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid session"})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

func requestUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
