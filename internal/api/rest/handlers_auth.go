package rest

import (
	"errors"
	"net/http"

	"github.com/louisbranch/vitalog/internal/account"
	"github.com/louisbranch/vitalog/internal/storage"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	user, err := account.NewUser(account.Credentials{
		Username: req.Username,
		Password: req.Password,
	}, nil)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
			return
		}
		s.writeError(w, r, err, "user")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	s.writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: toUserView(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	creds, err := account.NormalizeCredentials(account.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), creds.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		s.writeError(w, r, err, "user")
		return
	}
	if err := account.VerifyPassword(user, creds.Password); err != nil {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: toUserView(user)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), requestUserID(r))
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	s.writeJSON(w, http.StatusOK, toUserView(user))
}

type healthProfileRequest struct {
	Age           *int     `json:"age"`
	Sex           *string  `json:"sex"`
	HeightCm      *float64 `json:"heightCm"`
	WeightKg      *float64 `json:"weightKg"`
	ActivityLevel *string  `json:"activityLevel"`
}

func (s *Server) handleUpdateHealthProfile(w http.ResponseWriter, r *http.Request) {
	var req healthProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	update, err := account.NormalizeHealthProfileInput(account.HealthProfileInput{
		Age:           req.Age,
		Sex:           req.Sex,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		s.writeError(w, r, err, "health profile")
		return
	}

	user, err := s.store.UpdateHealthProfile(r.Context(), requestUserID(r), update)
	if err != nil {
		s.writeError(w, r, err, "health profile")
		return
	}
	s.writeJSON(w, http.StatusOK, toUserView(user))
}

func (s *Server) handleSkipHealthProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.UpdateHealthProfile(r.Context(), requestUserID(r), account.SkipHealthProfile())
	if err != nil {
		s.writeError(w, r, err, "health profile")
		return
	}
	s.writeJSON(w, http.StatusOK, toUserView(user))
}
