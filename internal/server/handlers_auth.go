package server

import (
	"encoding/json"
	"net/http"

	"github.com/danlumempouw/voiceofsoul/internal/auth"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, r, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	VoicePart string `json:"voicePart"`
	Status    string `json:"status"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		VoicePart: string(u.VoicePart),
		Status:    string(u.Status),
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := services.Authenticate(r.Context(), s.store, s.logger, req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	token, err := auth.Issue(user, s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	ok(w, r, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

type signupRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=6"`
	VoicePart string `json:"voicePart" validate:"required,oneof=Soprano Alto Tenor Bass"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := services.RegisterMember(r.Context(), s.store, s.logger, services.NewMemberInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		VoicePart: model.VoicePart(req.VoicePart),
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())

	w.WriteHeader(http.StatusCreated)
	ok(w, r, toUserResponse(user))
}
