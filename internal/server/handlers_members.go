package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/internal/auth"
	"github.com/danlumempouw/voiceofsoul/pkg/core/ledger"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// handleListMembers returns active members grouped by voice part, plus the
// pending queue for admins.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	snapshot, err := s.snapshot(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	l := ledger.New(snapshot)

	groups := make(map[string][]userResponse, len(model.VoicePartOrder))
	for _, part := range model.VoicePartOrder {
		groups[string(part)] = []userResponse{}
	}
	for _, u := range l.ActiveUsers() {
		groups[string(u.VoicePart)] = append(groups[string(u.VoicePart)], toUserResponse(u))
	}

	payload := map[string]any{"members": groups}
	if identity.Role == model.RoleAdmin {
		var pending []userResponse
		for _, u := range snapshot.Users {
			if u.Status == model.StatusPending {
				pending = append(pending, toUserResponse(u))
			}
		}
		payload["pending"] = pending
	}
	ok(w, r, payload)
}

type memberRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role" validate:"omitempty,oneof=member admin coordinator"`
	VoicePart string `json:"voicePart" validate:"required,oneof=Soprano Alto Tenor Bass"`
	Status    string `json:"status" validate:"omitempty,oneof=active pending rejected"`
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := services.CreateMember(r.Context(), s.store, s.logger, identity.User(), services.NewMemberInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      model.Role(req.Role),
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

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err := services.UpdateMember(r.Context(), s.store, s.logger, identity.User(), userID, services.UpdateMemberInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      model.Role(req.Role),
		VoicePart: model.VoicePart(req.VoicePart),
		Status:    model.Status(req.Status),
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	s.memberAction(w, r, services.RemoveMember, "deleted")
}

func (s *Server) handleApproveMember(w http.ResponseWriter, r *http.Request) {
	s.memberAction(w, r, services.ApproveMember, "approved")
}

func (s *Server) handleRejectMember(w http.ResponseWriter, r *http.Request) {
	s.memberAction(w, r, services.RejectMember, "rejected")
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	s.memberAction(w, r, services.ResetPassword, "password reset")
}

type memberActionFunc func(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, userID string) error

func (s *Server) memberAction(w http.ResponseWriter, r *http.Request, action memberActionFunc, status string) {
	identity, _ := auth.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	if err := action(r.Context(), s.store, s.logger, identity.User(), userID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": status})
}
