package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/danlumempouw/voiceofsoul/internal/auth"
	"github.com/danlumempouw/voiceofsoul/internal/metrics"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
)

type attendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=present absent"`
	Reason string `json:"reason"`
}

// handleSubmitAttendance records the caller's own response for an event.
func (s *Server) handleSubmitAttendance(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err := services.SubmitAttendance(r.Context(), s.store, s.logger, identity.User(),
		eventID, model.AttendanceStatus(req.Status), req.Reason)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	metrics.AttendanceSubmissions.WithLabelValues(req.Status).Inc()
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "recorded"})
}

// handleOverrideAttendance records a response on another member's behalf.
// Admins may target anyone; coordinators only their own voice part.
func (s *Server) handleOverrideAttendance(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")
	userID := chi.URLParam(r, "userID")

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err := services.OverrideAttendance(r.Context(), s.store, s.logger, identity.User(),
		userID, eventID, model.AttendanceStatus(req.Status), req.Reason)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	metrics.AttendanceSubmissions.WithLabelValues(req.Status).Inc()
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "recorded"})
}

// handleRemoveAttendance deletes a response, reverting the pair to pending.
func (s *Server) handleRemoveAttendance(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")
	userID := chi.URLParam(r, "userID")

	err := services.RemoveAttendance(r.Context(), s.store, s.logger, identity.User(), userID, eventID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "removed"})
}
