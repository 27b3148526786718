package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/pkg/core/attendance"
	"github.com/danlumempouw/voiceofsoul/pkg/core/export"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
)

func ok(w http.ResponseWriter, r *http.Request, payload any) {
	render.JSON(w, r, payload)
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.WriteHeader(status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// serviceError maps service-layer sentinels onto HTTP statuses.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotPermitted):
		fail(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEventNotFound):
		fail(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, attendance.ErrInvalidInterval),
		errors.Is(err, export.ErrNothingToExport):
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrBadCredential),
		errors.Is(err, services.ErrNotApproved),
		errors.Is(err, services.ErrRejected):
		fail(w, r, http.StatusUnauthorized, err.Error())
	default:
		s.logger.Error("Request failed", zap.Error(err))
		fail(w, r, http.StatusInternalServerError, "internal error")
	}
}
