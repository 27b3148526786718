package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/danlumempouw/voiceofsoul/internal/auth"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
)

type announcementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type announcementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

func toAnnouncementResponse(a model.Announcement) announcementResponse {
	return announcementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Author:    a.Author,
		Timestamp: a.Timestamp,
	}
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.snapshot(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	out := make([]announcementResponse, 0, len(snapshot.Announcements))
	for _, a := range snapshot.Announcements {
		out = append(out, toAnnouncementResponse(a))
	}
	ok(w, r, map[string]any{"announcements": out})
}

func (s *Server) handlePostAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	announcement, err := services.PostAnnouncement(r.Context(), s.store, s.logger, identity.User(), req.Title, req.Content)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())

	w.WriteHeader(http.StatusCreated)
	ok(w, r, toAnnouncementResponse(announcement))
}

func (s *Server) handleEditAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	id := chi.URLParam(r, "announcementID")

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := services.EditAnnouncement(r.Context(), s.store, s.logger, identity.User(), id, req.Title, req.Content); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	id := chi.URLParam(r, "announcementID")

	if err := services.DeleteAnnouncement(r.Context(), s.store, s.logger, identity.User(), id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "deleted"})
}
