package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/danlumempouw/voiceofsoul/internal/auth"
	"github.com/danlumempouw/voiceofsoul/pkg/core/attendance"
	"github.com/danlumempouw/voiceofsoul/pkg/core/export"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
)

type eventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Category    string    `json:"category" validate:"required,oneof=Rehearsal Service Other"`
	IsImportant bool      `json:"isImportant"`
}

func (req eventRequest) input() services.EventInput {
	return services.EventInput{
		Title:       req.Title,
		Date:        req.Date,
		Location:    req.Location,
		Description: req.Description,
		Category:    model.Category(req.Category),
		IsImportant: req.IsImportant,
	}
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsImportant bool      `json:"isImportant"`
}

func toEventResponse(e model.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Location:    e.Location,
		Description: e.Description,
		Category:    string(e.Category),
		IsImportant: e.IsImportant,
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.snapshot(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	events := make([]eventResponse, 0, len(snapshot.Events))
	for _, e := range snapshot.Events {
		events = append(events, toEventResponse(e))
	}
	ok(w, r, map[string]any{"events": events})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	event, err := services.CreateEvent(r.Context(), s.store, s.logger, identity.User(), req.input())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())

	w.WriteHeader(http.StatusCreated)
	ok(w, r, toEventResponse(event))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := services.UpdateEvent(r.Context(), s.store, s.logger, identity.User(), eventID, req.input()); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	if err := services.DeleteEvent(r.Context(), s.store, s.logger, identity.User(), eventID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())
	ok(w, r, map[string]string{"status": "deleted"})
}

type generateEventsRequest struct {
	eventRequest
	RRule string    `json:"rrule" validate:"required"`
	Until time.Time `json:"until" validate:"required"`
}

func (s *Server) handleGenerateEvents(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req generateEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	events, err := services.GenerateRecurringEvents(r.Context(), s.store, s.logger, identity.User(), services.RecurringEventInput{
		EventInput: req.input(),
		RRule:      req.RRule,
		Until:      req.Until,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.invalidateSnapshot(r.Context())

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	w.WriteHeader(http.StatusCreated)
	ok(w, r, map[string]any{"events": out})
}

// handleEventComposition reports, per voice part, who is present, who is
// absent and with what reason, and how many have not responded.
func (s *Server) handleEventComposition(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	l, err := s.ledgerView(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	comp, found := attendance.EventComposition(l, eventID)
	if !found {
		fail(w, r, http.StatusNotFound, "event not found")
		return
	}
	ok(w, r, toCompositionResponse(comp))
}

type memberRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

type partCompositionResponse struct {
	Part    string      `json:"part"`
	Present []memberRef `json:"present"`
	Absent  []memberRef `json:"absent"`
	Pending []memberRef `json:"pending"`
}

type compositionResponse struct {
	Event        eventResponse             `json:"event"`
	Parts        []partCompositionResponse `json:"parts"`
	TotalPresent int                       `json:"totalPresent"`
	TotalAbsent  int                       `json:"totalAbsent"`
}

func toCompositionResponse(comp attendance.Composition) compositionResponse {
	resp := compositionResponse{
		Event:        toEventResponse(comp.Event),
		TotalPresent: comp.TotalPresent(),
		TotalAbsent:  comp.TotalAbsent(),
	}
	for _, p := range comp.Parts {
		part := partCompositionResponse{
			Part:    string(p.Part),
			Present: []memberRef{},
			Absent:  []memberRef{},
			Pending: []memberRef{},
		}
		for _, m := range p.Present {
			part.Present = append(part.Present, memberRef{ID: m.ID, Name: m.Name})
		}
		for _, m := range p.Absent {
			part.Absent = append(part.Absent, memberRef{ID: m.ID, Name: m.Name, Reason: m.Reason})
		}
		for _, m := range p.Pending {
			part.Pending = append(part.Pending, memberRef{ID: m.ID, Name: m.Name})
		}
		resp.Parts = append(resp.Parts, part)
	}
	return resp
}

// handleShareText renders the copy-pasteable attendance text for an event,
// scoped to the caller's role.
func (s *Server) handleShareText(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	l, err := s.ledgerView(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if _, found := l.EventByID(eventID); !found {
		fail(w, r, http.StatusNotFound, "event not found")
		return
	}

	text, err := export.EventShareText(l, eventID, identity.User())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	ok(w, r, map[string]string{"text": text})
}
