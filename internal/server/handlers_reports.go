package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/internal/auth"
	"github.com/danlumempouw/voiceofsoul/internal/metrics"
	"github.com/danlumempouw/voiceofsoul/pkg/core/attendance"
	"github.com/danlumempouw/voiceofsoul/pkg/core/export"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

const dateParamLayout = "2006-01-02"

// parseInterval reads the optional start/end query parameters. Both must be
// given together; when neither is present the interval defaults to the
// current month. The end date is extended to the last instant of that day so
// a date-only bound includes the events on it.
func parseInterval(r *http.Request) (model.Interval, error) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")

	if startParam == "" && endParam == "" {
		return model.CurrentMonth(time.Now()), nil
	}
	if startParam == "" || endParam == "" {
		return model.Interval{}, fmt.Errorf("start and end must be given together")
	}

	start, err := time.Parse(dateParamLayout, startParam)
	if err != nil {
		return model.Interval{}, fmt.Errorf("invalid start date %q", startParam)
	}
	end, err := time.Parse(dateParamLayout, endParam)
	if err != nil {
		return model.Interval{}, fmt.Errorf("invalid end date %q", endParam)
	}
	end = end.Add(24*time.Hour - time.Second)

	return model.Interval{Start: start, End: end}, nil
}

type historyEntryResponse struct {
	Event  eventResponse `json:"event"`
	State  string        `json:"state"`
	Reason string        `json:"reason,omitempty"`
}

type historyResponse struct {
	Entries    []historyEntryResponse `json:"entries"`
	Present    int                    `json:"present"`
	Total      int                    `json:"total"`
	Percentage int                    `json:"percentage"`
}

// handleMyHistory returns the caller's own per-event attendance for the
// requested interval.
func (s *Server) handleMyHistory(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	interval, err := parseInterval(r)
	if err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	l, err := s.ledgerView(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	history, err := attendance.MemberHistory(l, identity.UserID, interval)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	resp := historyResponse{
		Entries:    make([]historyEntryResponse, 0, len(history.Entries)),
		Present:    history.Present,
		Total:      history.Total,
		Percentage: history.Percentage,
	}
	for _, entry := range history.Entries {
		resp.Entries = append(resp.Entries, historyEntryResponse{
			Event:  toEventResponse(entry.Event),
			State:  string(entry.Classification.State),
			Reason: entry.Classification.Reason,
		})
	}
	ok(w, r, resp)
}

type summaryRowResponse struct {
	User       userResponse `json:"user"`
	Present    int          `json:"present"`
	Absent     int          `json:"absent"`
	Total      int          `json:"total"`
	Percentage int          `json:"percentage"`
}

// handleRecapSummary returns the per-member recap table plus the group
// average for the interval, or the flat summary CSV when format=csv.
func (s *Server) handleRecapSummary(w http.ResponseWriter, r *http.Request) {
	interval, err := parseInterval(r)
	if err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	l, err := s.ledgerView(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		file, err := export.MemberSummary(l, interval)
		if err != nil {
			s.serviceError(w, r, err)
			return
		}
		metrics.ExportsGenerated.Inc()
		s.writeFile(w, file)
		return
	}

	rows, err := export.SummaryRows(l, interval)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	userIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.User.ID)
	}
	average, err := attendance.AveragePercentage(l, userIDs, interval)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	out := make([]summaryRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, summaryRowResponse{
			User:       toUserResponse(row.User),
			Present:    row.Present,
			Absent:     row.Absent,
			Total:      row.Total,
			Percentage: row.Percentage,
		})
	}
	ok(w, r, map[string]any{"rows": out, "average": average})
}

// handleExport streams the recap CSV as a file download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	interval, err := parseInterval(r)
	if err != nil {
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	l, err := s.ledgerView(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	file, err := export.Recap(l, interval)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	metrics.ExportsGenerated.Inc()
	s.writeFile(w, file)
}

// writeFile streams a generated export as a download.
func (s *Server) writeFile(w http.ResponseWriter, file *export.File) {
	w.Header().Set("Content-Type", export.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	if _, err := w.Write(file.Content); err != nil {
		s.logger.Warn("Export write failed", zap.Error(err))
	}
}
