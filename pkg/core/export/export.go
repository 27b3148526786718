// Package export renders aggregation results into delimited text suitable
// for download. Output is fully derived from the snapshot and interval:
// exporting twice with unchanged input yields byte-identical content.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danlumempouw/voiceofsoul/pkg/core/attendance"
	"github.com/danlumempouw/voiceofsoul/pkg/core/ledger"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

// ErrNothingToExport is returned when no counting events fall inside the
// requested interval; a header-only file is never produced.
var ErrNothingToExport = errors.New("no rehearsal or service events in range")

// Cell markers for the tri-state classification.
const (
	markPresent    = "v"
	markAbsent     = "I"
	markNoResponse = "-"
)

// MIMEType is the content type for generated files.
const MIMEType = "text/csv"

// File is a generated export: CSV content plus the suggested download name.
type File struct {
	Name    string
	Content []byte
}

// Recap builds the per-member attendance grid for the interval: one column
// per counting event, rows grouped by voice part in SATB order with a labelled
// separator row per group, members sorted by name and numbered within their
// group, and a trailing percentage column.
func Recap(l *ledger.Ledger, interval model.Interval) (*File, error) {
	events, err := attendance.EventsInRange(l, interval)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNothingToExport
	}

	header := []string{"Name"}
	for _, e := range events {
		header = append(header, fmt.Sprintf("%d %s", e.Date.Day(), e.Date.Format("Jan")))
	}
	header = append(header, "Percentage")

	rows := [][]string{header}
	active := l.ActiveUsers()

	for _, part := range model.VoicePartOrder {
		separator := make([]string, len(header))
		separator[0] = fmt.Sprintf("--- %s ---", partLabel(part))
		rows = append(rows, separator)

		members := membersOfPart(active, part)
		for i, user := range members {
			row := []string{fmt.Sprintf("%d. %s", i+1, user.Name)}
			for _, e := range events {
				switch attendance.Classify(l, user.ID, e.ID).State {
				case attendance.Present:
					row = append(row, markPresent)
				case attendance.Absent:
					row = append(row, markAbsent)
				default:
					row = append(row, markNoResponse)
				}
			}
			pct, err := attendance.Percentage(l, user.ID, interval)
			if err != nil {
				return nil, err
			}
			row = append(row, fmt.Sprintf("%d%%", pct))
			rows = append(rows, row)
		}
	}

	content, err := writeCSV(rows)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("Recap_%s_to_%s.csv",
		interval.Start.Format("2006-01-02"), interval.End.Format("2006-01-02"))
	return &File{Name: name, Content: content}, nil
}

// SummaryRow is one member's aggregate line in the summary export.
type SummaryRow struct {
	User       model.User
	Present    int
	Absent     int
	Total      int
	Percentage int
}

// SummaryRows computes the per-member recap table for the interval, sorted by
// percentage descending then name ascending.
func SummaryRows(l *ledger.Ledger, interval model.Interval) ([]SummaryRow, error) {
	events, err := attendance.EventsInRange(l, interval)
	if err != nil {
		return nil, err
	}
	var rows []SummaryRow
	for _, user := range l.ActiveUsers() {
		row := SummaryRow{User: user, Total: len(events)}
		for _, e := range events {
			switch attendance.Classify(l, user.ID, e.ID).State {
			case attendance.Present:
				row.Present++
			case attendance.Absent:
				row.Absent++
			}
		}
		pct, err := attendance.Percentage(l, user.ID, interval)
		if err != nil {
			return nil, err
		}
		row.Percentage = pct
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Percentage != rows[j].Percentage {
			return rows[i].Percentage > rows[j].Percentage
		}
		return rows[i].User.Name < rows[j].User.Name
	})
	return rows, nil
}

// MemberSummary renders the summary rows as a flat CSV.
func MemberSummary(l *ledger.Ledger, interval model.Interval) (*File, error) {
	summary, err := SummaryRows(l, interval)
	if err != nil {
		return nil, err
	}
	if len(summary) == 0 || summary[0].Total == 0 {
		return nil, ErrNothingToExport
	}

	rows := [][]string{{"Name", "Voice Part", "Present", "Absent", "Total", "Percentage"}}
	for _, r := range summary {
		rows = append(rows, []string{
			r.User.Name,
			string(r.User.VoicePart),
			fmt.Sprintf("%d", r.Present),
			fmt.Sprintf("%d", r.Absent),
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%d%%", r.Percentage),
		})
	}

	content, err := writeCSV(rows)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("Attendance_Summary_%s.csv", interval.End.Format("2006-01-02"))
	return &File{Name: name, Content: content}, nil
}

func membersOfPart(users []model.User, part model.VoicePart) []model.User {
	var members []model.User
	for _, u := range users {
		if u.VoicePart == part {
			members = append(members, u)
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})
	return members
}

func partLabel(part model.VoicePart) string {
	return strings.ToUpper(string(part))
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
