// Package attendance is the aggregation engine: it derives tri-state
// attendance classifications and percentage statistics from a ledger.
// All functions are pure and synchronous over the supplied snapshot view.
package attendance

import (
	"errors"
	"math"
	"sort"

	"github.com/danlumempouw/voiceofsoul/pkg/core/ledger"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

// ErrInvalidInterval is returned when an interval's start is after its end.
// Bounds are never silently swapped.
var ErrInvalidInterval = errors.New("interval start is after end")

// NoReasonPlaceholder substitutes for a missing reason on historical or
// externally-created absence records.
const NoReasonPlaceholder = "no reason given"

// State is the derived attendance state of a user for one event.
type State string

const (
	Present State = "present"
	Absent  State = "absent"
	Pending State = "pending"
)

// Classification is the tagged result of classifying one (user, event) pair.
// Reason is set only for the Absent state.
type Classification struct {
	State  State
	Reason string
}

// Classify derives the tri-state classification for a (user, event) pair:
// present or absent when a record exists, pending when none does.
func Classify(l *ledger.Ledger, userID, eventID string) Classification {
	rec, ok := l.RecordFor(userID, eventID)
	if !ok {
		return Classification{State: Pending}
	}
	if rec.Status == model.AttendancePresent {
		return Classification{State: Present}
	}
	reason := rec.Reason
	if reason == "" {
		reason = NoReasonPlaceholder
	}
	return Classification{State: Absent, Reason: reason}
}

// EventsInRange selects the events that count toward attendance (Rehearsal
// and Service categories) with dates inside the closed interval, sorted
// ascending by date. This is the single category/date filter shared by every
// percentage computation and the exporter.
func EventsInRange(l *ledger.Ledger, interval model.Interval) ([]model.Event, error) {
	if !interval.Valid() {
		return nil, ErrInvalidInterval
	}
	var events []model.Event
	for _, e := range l.Events() {
		if e.Category.CountsTowardAttendance() && interval.Contains(e.Date) {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// Percentage computes a user's attendance percentage over the interval:
// round(100 * present / total) to the nearest integer, half up, and 0 when no
// events fall in the range. Every view and report that shows a percentage
// delegates here; the interval is the only parameter that varies.
func Percentage(l *ledger.Ledger, userID string, interval model.Interval) (int, error) {
	events, err := EventsInRange(l, interval)
	if err != nil {
		return 0, err
	}
	return percentageOver(l, userID, events), nil
}

func percentageOver(l *ledger.Ledger, userID string, events []model.Event) int {
	if len(events) == 0 {
		return 0
	}
	present := 0
	for _, e := range events {
		if Classify(l, userID, e.ID).State == Present {
			present++
		}
	}
	return int(math.Round(100 * float64(present) / float64(len(events))))
}

// AveragePercentage computes the mean of the per-user percentages over the
// same interval. This is deliberately an arithmetic mean of percentages, not
// a recomputation from raw counts; the two coincide while every user shares
// the same event set, and the mean is the accepted summary-card behaviour.
func AveragePercentage(l *ledger.Ledger, userIDs []string, interval model.Interval) (float64, error) {
	events, err := EventsInRange(l, interval)
	if err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	sum := 0
	for _, id := range userIDs {
		sum += percentageOver(l, id, events)
	}
	return float64(sum) / float64(len(userIDs)), nil
}

// Member identifies a user inside a composition bucket.
type Member struct {
	ID   string
	Name string
}

// AbsentMember carries the absence reason alongside the member identity.
type AbsentMember struct {
	ID     string
	Name   string
	Reason string
}

// PartComposition is the tri-state partition of one voice part's active
// members for a single event. The three lists are disjoint and their union is
// exactly the active users of that part.
type PartComposition struct {
	Part    model.VoicePart
	Present []Member
	Absent  []AbsentMember
	Pending []Member
}

// Counts returns the bucket sizes as (present, absent, pending).
func (p PartComposition) Counts() (int, int, int) {
	return len(p.Present), len(p.Absent), len(p.Pending)
}

// Composition is the per-voice-part breakdown of one event's attendance.
type Composition struct {
	Event model.Event
	Parts []PartComposition
}

// PartFor returns the bucket for the given voice part.
func (c Composition) PartFor(part model.VoicePart) (PartComposition, bool) {
	for _, p := range c.Parts {
		if p.Part == part {
			return p, true
		}
	}
	return PartComposition{}, false
}

// TotalPresent sums present members across all parts.
func (c Composition) TotalPresent() int {
	total := 0
	for _, p := range c.Parts {
		total += len(p.Present)
	}
	return total
}

// TotalAbsent sums absent members across all parts.
func (c Composition) TotalAbsent() int {
	total := 0
	for _, p := range c.Parts {
		total += len(p.Absent)
	}
	return total
}

// EventComposition partitions the active users into the four voice parts and
// classifies each into present, absent, or pending for the given event.
// Users with an unrecognised voice part are skipped, as are attendance
// records whose user no longer resolves; both reflect external edits, not
// programming errors.
func EventComposition(l *ledger.Ledger, eventID string) (Composition, bool) {
	event, ok := l.EventByID(eventID)
	if !ok {
		return Composition{}, false
	}

	buckets := make(map[model.VoicePart]*PartComposition, len(model.VoicePartOrder))
	for _, part := range model.VoicePartOrder {
		buckets[part] = &PartComposition{Part: part}
	}

	for _, user := range l.ActiveUsers() {
		bucket, ok := buckets[user.VoicePart]
		if !ok {
			continue
		}
		switch c := Classify(l, user.ID, eventID); c.State {
		case Present:
			bucket.Present = append(bucket.Present, Member{ID: user.ID, Name: user.Name})
		case Absent:
			bucket.Absent = append(bucket.Absent, AbsentMember{ID: user.ID, Name: user.Name, Reason: c.Reason})
		case Pending:
			bucket.Pending = append(bucket.Pending, Member{ID: user.ID, Name: user.Name})
		}
	}

	comp := Composition{Event: event}
	for _, part := range model.VoicePartOrder {
		comp.Parts = append(comp.Parts, *buckets[part])
	}
	return comp, true
}

// HistoryEntry pairs an event with the user's classification for it.
type HistoryEntry struct {
	Event          model.Event
	Classification Classification
}

// History is a user's per-event attendance over an interval, with the
// summary statistics the detail views display.
type History struct {
	Entries    []HistoryEntry
	Present    int
	Total      int
	Percentage int
}

// MemberHistory lists a user's classification for every counting event in the
// interval, ascending by date, together with the percentage for the range.
func MemberHistory(l *ledger.Ledger, userID string, interval model.Interval) (History, error) {
	events, err := EventsInRange(l, interval)
	if err != nil {
		return History{}, err
	}
	h := History{Total: len(events)}
	for _, e := range events {
		c := Classify(l, userID, e.ID)
		if c.State == Present {
			h.Present++
		}
		h.Entries = append(h.Entries, HistoryEntry{Event: e, Classification: c})
	}
	h.Percentage = percentageOver(l, userID, events)
	return h, nil
}
