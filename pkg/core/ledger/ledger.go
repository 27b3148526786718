// Package ledger provides read-only typed access over an in-memory snapshot.
// It is a pure filtering view, not a cache: callers own freshness by
// constructing a new Ledger from a fresh snapshot after any mutation.
package ledger

import "github.com/danlumempouw/voiceofsoul/pkg/core/model"

// Ledger indexes a snapshot for the lookups the aggregation engine needs.
type Ledger struct {
	snapshot model.Snapshot

	usersByID  map[string]model.User
	eventsByID map[string]model.Event
	recordKeys map[recordKey]model.AttendanceRecord
}

type recordKey struct {
	userID  string
	eventID string
}

// New builds a Ledger over the given snapshot. The snapshot is not copied;
// it must not be mutated while the Ledger is in use.
func New(snapshot model.Snapshot) *Ledger {
	l := &Ledger{
		snapshot:   snapshot,
		usersByID:  make(map[string]model.User, len(snapshot.Users)),
		eventsByID: make(map[string]model.Event, len(snapshot.Events)),
		recordKeys: make(map[recordKey]model.AttendanceRecord, len(snapshot.Attendance)),
	}
	for _, u := range snapshot.Users {
		l.usersByID[u.ID] = u
	}
	for _, e := range snapshot.Events {
		l.eventsByID[e.ID] = e
	}
	for _, rec := range snapshot.Attendance {
		l.recordKeys[recordKey{rec.UserID, rec.EventID}] = rec
	}
	return l
}

// ActiveUsers returns active users only, in stable snapshot order.
func (l *Ledger) ActiveUsers() []model.User {
	var active []model.User
	for _, u := range l.snapshot.Users {
		if u.Status == model.StatusActive {
			active = append(active, u)
		}
	}
	return active
}

// Events returns all events in snapshot order.
func (l *Ledger) Events() []model.Event {
	return l.snapshot.Events
}

// RecordFor returns the attendance record for the (user, event) pair.
// A missing record denotes the derived pending state.
func (l *Ledger) RecordFor(userID, eventID string) (model.AttendanceRecord, bool) {
	rec, ok := l.recordKeys[recordKey{userID, eventID}]
	return rec, ok
}

// RecordsForEvent returns all records for the given event, in snapshot order.
func (l *Ledger) RecordsForEvent(eventID string) []model.AttendanceRecord {
	var records []model.AttendanceRecord
	for _, rec := range l.snapshot.Attendance {
		if rec.EventID == eventID {
			records = append(records, rec)
		}
	}
	return records
}

// UserByID resolves a user id against the snapshot.
func (l *Ledger) UserByID(id string) (model.User, bool) {
	u, ok := l.usersByID[id]
	return u, ok
}

// EventByID resolves an event id against the snapshot.
func (l *Ledger) EventByID(id string) (model.Event, bool) {
	e, ok := l.eventsByID[id]
	return e, ok
}
