package model

import "time"

// VoicePart is one of the four fixed choir sections a member belongs to.
type VoicePart string

const (
	Soprano VoicePart = "Soprano"
	Alto    VoicePart = "Alto"
	Tenor   VoicePart = "Tenor"
	Bass    VoicePart = "Bass"
)

// VoicePartOrder is the fixed SATB ordering used by every grouped view and export.
var VoicePartOrder = []VoicePart{Soprano, Alto, Tenor, Bass}

// Role determines what a user may manage.
// Coordinators are scoped to attendance within their own voice part.
type Role string

const (
	RoleMember      Role = "member"
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
)

// Status is the membership approval state.
// Only active users count toward attendance statistics.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// Category classifies an event. Only Rehearsal and Service events count
// toward attendance percentages; Other is excluded from all percentage math.
type Category string

const (
	CategoryRehearsal Category = "Rehearsal"
	CategoryService   Category = "Service"
	CategoryOther     Category = "Other"
)

// CountsTowardAttendance reports whether events of this category are included
// in percentage computations and exports.
func (c Category) CountsTowardAttendance() bool {
	return c == CategoryRehearsal || c == CategoryService
}

// AttendanceStatus is a stored attendance response. The third logical state,
// pending, is never stored; it is derived from the absence of a record.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// User is a choir member, admin, or voice-part coordinator.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      Role
	VoicePart VoicePart
	Status    Status
}

// Event is a scheduled choir activity.
type Event struct {
	ID          string
	Title       string
	Date        time.Time
	Location    string
	Description string
	Category    Category
	IsImportant bool
}

// AttendanceRecord is a single response for a (user, event) pair.
// At most one record exists per pair; resubmission overwrites.
type AttendanceRecord struct {
	UserID    string
	EventID   string
	Status    AttendanceStatus
	Reason    string
	Timestamp time.Time
}

// Announcement is a broadcast message. Author is a display name resolved from
// the author's user id when the snapshot is loaded.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	Author    string
	Timestamp time.Time
}

// Snapshot is an immutable view of the full data set at one point in time.
// All aggregation is computed from a snapshot; callers obtain a fresh one
// after every mutation.
type Snapshot struct {
	Users         []User
	Events        []Event
	Attendance    []AttendanceRecord
	Announcements []Announcement
}

// Interval is a closed date range [Start, End]. Both bounds are explicit;
// callers resolve defaults such as "this month" before building one.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the closed interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// Valid reports whether the interval's bounds are ordered.
func (i Interval) Valid() bool {
	return !i.Start.After(i.End)
}

// CurrentMonth returns the interval from the first day of now's month up to now.
func CurrentMonth(now time.Time) Interval {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Interval{Start: start, End: now}
}
