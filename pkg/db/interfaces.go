package db

import "context"

// UserStore defines the interface for membership database operations
type UserStore interface {
	GetUsers(ctx context.Context) ([]UserRecord, error)
	GetUserByID(ctx context.Context, id string) (*UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	InsertUser(ctx context.Context, user *UserRecord) error
	UpdateUser(ctx context.Context, user *UserRecord) error
	UpdateUserStatus(ctx context.Context, id, status string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	DeleteUser(ctx context.Context, id string) error
}

// EventStore defines the interface for event database operations
type EventStore interface {
	GetEvents(ctx context.Context) ([]EventRecord, error)
	GetEventByID(ctx context.Context, id string) (*EventRecord, error)
	InsertEvent(ctx context.Context, event *EventRecord) error
	InsertEvents(ctx context.Context, events []EventRecord) error
	UpdateEvent(ctx context.Context, event *EventRecord) error
	DeleteEvent(ctx context.Context, id string) error
}

// AttendanceStore defines the interface for attendance ledger operations.
// UpsertAttendance overwrites any existing row for the same (user, event)
// pair; DeleteAttendance reverts the pair to the derived pending state.
type AttendanceStore interface {
	GetAttendance(ctx context.Context) ([]AttendanceRecord, error)
	UpsertAttendance(ctx context.Context, record *AttendanceRecord) error
	DeleteAttendance(ctx context.Context, userID, eventID string) error
}

// AnnouncementStore defines the interface for announcement database operations
type AnnouncementStore interface {
	GetAnnouncements(ctx context.Context) ([]AnnouncementRecord, error)
	InsertAnnouncement(ctx context.Context, a *AnnouncementRecord) error
	UpdateAnnouncement(ctx context.Context, a *AnnouncementRecord) error
	DeleteAnnouncement(ctx context.Context, id string) error
}

// Store is the full persistence surface the application wires together.
type Store interface {
	UserStore
	EventStore
	AttendanceStore
	AnnouncementStore
}
