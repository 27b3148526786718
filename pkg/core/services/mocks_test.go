package services

import (
	"context"

	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// mockStore implements the store interfaces over in-memory slices.
type mockStore struct {
	users         []db.UserRecord
	events        []db.EventRecord
	attendance    []db.AttendanceRecord
	announcements []db.AnnouncementRecord

	insertedUsers    []*db.UserRecord
	updatedUsers     []*db.UserRecord
	statusChanges    map[string]string
	passwordResets   map[string]string
	deletedUsers     []string
	insertedEvents   []db.EventRecord
	updatedEvents    []*db.EventRecord
	deletedEvents    []string
	upserted         []*db.AttendanceRecord
	deletedRecords   [][2]string
	insertedPosts    []*db.AnnouncementRecord
	updatedPosts     []*db.AnnouncementRecord
	deletedPosts     []string

	err error
}

func (m *mockStore) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	return m.users, m.err
}

func (m *mockStore) GetUserByID(ctx context.Context, id string) (*db.UserRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*db.UserRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) InsertUser(ctx context.Context, user *db.UserRecord) error {
	m.insertedUsers = append(m.insertedUsers, user)
	return m.err
}

func (m *mockStore) UpdateUser(ctx context.Context, user *db.UserRecord) error {
	m.updatedUsers = append(m.updatedUsers, user)
	return m.err
}

func (m *mockStore) UpdateUserStatus(ctx context.Context, id, status string) error {
	if m.statusChanges == nil {
		m.statusChanges = map[string]string{}
	}
	m.statusChanges[id] = status
	return m.err
}

func (m *mockStore) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	if m.passwordResets == nil {
		m.passwordResets = map[string]string{}
	}
	m.passwordResets[id] = hash
	return m.err
}

func (m *mockStore) DeleteUser(ctx context.Context, id string) error {
	m.deletedUsers = append(m.deletedUsers, id)
	return m.err
}

func (m *mockStore) GetEvents(ctx context.Context) ([]db.EventRecord, error) {
	return m.events, m.err
}

func (m *mockStore) GetEventByID(ctx context.Context, id string) (*db.EventRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.events {
		if m.events[i].ID == id {
			return &m.events[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) InsertEvent(ctx context.Context, event *db.EventRecord) error {
	m.insertedEvents = append(m.insertedEvents, *event)
	return m.err
}

func (m *mockStore) InsertEvents(ctx context.Context, events []db.EventRecord) error {
	m.insertedEvents = append(m.insertedEvents, events...)
	return m.err
}

func (m *mockStore) UpdateEvent(ctx context.Context, event *db.EventRecord) error {
	m.updatedEvents = append(m.updatedEvents, event)
	return m.err
}

func (m *mockStore) DeleteEvent(ctx context.Context, id string) error {
	m.deletedEvents = append(m.deletedEvents, id)
	return m.err
}

func (m *mockStore) GetAttendance(ctx context.Context) ([]db.AttendanceRecord, error) {
	return m.attendance, m.err
}

func (m *mockStore) UpsertAttendance(ctx context.Context, record *db.AttendanceRecord) error {
	m.upserted = append(m.upserted, record)
	return m.err
}

func (m *mockStore) DeleteAttendance(ctx context.Context, userID, eventID string) error {
	m.deletedRecords = append(m.deletedRecords, [2]string{userID, eventID})
	return m.err
}

func (m *mockStore) GetAnnouncements(ctx context.Context) ([]db.AnnouncementRecord, error) {
	return m.announcements, m.err
}

func (m *mockStore) InsertAnnouncement(ctx context.Context, a *db.AnnouncementRecord) error {
	m.insertedPosts = append(m.insertedPosts, a)
	return m.err
}

func (m *mockStore) UpdateAnnouncement(ctx context.Context, a *db.AnnouncementRecord) error {
	m.updatedPosts = append(m.updatedPosts, a)
	return m.err
}

func (m *mockStore) DeleteAnnouncement(ctx context.Context, id string) error {
	m.deletedPosts = append(m.deletedPosts, id)
	return m.err
}
