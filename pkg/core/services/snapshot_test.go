package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

func TestLoadSnapshot(t *testing.T) {
	when := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	mock := &mockStore{
		users: []db.UserRecord{
			{ID: "u1", Name: "Amara", Email: "a@b.c", Role: "admin", VoicePart: "Soprano", Status: "active"},
			{ID: "u2", Name: "Clara", Email: "c@b.c", Role: "member", VoicePart: "Alto", Status: "pending"},
		},
		events: []db.EventRecord{
			{ID: "e1", Title: "Rehearsal", Date: when, Category: "Rehearsal"},
		},
		attendance: []db.AttendanceRecord{
			{UserID: "u1", EventID: "e1", Status: "present", Timestamp: when},
		},
		announcements: []db.AnnouncementRecord{
			{ID: "n1", Title: "Concert", Content: "Details", AuthorID: "u1", Timestamp: when},
			{ID: "n2", Title: "Notice", Content: "Details", AuthorID: "gone", Timestamp: when},
		},
	}

	snapshot, err := LoadSnapshot(context.Background(), mock, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, snapshot.Users, 2)
	assert.Len(t, snapshot.Events, 1)
	assert.Len(t, snapshot.Attendance, 1)

	// Author names resolved from the user rows; missing authors fall back
	require.Len(t, snapshot.Announcements, 2)
	assert.Equal(t, "Amara", snapshot.Announcements[0].Author)
	assert.Equal(t, "Admin", snapshot.Announcements[1].Author)
}

func TestLoadSnapshot_SkipsUnmappableRows(t *testing.T) {
	when := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	mock := &mockStore{
		users: []db.UserRecord{
			{ID: "u1", Name: "Amara", Email: "a@b.c", Role: "member", VoicePart: "Soprano", Status: "active"},
			{ID: "u2", Name: "Bad", Email: "b@b.c", Role: "wizard", VoicePart: "Soprano", Status: "active"},
		},
		events: []db.EventRecord{
			{ID: "e1", Title: "Rehearsal", Date: when, Category: "Rehearsal"},
			{ID: "e2", Title: "Bad", Date: when, Category: "Festival"},
		},
		attendance: []db.AttendanceRecord{
			{UserID: "u1", EventID: "e1", Status: "present", Timestamp: when},
			{UserID: "u1", EventID: "e2", Status: "maybe", Timestamp: when},
		},
	}

	snapshot, err := LoadSnapshot(context.Background(), mock, zap.NewNop())
	require.NoError(t, err)

	// Rows with unknown enum values are dropped, not fatal
	require.Len(t, snapshot.Users, 1)
	assert.Equal(t, "u1", snapshot.Users[0].ID)
	require.Len(t, snapshot.Events, 1)
	assert.Equal(t, "e1", snapshot.Events[0].ID)
	require.Len(t, snapshot.Attendance, 1)
}

func TestLoadSnapshot_StoreError(t *testing.T) {
	mock := &mockStore{err: assert.AnError}

	_, err := LoadSnapshot(context.Background(), mock, zap.NewNop())
	assert.ErrorIs(t, err, assert.AnError)
}
