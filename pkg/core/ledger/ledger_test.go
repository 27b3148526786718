package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Users: []model.User{
			{ID: "u1", Name: "Amara", VoicePart: model.Soprano, Status: model.StatusActive},
			{ID: "u2", Name: "Bram", VoicePart: model.Bass, Status: model.StatusPending},
			{ID: "u3", Name: "Clara", VoicePart: model.Alto, Status: model.StatusActive},
			{ID: "u4", Name: "Dewi", VoicePart: model.Tenor, Status: model.StatusRejected},
		},
		Events: []model.Event{
			{ID: "e1", Title: "Weekly Rehearsal", Date: time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC), Category: model.CategoryRehearsal},
			{ID: "e2", Title: "Sunday Service", Date: time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC), Category: model.CategoryService},
		},
		Attendance: []model.AttendanceRecord{
			{UserID: "u1", EventID: "e1", Status: model.AttendancePresent},
			{UserID: "u3", EventID: "e1", Status: model.AttendanceAbsent, Reason: "travelling"},
			{UserID: "u1", EventID: "e2", Status: model.AttendancePresent},
		},
	}
}

func TestActiveUsers_FiltersByStatus(t *testing.T) {
	l := New(testSnapshot())

	active := l.ActiveUsers()
	require.Len(t, active, 2)
	assert.Equal(t, "u1", active[0].ID)
	assert.Equal(t, "u3", active[1].ID)
}

func TestRecordFor(t *testing.T) {
	l := New(testSnapshot())

	rec, ok := l.RecordFor("u3", "e1")
	require.True(t, ok)
	assert.Equal(t, model.AttendanceAbsent, rec.Status)
	assert.Equal(t, "travelling", rec.Reason)

	// No record for the pair means pending
	_, ok = l.RecordFor("u3", "e2")
	assert.False(t, ok)
}

func TestRecordsForEvent(t *testing.T) {
	l := New(testSnapshot())

	records := l.RecordsForEvent("e1")
	require.Len(t, records, 2)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, "u3", records[1].UserID)

	assert.Empty(t, l.RecordsForEvent("missing"))
}

func TestLookupsByID(t *testing.T) {
	l := New(testSnapshot())

	u, ok := l.UserByID("u2")
	require.True(t, ok)
	assert.Equal(t, "Bram", u.Name)

	e, ok := l.EventByID("e2")
	require.True(t, ok)
	assert.Equal(t, "Sunday Service", e.Title)

	_, ok = l.UserByID("missing")
	assert.False(t, ok)
	_, ok = l.EventByID("missing")
	assert.False(t, ok)
}
