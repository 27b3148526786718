package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danlumempouw/voiceofsoul/pkg/core/ledger"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

var january = model.Interval{
	Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 19, 0, 0, 0, time.UTC)
}

// choirLedger builds a snapshot with two counting events in January, one
// excluded Other event, and one event outside the interval.
func choirLedger() *ledger.Ledger {
	return ledger.New(model.Snapshot{
		Users: []model.User{
			{ID: "s1", Name: "Amara", VoicePart: model.Soprano, Status: model.StatusActive},
			{ID: "s2", Name: "Bintang", VoicePart: model.Soprano, Status: model.StatusActive},
			{ID: "a1", Name: "Clara", VoicePart: model.Alto, Status: model.StatusActive},
			{ID: "t1", Name: "Dimas", VoicePart: model.Tenor, Status: model.StatusActive},
			{ID: "b1", Name: "Eko", VoicePart: model.Bass, Status: model.StatusPending},
		},
		Events: []model.Event{
			{ID: "e1", Title: "Rehearsal", Date: day(10), Category: model.CategoryRehearsal},
			{ID: "e2", Title: "Service", Date: day(11), Category: model.CategoryService},
			{ID: "e3", Title: "Social", Date: day(12), Category: model.CategoryOther},
			{ID: "e4", Title: "February Rehearsal", Date: time.Date(2026, 2, 7, 19, 0, 0, 0, time.UTC), Category: model.CategoryRehearsal},
		},
		Attendance: []model.AttendanceRecord{
			{UserID: "s1", EventID: "e1", Status: model.AttendanceAbsent, Reason: "travelling"},
			{UserID: "s1", EventID: "e2", Status: model.AttendancePresent},
			{UserID: "s2", EventID: "e1", Status: model.AttendancePresent},
			{UserID: "s2", EventID: "e2", Status: model.AttendancePresent},
			{UserID: "a1", EventID: "e1", Status: model.AttendanceAbsent},
		},
	})
}

func TestClassify(t *testing.T) {
	l := choirLedger()

	assert.Equal(t, Classification{State: Present}, Classify(l, "s1", "e2"))
	assert.Equal(t, Classification{State: Absent, Reason: "travelling"}, Classify(l, "s1", "e1"))

	// No record derives pending
	assert.Equal(t, Classification{State: Pending}, Classify(l, "t1", "e1"))

	// Absence without a reason gets the placeholder on read
	assert.Equal(t, Classification{State: Absent, Reason: NoReasonPlaceholder}, Classify(l, "a1", "e1"))
}

func TestEventsInRange(t *testing.T) {
	l := choirLedger()

	events, err := EventsInRange(l, january)
	require.NoError(t, err)

	// Other category and out-of-range events are excluded; order is ascending
	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "e2", events[1].ID)
}

func TestEventsInRange_InvalidInterval(t *testing.T) {
	l := choirLedger()

	// Reversed bounds are an error, never silently swapped
	_, err := EventsInRange(l, model.Interval{Start: january.End, End: january.Start})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = Percentage(l, "s1", model.Interval{Start: january.End, End: january.Start})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestPercentage(t *testing.T) {
	l := choirLedger()

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{"one of two present", "s1", 50},
		{"all present", "s2", 100},
		{"absent once, no response once", "a1", 0},
		{"no records at all", "t1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentage(l, tt.userID, january)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentage_NoEventsInRange(t *testing.T) {
	l := choirLedger()

	// A range with no counting events yields 0, not an error
	march := model.Interval{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	got, err := Percentage(l, "s2", march)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestPercentage_RoundsHalfUp(t *testing.T) {
	// One present out of three counting events: 33.33 rounds to 33.
	// Two present: 66.67 rounds to 67.
	events := []model.Event{
		{ID: "e1", Date: day(3), Category: model.CategoryRehearsal},
		{ID: "e2", Date: day(10), Category: model.CategoryRehearsal},
		{ID: "e3", Date: day(17), Category: model.CategoryRehearsal},
	}
	users := []model.User{
		{ID: "u1", Name: "One", VoicePart: model.Soprano, Status: model.StatusActive},
		{ID: "u2", Name: "Two", VoicePart: model.Soprano, Status: model.StatusActive},
	}
	l := ledger.New(model.Snapshot{
		Users:  users,
		Events: events,
		Attendance: []model.AttendanceRecord{
			{UserID: "u1", EventID: "e1", Status: model.AttendancePresent},
			{UserID: "u2", EventID: "e1", Status: model.AttendancePresent},
			{UserID: "u2", EventID: "e2", Status: model.AttendancePresent},
		},
	})

	got, err := Percentage(l, "u1", january)
	require.NoError(t, err)
	assert.Equal(t, 33, got)

	got, err = Percentage(l, "u2", january)
	require.NoError(t, err)
	assert.Equal(t, 67, got)
}

func TestPercentage_ExactHalfRoundsUp(t *testing.T) {
	// 1 present of 8 events is 12.5 and must round to 13, not 12.
	snapshot := model.Snapshot{
		Users: []model.User{
			{ID: "u1", Name: "One", VoicePart: model.Tenor, Status: model.StatusActive},
		},
	}
	for d := 1; d <= 8; d++ {
		snapshot.Events = append(snapshot.Events, model.Event{
			ID: string(rune('a' + d)), Date: day(d), Category: model.CategoryRehearsal,
		})
	}
	snapshot.Attendance = []model.AttendanceRecord{
		{UserID: "u1", EventID: "b", Status: model.AttendancePresent},
	}

	got, err := Percentage(ledger.New(snapshot), "u1", january)
	require.NoError(t, err)
	assert.Equal(t, 13, got)
}

func TestPercentage_MonotonicInPresence(t *testing.T) {
	// Adding a present record never lowers the percentage.
	snapshot := model.Snapshot{
		Users: []model.User{
			{ID: "u1", Name: "One", VoicePart: model.Alto, Status: model.StatusActive},
		},
		Events: []model.Event{
			{ID: "e1", Date: day(3), Category: model.CategoryRehearsal},
			{ID: "e2", Date: day(10), Category: model.CategoryRehearsal},
			{ID: "e3", Date: day(17), Category: model.CategoryService},
		},
	}

	prev := 0
	for _, eventID := range []string{"e1", "e2", "e3"} {
		snapshot.Attendance = append(snapshot.Attendance, model.AttendanceRecord{
			UserID: "u1", EventID: eventID, Status: model.AttendancePresent,
		})
		got, err := Percentage(ledger.New(snapshot), "u1", january)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
	assert.Equal(t, 100, prev)
}

func TestAveragePercentage(t *testing.T) {
	l := choirLedger()

	// s1=50, s2=100, a1=0, t1=0 -> mean 37.5
	got, err := AveragePercentage(l, []string{"s1", "s2", "a1", "t1"}, january)
	require.NoError(t, err)
	assert.InDelta(t, 37.5, got, 0.001)
}

func TestAveragePercentage_NoUsers(t *testing.T) {
	l := choirLedger()

	got, err := AveragePercentage(l, nil, january)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEventComposition(t *testing.T) {
	l := choirLedger()

	comp, found := EventComposition(l, "e1")
	require.True(t, found)
	assert.Equal(t, "e1", comp.Event.ID)

	// Parts come back in fixed SATB order
	require.Len(t, comp.Parts, 4)
	assert.Equal(t, model.Soprano, comp.Parts[0].Part)
	assert.Equal(t, model.Alto, comp.Parts[1].Part)
	assert.Equal(t, model.Tenor, comp.Parts[2].Part)
	assert.Equal(t, model.Bass, comp.Parts[3].Part)

	soprano, ok := comp.PartFor(model.Soprano)
	require.True(t, ok)
	present, absent, pending := soprano.Counts()
	assert.Equal(t, 1, present)
	assert.Equal(t, 1, absent)
	assert.Equal(t, 0, pending)
	assert.Equal(t, "travelling", soprano.Absent[0].Reason)

	alto, _ := comp.PartFor(model.Alto)
	require.Len(t, alto.Absent, 1)
	assert.Equal(t, NoReasonPlaceholder, alto.Absent[0].Reason)

	tenor, _ := comp.PartFor(model.Tenor)
	assert.Len(t, tenor.Pending, 1)

	// Pending member Eko is not active, so the bass bucket is empty
	bass, _ := comp.PartFor(model.Bass)
	present, absent, pending = bass.Counts()
	assert.Zero(t, present+absent+pending)

	assert.Equal(t, 2, comp.TotalPresent())
	assert.Equal(t, 2, comp.TotalAbsent())
}

// Every active user lands in exactly one bucket of their part.
func TestEventComposition_PartitionIsExact(t *testing.T) {
	l := choirLedger()

	comp, found := EventComposition(l, "e2")
	require.True(t, found)

	seen := map[string]int{}
	for _, part := range comp.Parts {
		for _, m := range part.Present {
			seen[m.ID]++
		}
		for _, m := range part.Absent {
			seen[m.ID]++
		}
		for _, m := range part.Pending {
			seen[m.ID]++
		}
	}

	active := l.ActiveUsers()
	assert.Len(t, seen, len(active))
	for _, u := range active {
		assert.Equal(t, 1, seen[u.ID], "user %s should appear exactly once", u.ID)
	}
}

func TestEventComposition_UnknownEvent(t *testing.T) {
	l := choirLedger()

	_, found := EventComposition(l, "missing")
	assert.False(t, found)
}

func TestMemberHistory(t *testing.T) {
	l := choirLedger()

	h, err := MemberHistory(l, "s1", january)
	require.NoError(t, err)

	require.Len(t, h.Entries, 2)
	assert.Equal(t, "e1", h.Entries[0].Event.ID)
	assert.Equal(t, Absent, h.Entries[0].Classification.State)
	assert.Equal(t, "e2", h.Entries[1].Event.ID)
	assert.Equal(t, Present, h.Entries[1].Classification.State)

	assert.Equal(t, 1, h.Present)
	assert.Equal(t, 2, h.Total)
	assert.Equal(t, 50, h.Percentage)
}

func TestMemberHistory_Empty(t *testing.T) {
	l := choirLedger()

	december := model.Interval{
		Start: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	h, err := MemberHistory(l, "s1", december)
	require.NoError(t, err)
	assert.Empty(t, h.Entries)
	assert.Zero(t, h.Total)
	assert.Zero(t, h.Percentage)
}
