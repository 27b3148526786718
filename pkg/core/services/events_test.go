package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

func rehearsalInput() EventInput {
	return EventInput{
		Title:    "Weekly Rehearsal",
		Date:     time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC),
		Location: "Main Hall",
		Category: model.CategoryRehearsal,
	}
}

func TestCreateEvent(t *testing.T) {
	mock := &mockStore{}

	event, err := CreateEvent(context.Background(), mock, zap.NewNop(), admin(), rehearsalInput())
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Weekly Rehearsal", event.Title)
	assert.Equal(t, model.CategoryRehearsal, event.Category)
	require.Len(t, mock.insertedEvents, 1)
}

func TestCreateEvent_RequiresAdmin(t *testing.T) {
	mock := &mockStore{}

	_, err := CreateEvent(context.Background(), mock, zap.NewNop(), member(), rehearsalInput())
	assert.ErrorIs(t, err, ErrNotPermitted)
	assert.Empty(t, mock.insertedEvents)
}

func TestCreateEvent_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mut   func(*EventInput)
	}{
		{"missing title", func(in *EventInput) { in.Title = "  " }},
		{"missing date", func(in *EventInput) { in.Date = time.Time{} }},
		{"unknown category", func(in *EventInput) { in.Category = "Party" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := rehearsalInput()
			tt.mut(&in)
			_, err := CreateEvent(ctx, &mockStore{}, zap.NewNop(), admin(), in)
			assert.Error(t, err)
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	mock := &mockStore{
		events: []db.EventRecord{
			{ID: "e1", Title: "Old Title", Date: time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC), Category: "Rehearsal"},
		},
	}

	in := rehearsalInput()
	in.Title = "New Title"
	err := UpdateEvent(context.Background(), mock, zap.NewNop(), admin(), "e1", in)
	require.NoError(t, err)

	require.Len(t, mock.updatedEvents, 1)
	assert.Equal(t, "New Title", mock.updatedEvents[0].Title)
}

func TestUpdateEvent_NotFound(t *testing.T) {
	mock := &mockStore{}

	err := UpdateEvent(context.Background(), mock, zap.NewNop(), admin(), "missing", rehearsalInput())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEvent(t *testing.T) {
	mock := &mockStore{}

	err := DeleteEvent(context.Background(), mock, zap.NewNop(), admin(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, mock.deletedEvents)

	err = DeleteEvent(context.Background(), mock, zap.NewNop(), member(), "e1")
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestGenerateRecurringEvents_Weekly(t *testing.T) {
	mock := &mockStore{}

	start := time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC) // Tuesday
	until := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	events, err := GenerateRecurringEvents(context.Background(), mock, zap.NewNop(), admin(), RecurringEventInput{
		EventInput: EventInput{
			Title:    "Weekly Rehearsal",
			Date:     start,
			Location: "Main Hall",
			Category: model.CategoryRehearsal,
		},
		RRule: "FREQ=WEEKLY",
		Until: until,
	})
	require.NoError(t, err)

	// Tuesdays 6, 13, 20, 27 January
	require.Len(t, events, 4)
	for i, event := range events {
		assert.Equal(t, "Weekly Rehearsal", event.Title)
		assert.Equal(t, time.Tuesday, event.Date.Weekday())
		assert.Equal(t, start.AddDate(0, 0, 7*i), event.Date)
		assert.NotEmpty(t, event.ID)
	}

	// Inserted as one batch
	assert.Len(t, mock.insertedEvents, 4)
}

func TestGenerateRecurringEvents_InvalidInput(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC)

	base := RecurringEventInput{
		EventInput: EventInput{Title: "Rehearsal", Date: start, Category: model.CategoryRehearsal},
		RRule:      "FREQ=WEEKLY",
		Until:      start.AddDate(0, 1, 0),
	}

	t.Run("until before start", func(t *testing.T) {
		in := base
		in.Until = start.AddDate(0, 0, -1)
		_, err := GenerateRecurringEvents(ctx, &mockStore{}, zap.NewNop(), admin(), in)
		assert.Error(t, err)
	})

	t.Run("bad rrule", func(t *testing.T) {
		in := base
		in.RRule = "FREQ=SOMETIMES"
		_, err := GenerateRecurringEvents(ctx, &mockStore{}, zap.NewNop(), admin(), in)
		assert.Error(t, err)
	})

	t.Run("not admin", func(t *testing.T) {
		_, err := GenerateRecurringEvents(ctx, &mockStore{}, zap.NewNop(), member(), base)
		assert.ErrorIs(t, err, ErrNotPermitted)
	})
}
