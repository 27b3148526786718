package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// ErrEventNotFound is returned when an event id does not resolve.
var ErrEventNotFound = errors.New("event not found")

// EventInput carries the admin-editable event fields.
type EventInput struct {
	Title       string
	Date        time.Time
	Location    string
	Description string
	Category    model.Category
	IsImportant bool
}

func (in EventInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if in.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	switch in.Category {
	case model.CategoryRehearsal, model.CategoryService, model.CategoryOther:
	default:
		return fmt.Errorf("unknown category %q", in.Category)
	}
	return nil
}

// CreateEvent adds a single event to the schedule (admin only).
func CreateEvent(ctx context.Context, store db.EventStore, logger *zap.Logger, actor model.User, in EventInput) (model.Event, error) {
	if actor.Role != model.RoleAdmin {
		return model.Event{}, ErrNotPermitted
	}
	if err := in.validate(); err != nil {
		return model.Event{}, err
	}

	record := &db.EventRecord{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Date:        in.Date,
		Location:    in.Location,
		Description: in.Description,
		Category:    string(in.Category),
		IsImportant: in.IsImportant,
	}
	if err := store.InsertEvent(ctx, record); err != nil {
		return model.Event{}, fmt.Errorf("failed to insert event: %w", err)
	}

	logger.Info("Event created",
		zap.String("id", record.ID),
		zap.String("category", record.Category),
		zap.Time("date", record.Date))

	return record.ToEvent()
}

// UpdateEvent applies an admin edit to an event.
func UpdateEvent(ctx context.Context, store db.EventStore, logger *zap.Logger, actor model.User, eventID string, in EventInput) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	if err := in.validate(); err != nil {
		return err
	}
	existing, err := store.GetEventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to look up event: %w", err)
	}
	if existing == nil {
		return ErrEventNotFound
	}

	record := &db.EventRecord{
		ID:          eventID,
		Title:       strings.TrimSpace(in.Title),
		Date:        in.Date,
		Location:    in.Location,
		Description: in.Description,
		Category:    string(in.Category),
		IsImportant: in.IsImportant,
	}
	if err := store.UpdateEvent(ctx, record); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	logger.Info("Event updated", zap.String("id", eventID))
	return nil
}

// DeleteEvent removes an event and its attendance rows (admin only).
func DeleteEvent(ctx context.Context, store db.EventStore, logger *zap.Logger, actor model.User, eventID string) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	if err := store.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	logger.Info("Event deleted", zap.String("id", eventID))
	return nil
}

// RecurringEventInput describes a recurrence rule to expand into events,
// e.g. a weekly rehearsal "FREQ=WEEKLY;BYDAY=TU" until the end of a season.
type RecurringEventInput struct {
	EventInput
	RRule string
	Until time.Time
}

// GenerateRecurringEvents expands the recurrence rule into concrete events
// from the input date up to Until (inclusive) and inserts them as a batch.
// It returns the generated events in date order.
func GenerateRecurringEvents(ctx context.Context, store db.EventStore, logger *zap.Logger, actor model.User, in RecurringEventInput) ([]model.Event, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrNotPermitted
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !in.Until.After(in.Date) {
		return nil, fmt.Errorf("until must be after the first date")
	}

	rule, err := rrule.StrToRRule(in.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", in.RRule, err)
	}
	rule.DTStart(in.Date)

	occurrences := rule.Between(in.Date, in.Until, true)
	if len(occurrences) == 0 {
		return nil, fmt.Errorf("rrule %q yields no occurrences before %s", in.RRule, in.Until.Format("2006-01-02"))
	}

	var records []db.EventRecord
	for _, when := range occurrences {
		records = append(records, db.EventRecord{
			ID:          uuid.New().String(),
			Title:       strings.TrimSpace(in.Title),
			Date:        when,
			Location:    in.Location,
			Description: in.Description,
			Category:    string(in.Category),
			IsImportant: in.IsImportant,
		})
	}
	if err := store.InsertEvents(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to insert events: %w", err)
	}

	logger.Info("Recurring events generated",
		zap.String("rrule", in.RRule),
		zap.Int("count", len(records)))

	events := make([]model.Event, 0, len(records))
	for _, rec := range records {
		event, err := rec.ToEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
