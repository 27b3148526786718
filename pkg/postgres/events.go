package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// GetEvents retrieves all event records ordered ascending by date
func (d *DB) GetEvents(ctx context.Context) ([]db.EventRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, title, date, location, description, category, is_important
		FROM events
		ORDER BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []db.EventRecord
	for rows.Next() {
		var e db.EventRecord
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Location, &e.Description, &e.Category, &e.IsImportant); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetEventByID retrieves a single event record, nil when absent
func (d *DB) GetEventByID(ctx context.Context, id string) (*db.EventRecord, error) {
	var e db.EventRecord
	err := d.pool.QueryRow(ctx, `
		SELECT id, title, date, location, description, category, is_important
		FROM events WHERE id = $1
	`, id).Scan(&e.ID, &e.Title, &e.Date, &e.Location, &e.Description, &e.Category, &e.IsImportant)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return &e, nil
}

// InsertEvent inserts a new event record
func (d *DB) InsertEvent(ctx context.Context, event *db.EventRecord) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO events (id, title, date, location, description, category, is_important)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.ID, event.Title, event.Date, event.Location, event.Description, event.Category, event.IsImportant)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// InsertEvents inserts multiple event records in a single transaction
func (d *DB) InsertEvents(ctx context.Context, events []db.EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		_, err := tx.Exec(ctx, `
			INSERT INTO events (id, title, date, location, description, category, is_important)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, e.ID, e.Title, e.Date, e.Location, e.Description, e.Category, e.IsImportant)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateEvent updates all editable event fields
func (d *DB) UpdateEvent(ctx context.Context, event *db.EventRecord) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE events
		SET title = $2, date = $3, location = $4, description = $5, category = $6, is_important = $7
		WHERE id = $1
	`, event.ID, event.Title, event.Date, event.Location, event.Description, event.Category, event.IsImportant)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// DeleteEvent deletes an event and its attendance rows
func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM attendance WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete event attendance: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
