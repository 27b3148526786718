package postgres

import (
	"context"
	"fmt"

	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// GetAnnouncements retrieves all announcements, newest first
func (d *DB) GetAnnouncements(ctx context.Context) ([]db.AnnouncementRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, title, content, author_id, timestamp
		FROM announcements
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	var announcements []db.AnnouncementRecord
	for rows.Next() {
		var a db.AnnouncementRecord
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcements: %w", err)
	}

	return announcements, nil
}

// InsertAnnouncement inserts a new announcement
func (d *DB) InsertAnnouncement(ctx context.Context, a *db.AnnouncementRecord) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO announcements (id, title, content, author_id, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Title, a.Content, a.AuthorID, a.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert announcement: %w", err)
	}
	return nil
}

// UpdateAnnouncement updates an announcement's title and content
func (d *DB) UpdateAnnouncement(ctx context.Context, a *db.AnnouncementRecord) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE announcements SET title = $2, content = $3 WHERE id = $1
	`, a.ID, a.Title, a.Content)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	return nil
}

// DeleteAnnouncement deletes an announcement
func (d *DB) DeleteAnnouncement(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}
