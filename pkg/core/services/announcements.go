package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// PostAnnouncement publishes a broadcast message (admin only). The stored row
// references the author by id; the display name is resolved at read time.
func PostAnnouncement(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, author model.User, title, content string) (model.Announcement, error) {
	if author.Role != model.RoleAdmin {
		return model.Announcement{}, ErrNotPermitted
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return model.Announcement{}, fmt.Errorf("title and content are required")
	}

	record := &db.AnnouncementRecord{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		AuthorID:  author.ID,
		Timestamp: time.Now().UTC(),
	}
	if err := store.InsertAnnouncement(ctx, record); err != nil {
		return model.Announcement{}, fmt.Errorf("failed to insert announcement: %w", err)
	}

	logger.Info("Announcement posted", zap.String("id", record.ID))
	return record.ToAnnouncement(author.Name), nil
}

// EditAnnouncement updates an announcement's title and content (admin only).
func EditAnnouncement(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, actor model.User, id, title, content string) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return fmt.Errorf("title and content are required")
	}
	record := &db.AnnouncementRecord{
		ID:      id,
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
	if err := store.UpdateAnnouncement(ctx, record); err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	logger.Info("Announcement updated", zap.String("id", id))
	return nil
}

// DeleteAnnouncement removes an announcement (admin only).
func DeleteAnnouncement(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, actor model.User, id string) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	if err := store.DeleteAnnouncement(ctx, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	logger.Info("Announcement deleted", zap.String("id", id))
	return nil
}
