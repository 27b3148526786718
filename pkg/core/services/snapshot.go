package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// SnapshotStore is the read surface needed to assemble a snapshot.
type SnapshotStore interface {
	GetUsers(ctx context.Context) ([]db.UserRecord, error)
	GetEvents(ctx context.Context) ([]db.EventRecord, error)
	GetAttendance(ctx context.Context) ([]db.AttendanceRecord, error)
	GetAnnouncements(ctx context.Context) ([]db.AnnouncementRecord, error)
}

// LoadSnapshot assembles a fresh, internally consistent snapshot from the
// store. Rows that fail the strict row-to-model mapping are skipped with a
// warning rather than failing the whole load; they reflect external edits,
// not programming errors. Announcement author names are resolved here.
func LoadSnapshot(ctx context.Context, store SnapshotStore, logger *zap.Logger) (model.Snapshot, error) {
	var snapshot model.Snapshot

	userRecords, err := store.GetUsers(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load users: %w", err)
	}
	namesByID := make(map[string]string, len(userRecords))
	for _, rec := range userRecords {
		user, err := rec.ToUser()
		if err != nil {
			logger.Warn("Skipping unmappable user row", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		snapshot.Users = append(snapshot.Users, user)
		namesByID[user.ID] = user.Name
	}

	eventRecords, err := store.GetEvents(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load events: %w", err)
	}
	for _, rec := range eventRecords {
		event, err := rec.ToEvent()
		if err != nil {
			logger.Warn("Skipping unmappable event row", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		snapshot.Events = append(snapshot.Events, event)
	}

	attendanceRecords, err := store.GetAttendance(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	for _, rec := range attendanceRecords {
		record, err := rec.ToAttendance()
		if err != nil {
			logger.Warn("Skipping unmappable attendance row",
				zap.String("user_id", rec.UserID), zap.String("event_id", rec.EventID), zap.Error(err))
			continue
		}
		snapshot.Attendance = append(snapshot.Attendance, record)
	}

	announcementRecords, err := store.GetAnnouncements(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load announcements: %w", err)
	}
	for _, rec := range announcementRecords {
		author, ok := namesByID[rec.AuthorID]
		if !ok {
			author = "Admin"
		}
		snapshot.Announcements = append(snapshot.Announcements, rec.ToAnnouncement(author))
	}

	logger.Debug("Snapshot loaded",
		zap.Int("users", len(snapshot.Users)),
		zap.Int("events", len(snapshot.Events)),
		zap.Int("attendance", len(snapshot.Attendance)),
		zap.Int("announcements", len(snapshot.Announcements)))

	return snapshot, nil
}
