package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// ErrReasonRequired is returned when an absence is submitted without a
// usable reason. The minimum length is enforced here at the boundary; the
// aggregation engine tolerates missing reasons on read.
var ErrReasonRequired = errors.New("absence reason must be at least 3 characters")

const minReasonLength = 3

// AttendanceStore combines the ledger writes with the lookups needed to
// validate and scope them.
type AttendanceStore interface {
	db.AttendanceStore
	GetEventByID(ctx context.Context, id string) (*db.EventRecord, error)
	GetUserByID(ctx context.Context, id string) (*db.UserRecord, error)
}

// SubmitAttendance records the actor's own response for an event. A
// resubmission overwrites the previous one.
func SubmitAttendance(ctx context.Context, store AttendanceStore, logger *zap.Logger, actor model.User, eventID string, status model.AttendanceStatus, reason string) error {
	return writeAttendance(ctx, store, logger, actor.ID, eventID, status, reason)
}

// OverrideAttendance records a response on another member's behalf.
// Admins may act on any member; coordinators only on members of their own
// voice part.
func OverrideAttendance(ctx context.Context, store AttendanceStore, logger *zap.Logger, actor model.User, userID, eventID string, status model.AttendanceStatus, reason string) error {
	if err := checkManageScope(ctx, store, actor, userID); err != nil {
		return err
	}
	return writeAttendance(ctx, store, logger, userID, eventID, status, reason)
}

// RemoveAttendance deletes the response for (user, event), reverting the pair
// to the derived pending state. Scoped like OverrideAttendance.
func RemoveAttendance(ctx context.Context, store AttendanceStore, logger *zap.Logger, actor model.User, userID, eventID string) error {
	if err := checkManageScope(ctx, store, actor, userID); err != nil {
		return err
	}
	if err := store.DeleteAttendance(ctx, userID, eventID); err != nil {
		return fmt.Errorf("failed to remove attendance: %w", err)
	}
	logger.Info("Attendance removed",
		zap.String("user_id", userID),
		zap.String("event_id", eventID),
		zap.String("actor_id", actor.ID))
	return nil
}

func checkManageScope(ctx context.Context, store AttendanceStore, actor model.User, userID string) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleCoordinator:
		target, err := store.GetUserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if target == nil {
			return ErrUserNotFound
		}
		if target.VoicePart != string(actor.VoicePart) {
			return ErrNotPermitted
		}
		return nil
	default:
		return ErrNotPermitted
	}
}

func writeAttendance(ctx context.Context, store AttendanceStore, logger *zap.Logger, userID, eventID string, status model.AttendanceStatus, reason string) error {
	event, err := store.GetEventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to look up event: %w", err)
	}
	if event == nil {
		return ErrEventNotFound
	}

	switch status {
	case model.AttendancePresent:
		reason = ""
	case model.AttendanceAbsent:
		if len(strings.TrimSpace(reason)) < minReasonLength {
			return ErrReasonRequired
		}
	default:
		return fmt.Errorf("unknown attendance status %q", status)
	}

	record := &db.AttendanceRecord{
		UserID:    userID,
		EventID:   eventID,
		Status:    string(status),
		Reason:    strings.TrimSpace(reason),
		Timestamp: time.Now().UTC(),
	}
	if err := store.UpsertAttendance(ctx, record); err != nil {
		return fmt.Errorf("failed to record attendance: %w", err)
	}

	logger.Info("Attendance recorded",
		zap.String("user_id", userID),
		zap.String("event_id", eventID),
		zap.String("status", string(status)))
	return nil
}
