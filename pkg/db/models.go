package db

import (
	"fmt"
	"time"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

// UserRecord is a stored membership row.
type UserRecord struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	VoicePart    string
	Status       string
	PasswordHash string
}

// EventRecord is a stored event row.
type EventRecord struct {
	ID          string
	Title       string
	Date        time.Time
	Location    string
	Description string
	Category    string
	IsImportant bool
}

// AttendanceRecord is a stored attendance row, unique per (UserID, EventID).
type AttendanceRecord struct {
	UserID    string
	EventID   string
	Status    string
	Reason    string
	Timestamp time.Time
}

// AnnouncementRecord is a stored announcement row. AuthorID references a user;
// the display name is resolved when a snapshot is assembled.
type AnnouncementRecord struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	Timestamp time.Time
}

// The mapping functions below are the single, total correspondence between
// stored rows and domain values. Unexpected enum values are rejected rather
// than passed through.

// ToUser maps id->ID, name->Name, email->Email, phone->Phone, role->Role,
// voice_part->VoicePart, status->Status. The password hash never leaves the
// storage layer.
func (r UserRecord) ToUser() (model.User, error) {
	role, err := parseRole(r.Role)
	if err != nil {
		return model.User{}, fmt.Errorf("user %s: %w", r.ID, err)
	}
	part, err := parseVoicePart(r.VoicePart)
	if err != nil {
		return model.User{}, fmt.Errorf("user %s: %w", r.ID, err)
	}
	status, err := parseStatus(r.Status)
	if err != nil {
		return model.User{}, fmt.Errorf("user %s: %w", r.ID, err)
	}
	return model.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Role:      role,
		VoicePart: part,
		Status:    status,
	}, nil
}

// ToEvent maps id->ID, title->Title, date->Date, location->Location,
// description->Description, category->Category, is_important->IsImportant.
func (r EventRecord) ToEvent() (model.Event, error) {
	category, err := parseCategory(r.Category)
	if err != nil {
		return model.Event{}, fmt.Errorf("event %s: %w", r.ID, err)
	}
	return model.Event{
		ID:          r.ID,
		Title:       r.Title,
		Date:        r.Date,
		Location:    r.Location,
		Description: r.Description,
		Category:    category,
		IsImportant: r.IsImportant,
	}, nil
}

// ToAttendance maps user_id->UserID, event_id->EventID, status->Status,
// reason->Reason, timestamp->Timestamp.
func (r AttendanceRecord) ToAttendance() (model.AttendanceRecord, error) {
	if r.Status != string(model.AttendancePresent) && r.Status != string(model.AttendanceAbsent) {
		return model.AttendanceRecord{}, fmt.Errorf("attendance (%s,%s): unknown status %q", r.UserID, r.EventID, r.Status)
	}
	return model.AttendanceRecord{
		UserID:    r.UserID,
		EventID:   r.EventID,
		Status:    model.AttendanceStatus(r.Status),
		Reason:    r.Reason,
		Timestamp: r.Timestamp,
	}, nil
}

// ToAnnouncement maps id->ID, title->Title, content->Content,
// timestamp->Timestamp; Author is filled by the caller from AuthorID.
func (r AnnouncementRecord) ToAnnouncement(authorName string) model.Announcement {
	return model.Announcement{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Author:    authorName,
		Timestamp: r.Timestamp,
	}
}

func parseRole(s string) (model.Role, error) {
	switch model.Role(s) {
	case model.RoleMember, model.RoleAdmin, model.RoleCoordinator:
		return model.Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func parseVoicePart(s string) (model.VoicePart, error) {
	switch model.VoicePart(s) {
	case model.Soprano, model.Alto, model.Tenor, model.Bass:
		return model.VoicePart(s), nil
	}
	return "", fmt.Errorf("unknown voice part %q", s)
}

func parseStatus(s string) (model.Status, error) {
	switch model.Status(s) {
	case model.StatusActive, model.StatusPending, model.StatusRejected:
		return model.Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func parseCategory(s string) (model.Category, error) {
	switch model.Category(s) {
	case model.CategoryRehearsal, model.CategoryService, model.CategoryOther:
		return model.Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}
