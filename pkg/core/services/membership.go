package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// Service-level sentinel errors surfaced to handlers and the CLI.
var (
	ErrEmailTaken    = errors.New("email is already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotPermitted  = errors.New("not permitted for this role")
	ErrBadCredential = errors.New("invalid email or password")
	ErrNotApproved   = errors.New("account is awaiting admin approval")
	ErrRejected      = errors.New("account was not approved for access")
)

// DefaultPassword is assigned on admin-initiated password resets.
const DefaultPassword = "123456"

// NewMemberInput carries the fields for registration and admin creation.
type NewMemberInput struct {
	Name      string
	Email     string
	Phone     string
	Password  string
	Role      model.Role
	VoicePart model.VoicePart
}

func (in NewMemberInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("email %q is not valid", in.Email)
	}
	switch in.VoicePart {
	case model.Soprano, model.Alto, model.Tenor, model.Bass:
	default:
		return fmt.Errorf("unknown voice part %q", in.VoicePart)
	}
	return nil
}

// RegisterMember handles self-service signup. The account starts in the
// pending state and cannot log in until an admin approves it.
func RegisterMember(ctx context.Context, store db.UserStore, logger *zap.Logger, in NewMemberInput) (model.User, error) {
	in.Role = model.RoleMember
	return createMember(ctx, store, logger, in, model.StatusPending)
}

// CreateMember handles admin-initiated creation; the account is active
// immediately and may carry any role.
func CreateMember(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, in NewMemberInput) (model.User, error) {
	if actor.Role != model.RoleAdmin {
		return model.User{}, ErrNotPermitted
	}
	if in.Role == "" {
		in.Role = model.RoleMember
	}
	return createMember(ctx, store, logger, in, model.StatusActive)
}

func createMember(ctx context.Context, store db.UserStore, logger *zap.Logger, in NewMemberInput, status model.Status) (model.User, error) {
	if err := in.validate(); err != nil {
		return model.User{}, err
	}

	existing, err := store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return model.User{}, ErrEmailTaken
	}

	password := in.Password
	if password == "" {
		password = DefaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	record := &db.UserRecord{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         string(in.Role),
		VoicePart:    string(in.VoicePart),
		Status:       string(status),
		PasswordHash: string(hash),
	}
	if err := store.InsertUser(ctx, record); err != nil {
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	logger.Info("Member created",
		zap.String("id", record.ID),
		zap.String("voice_part", record.VoicePart),
		zap.String("status", record.Status))

	user, err := record.ToUser()
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// ApproveMember transitions a pending account to active.
func ApproveMember(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, userID string) error {
	return setStatus(ctx, store, logger, actor, userID, model.StatusActive)
}

// RejectMember marks a pending account as rejected. The row is kept; a soft
// status transition is preferred over deletion.
func RejectMember(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, userID string) error {
	return setStatus(ctx, store, logger, actor, userID, model.StatusRejected)
}

func setStatus(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, userID string, status model.Status) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	existing, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if existing == nil {
		return ErrUserNotFound
	}
	if err := store.UpdateUserStatus(ctx, userID, string(status)); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	logger.Info("Member status changed", zap.String("id", userID), zap.String("status", string(status)))
	return nil
}

// UpdateMemberInput carries the admin-editable profile fields.
type UpdateMemberInput struct {
	Name      string
	Email     string
	Phone     string
	Role      model.Role
	VoicePart model.VoicePart
	Status    model.Status
}

// UpdateMember applies an admin edit to a member's profile.
func UpdateMember(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, userID string, in UpdateMemberInput) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	existing, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if existing == nil {
		return ErrUserNotFound
	}

	record := &db.UserRecord{
		ID:        userID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      string(in.Role),
		VoicePart: string(in.VoicePart),
		Status:    string(in.Status),
	}
	if _, err := record.ToUser(); err != nil {
		return err
	}
	if err := store.UpdateUser(ctx, record); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	logger.Info("Member updated", zap.String("id", userID))
	return nil
}

// RemoveMember hard-deletes a membership record (admin action).
func RemoveMember(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, userID string) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	if err := store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	logger.Info("Member removed", zap.String("id", userID))
	return nil
}

// ResetPassword restores a member's password to the default.
func ResetPassword(ctx context.Context, store db.UserStore, logger *zap.Logger, actor model.User, userID string) error {
	if actor.Role != model.RoleAdmin {
		return ErrNotPermitted
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := store.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	logger.Info("Password reset", zap.String("id", userID))
	return nil
}

// Authenticate verifies email/password and enforces the approval gate:
// non-admin accounts that are pending or rejected are refused.
func Authenticate(ctx context.Context, store db.UserStore, logger *zap.Logger, email, password string) (model.User, error) {
	record, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if record == nil {
		return model.User{}, ErrBadCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return model.User{}, ErrBadCredential
	}

	user, err := record.ToUser()
	if err != nil {
		return model.User{}, err
	}
	if user.Role != model.RoleAdmin {
		switch user.Status {
		case model.StatusPending:
			return model.User{}, ErrNotApproved
		case model.StatusRejected:
			return model.User{}, ErrRejected
		}
	}

	logger.Info("Login", zap.String("id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}
