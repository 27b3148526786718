package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// GetUsers retrieves all membership records ordered by name
func (d *DB) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, phone, role, voice_part, status, password_hash
		FROM users
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []db.UserRecord
	for rows.Next() {
		var u db.UserRecord
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.VoicePart, &u.Status, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetUserByID retrieves a single membership record, nil when absent
func (d *DB) GetUserByID(ctx context.Context, id string) (*db.UserRecord, error) {
	return d.getUser(ctx, `
		SELECT id, name, email, phone, role, voice_part, status, password_hash
		FROM users WHERE id = $1
	`, id)
}

// GetUserByEmail retrieves a single membership record by email, nil when absent
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*db.UserRecord, error) {
	return d.getUser(ctx, `
		SELECT id, name, email, phone, role, voice_part, status, password_hash
		FROM users WHERE email = $1
	`, email)
}

func (d *DB) getUser(ctx context.Context, query string, arg any) (*db.UserRecord, error) {
	var u db.UserRecord
	err := d.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.VoicePart, &u.Status, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// InsertUser inserts a new membership record
func (d *DB) InsertUser(ctx context.Context, user *db.UserRecord) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, role, voice_part, status, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Name, user.Email, user.Phone, user.Role, user.VoicePart, user.Status, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUser updates the editable membership fields
func (d *DB) UpdateUser(ctx context.Context, user *db.UserRecord) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE users
		SET name = $2, email = $3, phone = $4, role = $5, voice_part = $6, status = $7
		WHERE id = $1
	`, user.ID, user.Name, user.Email, user.Phone, user.Role, user.VoicePart, user.Status)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateUserStatus sets only the approval status
func (d *DB) UpdateUserStatus(ctx context.Context, id, status string) error {
	_, err := d.pool.Exec(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces a user's stored password hash
func (d *DB) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	_, err := d.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}

// DeleteUser hard-deletes a membership record
func (d *DB) DeleteUser(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
