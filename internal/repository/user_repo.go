package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medclinic/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL = `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectUserSQL = `
		SELECT id, username, email, password_hash, first_name, last_name, phone, role, email_verified, created_at
		FROM users`
	updateUserProfileSQL  = `UPDATE users SET first_name = ?, last_name = ?, phone = ? WHERE id = ?`
	updateUserPasswordSQL = `UPDATE users SET password_hash = ? WHERE id = ?`
	markEmailVerifiedSQL  = `UPDATE users SET email_verified = 1 WHERE id = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserSQLite) Create(ctx context.Context, u models.User) (int, error) {
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	} else {
		created = created.UTC()
	}
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role, created)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUserSQL+` WHERE username = ?`, username)
}

// GetByEmail fetches a user by email (case-insensitive). Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUserSQL+` WHERE email = ? COLLATE NOCASE`, email)
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, selectUserSQL+` WHERE id = ?`, id)
}

func (r *UserSQLite) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u                   models.User
		firstName, lastName sql.NullString
		phone               sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&firstName, &lastName, &phone, &u.Role, &u.EmailVerified, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user by %v: %w", arg, err)
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.Phone = phone.String
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// UpdateProfile updates the mutable profile fields (name, phone).
func (r *UserSQLite) UpdateProfile(ctx context.Context, u models.User) error {
	if _, err := r.db.ExecContext(ctx, updateUserProfileSQL, u.FirstName, u.LastName, u.Phone, u.ID); err != nil {
		return fmt.Errorf("update profile for user %d: %w", u.ID, err)
	}
	return nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserSQLite) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx, updateUserPasswordSQL, passwordHash, id); err != nil {
		return fmt.Errorf("update password for user %d: %w", id, err)
	}
	return nil
}

// MarkEmailVerified flags the user's email address as confirmed.
func (r *UserSQLite) MarkEmailVerified(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, markEmailVerifiedSQL, id); err != nil {
		return fmt.Errorf("mark email verified for user %d: %w", id, err)
	}
	return nil
}
