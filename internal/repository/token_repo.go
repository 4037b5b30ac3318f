package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medclinic/internal/models"
)

type TokenSQLite struct {
	db *sql.DB
}

func NewTokenSQLite(db *sql.DB) *TokenSQLite { return &TokenSQLite{db: db} }

var _ Tokens = (*TokenSQLite)(nil)

const (
	insertTokenSQL = `
		INSERT INTO verification_tokens (token, user_id, type, expires_at, used)
		VALUES (?, ?, ?, ?, ?)`
	selectTokenSQL = `
		SELECT token, user_id, type, expires_at, used
		FROM verification_tokens WHERE token = ? AND type = ?`
	markTokenUsedSQL = `UPDATE verification_tokens SET used = 1 WHERE token = ?`
)

// Create stores a new verification token.
func (r *TokenSQLite) Create(ctx context.Context, t models.VerificationToken) error {
	_, err := r.db.ExecContext(ctx, insertTokenSQL,
		t.Token, t.UserID, t.Type, t.ExpiresAt.UTC(), t.Used)
	if err != nil {
		return fmt.Errorf("insert %s token for user %d: %w", t.Type, t.UserID, err)
	}
	return nil
}

// Get fetches a token of the given type. Returns (nil, nil) if not found.
func (r *TokenSQLite) Get(ctx context.Context, token, tokenType string) (*models.VerificationToken, error) {
	var t models.VerificationToken
	err := r.db.QueryRowContext(ctx, selectTokenSQL, token, tokenType).
		Scan(&t.Token, &t.UserID, &t.Type, &t.ExpiresAt, &t.Used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select %s token: %w", tokenType, err)
	}
	t.ExpiresAt = t.ExpiresAt.UTC()
	return &t, nil
}

// MarkUsed flags a token so it cannot be replayed.
func (r *TokenSQLite) MarkUsed(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, markTokenUsedSQL, token); err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	return nil
}
