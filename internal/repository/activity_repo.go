package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"medclinic/internal/models"

	"github.com/google/uuid"
)

type ActivitySQLite struct {
	db *sql.DB
}

func NewActivitySQLite(db *sql.DB) *ActivitySQLite { return &ActivitySQLite{db: db} }

var _ Activities = (*ActivitySQLite)(nil)

const (
	insertActivitySQL = `
		INSERT INTO user_activities (id, user_id, action, ip_address, user_agent, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectActivitiesSQL = `
		SELECT id, user_id, action, ip_address, user_agent, metadata, created_at
		FROM user_activities WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
)

// Append inserts a new activity row. If ID or CreatedAt are empty, they're set.
func (r *ActivitySQLite) Append(ctx context.Context, a models.UserActivity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	} else {
		a.CreatedAt = a.CreatedAt.UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if a.Metadata != nil {
		if b, err := json.Marshal(a.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		a.ID, a.UserID, a.Action, a.IPAddress, a.UserAgent, metaPtr, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity %s for user %d: %w", a.Action, a.UserID, err)
	}
	return nil
}

// ListRecent returns the user's newest activities, capped at limit.
func (r *ActivitySQLite) ListRecent(ctx context.Context, userID, limit int) ([]models.UserActivity, error) {
	rows, err := r.db.QueryContext(ctx, selectActivitiesSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.UserActivity, 0, limit)
	for rows.Next() {
		var (
			a       models.UserActivity
			ip, ua  sql.NullString
			metaStr sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &ip, &ua, &metaStr, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.IPAddress = ip.String
		a.UserAgent = ua.String
		a.CreatedAt = a.CreatedAt.UTC()
		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				a.Metadata = v
			} else {
				a.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
