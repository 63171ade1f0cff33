package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// CreateSession stores s and fills s.ID.
func (q *Queries) CreateSession(ctx context.Context, s *models.Session) error {
	id, err := q.insertID(ctx, "INSERT INTO sessions (user_id, uuid, expires) VALUES (?, ?, ?)",
		s.UserID, s.UUID, s.Expires.UTC())
	if err != nil {
		return fmt.Errorf("database: create session: %w", err)
	}
	s.ID = id
	return nil
}

// DeleteUserSessions drops every session of a user; login keeps one
// session per user.
func (q *Queries) DeleteUserSessions(ctx context.Context, userID int64) error {
	if _, err := q.exec(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("database: delete old sessions: %w", err)
	}
	return nil
}

func (q *Queries) SessionByUUID(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := q.queryRow(ctx, "SELECT id, user_id, uuid, expires FROM sessions WHERE uuid = ?", token).
		Scan(&s.ID, &s.UserID, &s.UUID, &s.Expires)
	if err != nil {
		return nil, notFound(err)
	}
	s.Expires = s.Expires.UTC()
	return &s, nil
}

// DeleteSession reports false when no session had that token.
func (q *Queries) DeleteSession(ctx context.Context, token string) (bool, error) {
	ok, err := q.affected(ctx, "DELETE FROM sessions WHERE uuid = ?", token)
	if err != nil {
		return false, fmt.Errorf("database: delete session: %w", err)
	}
	return ok, nil
}

// DeleteExpiredSessions removes sessions that expired before now and
// returns how many were removed.
func (q *Queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.exec(ctx, "DELETE FROM sessions WHERE expires < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("database: delete expired sessions: %w", err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("database: rows affected: %w", err)
	}
	return n, nil
}
