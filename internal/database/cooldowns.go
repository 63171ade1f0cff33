package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ClaimCooldown records now as the last accepted comment time of key,
// but only if the previous one is at least cooldown old. It returns the
// previous time (zero if none) and whether the claim succeeded. Times are
// stored as unix nanoseconds.
func (q *Queries) ClaimCooldown(ctx context.Context, key string, now time.Time, cooldown time.Duration) (time.Time, bool, error) {
	prev, err := q.CooldownLast(ctx, key)
	if err != nil {
		return time.Time{}, false, err
	}
	ok, err := q.affected(ctx, `
		INSERT INTO comment_cooldowns (session_key, last_comment_at) VALUES (?, ?)
		ON CONFLICT (session_key) DO UPDATE SET last_comment_at = excluded.last_comment_at
		WHERE comment_cooldowns.last_comment_at <= ?`,
		key, now.UnixNano(), now.Add(-cooldown).UnixNano())
	if err != nil {
		return time.Time{}, false, fmt.Errorf("database: claim cooldown: %w", err)
	}
	if !ok {
		// Someone else may have claimed in between; report what is stored now.
		if cur, err := q.CooldownLast(ctx, key); err == nil && !cur.IsZero() {
			prev = cur
		}
	}
	return prev, ok, nil
}

// CooldownLast returns the last accepted comment time of key, or the zero
// time if none is recorded.
func (q *Queries) CooldownLast(ctx context.Context, key string) (time.Time, error) {
	var ns int64
	err := q.queryRow(ctx, "SELECT last_comment_at FROM comment_cooldowns WHERE session_key = ?", key).Scan(&ns)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("database: read cooldown: %w", err)
	}
	return time.Unix(0, ns).UTC(), nil
}

// RestoreCooldown puts back prev if the row still holds claimed, undoing a
// claim whose comment was never stored. A zero prev removes the row.
func (q *Queries) RestoreCooldown(ctx context.Context, key string, claimed, prev time.Time) error {
	var err error
	if prev.IsZero() {
		_, err = q.exec(ctx, "DELETE FROM comment_cooldowns WHERE session_key = ? AND last_comment_at = ?",
			key, claimed.UnixNano())
	} else {
		_, err = q.exec(ctx, "UPDATE comment_cooldowns SET last_comment_at = ? WHERE session_key = ? AND last_comment_at = ?",
			prev.UnixNano(), key, claimed.UnixNano())
	}
	if err != nil {
		return fmt.Errorf("database: restore cooldown: %w", err)
	}
	return nil
}

// DeleteStaleCooldowns drops rows older than before; they no longer
// throttle anything.
func (q *Queries) DeleteStaleCooldowns(ctx context.Context, before time.Time) (int64, error) {
	res, err := q.exec(ctx, "DELETE FROM comment_cooldowns WHERE last_comment_at < ?", before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("database: delete stale cooldowns: %w", err)
	}
	return rowsAffected(res)
}
