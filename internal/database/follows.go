package database

import (
	"context"
	"fmt"
	"time"

	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// InsertFollow creates the follower -> followed edge. It reports false if
// the edge was already present.
func (q *Queries) InsertFollow(ctx context.Context, follower, followed int64, at time.Time) (bool, error) {
	ok, err := q.affected(ctx,
		"INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		follower, followed, at.UTC())
	if err != nil {
		return false, fmt.Errorf("database: insert follow: %w", err)
	}
	return ok, nil
}

func (q *Queries) DeleteFollow(ctx context.Context, follower, followed int64) (bool, error) {
	ok, err := q.affected(ctx, "DELETE FROM follows WHERE follower_id = ? AND followed_id = ?", follower, followed)
	if err != nil {
		return false, fmt.Errorf("database: delete follow: %w", err)
	}
	return ok, nil
}

func (q *Queries) IsFollowing(ctx context.Context, follower, followed int64) (bool, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followed_id = ?", follower, followed)
	if err != nil {
		return false, fmt.Errorf("database: read follow: %w", err)
	}
	return n > 0, nil
}

// Followers lists the users following userID, oldest edge first.
func (q *Queries) Followers(ctx context.Context, userID int64) ([]models.PublicUser, error) {
	return q.followList(ctx, `
		SELECT u.id, u.username FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followed_id = ? ORDER BY f.created_at, u.id`, userID)
}

// Following lists the users userID follows, oldest edge first.
func (q *Queries) Following(ctx context.Context, userID int64) ([]models.PublicUser, error) {
	return q.followList(ctx, `
		SELECT u.id, u.username FROM follows f JOIN users u ON u.id = f.followed_id
		WHERE f.follower_id = ? ORDER BY f.created_at, u.id`, userID)
}

func (q *Queries) followList(ctx context.Context, query string, userID int64) ([]models.PublicUser, error) {
	rows, err := q.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("database: list follows: %w", err)
	}
	defer rows.Close()

	users := []models.PublicUser{}
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("database: scan follow: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FollowCounts returns (followers, following) of a user.
func (q *Queries) FollowCounts(ctx context.Context, userID int64) (int, int, error) {
	var followers, following int
	err := q.queryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM follows WHERE followed_id = ?),
		       (SELECT COUNT(*) FROM follows WHERE follower_id = ?)`, userID, userID).Scan(&followers, &following)
	if err != nil {
		return 0, 0, fmt.Errorf("database: follow counts: %w", err)
	}
	return followers, following, nil
}

// CountFollows counts every edge in the graph.
func (q *Queries) CountFollows(ctx context.Context) (int, error) {
	return q.count(ctx, "SELECT COUNT(*) FROM follows")
}
