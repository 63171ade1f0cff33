package database

import (
	"context"
	"fmt"
	"time"
)

// Each reaction table has its own statements so the foreign key a toggle
// touches is fixed at compile time. Inserts report false when the row
// already existed; deletes report false when there was nothing to remove.

func (q *Queries) InsertPostLike(ctx context.Context, userID, postID int64, at time.Time) (bool, error) {
	ok, err := q.affected(ctx,
		"INSERT INTO post_likes (user_id, post_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		userID, postID, at.UTC())
	if err != nil {
		return false, fmt.Errorf("database: insert post like: %w", err)
	}
	return ok, nil
}

func (q *Queries) DeletePostLike(ctx context.Context, userID, postID int64) (bool, error) {
	ok, err := q.affected(ctx, "DELETE FROM post_likes WHERE user_id = ? AND post_id = ?", userID, postID)
	if err != nil {
		return false, fmt.Errorf("database: delete post like: %w", err)
	}
	return ok, nil
}

func (q *Queries) HasPostLike(ctx context.Context, userID, postID int64) (bool, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM post_likes WHERE user_id = ? AND post_id = ?", userID, postID)
	if err != nil {
		return false, fmt.Errorf("database: read post like: %w", err)
	}
	return n > 0, nil
}

func (q *Queries) InsertPostDislike(ctx context.Context, userID, postID int64, at time.Time) (bool, error) {
	ok, err := q.affected(ctx,
		"INSERT INTO post_dislikes (user_id, post_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		userID, postID, at.UTC())
	if err != nil {
		return false, fmt.Errorf("database: insert post dislike: %w", err)
	}
	return ok, nil
}

func (q *Queries) DeletePostDislike(ctx context.Context, userID, postID int64) (bool, error) {
	ok, err := q.affected(ctx, "DELETE FROM post_dislikes WHERE user_id = ? AND post_id = ?", userID, postID)
	if err != nil {
		return false, fmt.Errorf("database: delete post dislike: %w", err)
	}
	return ok, nil
}

func (q *Queries) HasPostDislike(ctx context.Context, userID, postID int64) (bool, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM post_dislikes WHERE user_id = ? AND post_id = ?", userID, postID)
	if err != nil {
		return false, fmt.Errorf("database: read post dislike: %w", err)
	}
	return n > 0, nil
}

func (q *Queries) InsertCommentLike(ctx context.Context, userID, commentID int64, at time.Time) (bool, error) {
	ok, err := q.affected(ctx,
		"INSERT INTO comment_likes (user_id, comment_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		userID, commentID, at.UTC())
	if err != nil {
		return false, fmt.Errorf("database: insert comment like: %w", err)
	}
	return ok, nil
}

func (q *Queries) DeleteCommentLike(ctx context.Context, userID, commentID int64) (bool, error) {
	ok, err := q.affected(ctx, "DELETE FROM comment_likes WHERE user_id = ? AND comment_id = ?", userID, commentID)
	if err != nil {
		return false, fmt.Errorf("database: delete comment like: %w", err)
	}
	return ok, nil
}
