package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// CommentRef is the slice of a comment needed for ownership and
// threading checks.
type CommentRef struct {
	ID       int64
	PostID   int64
	AuthorID int64
	ParentID *int64
}

// InsertComment stores c and fills c.ID. A parent from another post is
// rejected by the (parent_comment_id, post_id) foreign key.
func (q *Queries) InsertComment(ctx context.Context, c *models.Comment) error {
	id, err := q.insertID(ctx, `
		INSERT INTO comments (post_id, author_id, parent_comment_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.PostID, c.AuthorID, c.ParentCommentID, c.Content, c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("database: insert comment: %w", err)
	}
	c.ID = id
	return nil
}

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, u.username, c.parent_comment_id, c.content, c.created_at, c.edited_at,
		(SELECT COUNT(*) FROM comment_likes WHERE comment_id = c.id)
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	var (
		c      models.Comment
		parent sql.NullInt64
		edited sql.NullTime
	)
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author, &parent, &c.Content, &c.CreatedAt, &edited, &c.Likes)
	if err != nil {
		return nil, notFound(err)
	}
	c.ParentCommentID = nullInt(parent)
	c.CreatedAt = c.CreatedAt.UTC()
	c.EditedAt = nullTime(edited)
	return &c, nil
}

func (q *Queries) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	return scanComment(q.queryRow(ctx, commentSelect+" WHERE c.id = ?", id))
}

// CommentRef loads the ids of a comment without joining its author.
func (q *Queries) CommentRef(ctx context.Context, id int64) (*CommentRef, error) {
	var (
		ref    CommentRef
		parent sql.NullInt64
	)
	err := q.queryRow(ctx, "SELECT id, post_id, author_id, parent_comment_id FROM comments WHERE id = ?", id).
		Scan(&ref.ID, &ref.PostID, &ref.AuthorID, &parent)
	if err != nil {
		return nil, notFound(err)
	}
	ref.ParentID = nullInt(parent)
	return &ref, nil
}

// CommentsByPost returns every comment of a post in creation order.
func (q *Queries) CommentsByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := q.query(ctx, commentSelect+" WHERE c.post_id = ? ORDER BY c.created_at, c.id", postID)
	if err != nil {
		return nil, fmt.Errorf("database: list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("database: scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate comments: %w", err)
	}
	return comments, nil
}

func (q *Queries) UpdateCommentContent(ctx context.Context, id int64, content string, editedAt time.Time) error {
	ok, err := q.affected(ctx, "UPDATE comments SET content = ?, edited_at = ? WHERE id = ?", content, editedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("database: update comment: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

const subtreeCTE = `
	WITH RECURSIVE subtree(id) AS (
		SELECT id FROM comments WHERE id = ?
		UNION ALL
		SELECT c.id FROM comments c JOIN subtree s ON c.parent_comment_id = s.id
	)`

// DeleteCommentTree removes a comment, all of its descendant replies and
// the likes of every removed comment. It returns the number of comments
// deleted.
func (q *Queries) DeleteCommentTree(ctx context.Context, id int64) (int, error) {
	n, err := q.count(ctx, subtreeCTE+" SELECT COUNT(*) FROM subtree", id)
	if err != nil {
		return 0, fmt.Errorf("database: collect replies of %d: %w", id, err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	if _, err := q.exec(ctx, subtreeCTE+" DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM subtree)", id); err != nil {
		return 0, fmt.Errorf("database: delete comment likes: %w", err)
	}
	if _, err := q.exec(ctx, subtreeCTE+" DELETE FROM comments WHERE id IN (SELECT id FROM subtree)", id); err != nil {
		return 0, fmt.Errorf("database: delete comments: %w", err)
	}
	return n, nil
}

// Ancestors walks the parent chain upwards from id, nearest first. The
// walk stops after limit steps so a corrupted chain cannot loop forever.
func (q *Queries) Ancestors(ctx context.Context, id int64, limit int) ([]int64, error) {
	var chain []int64
	cur := id
	for i := 0; i < limit; i++ {
		ref, err := q.CommentRef(ctx, cur)
		if err != nil {
			return chain, err
		}
		if ref.ParentID == nil {
			return chain, nil
		}
		chain = append(chain, *ref.ParentID)
		cur = *ref.ParentID
	}
	return chain, nil
}

func (q *Queries) CommentLikeCount(ctx context.Context, commentID int64) (int, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM comment_likes WHERE comment_id = ?", commentID)
	if err != nil {
		return 0, fmt.Errorf("database: count comment likes: %w", err)
	}
	return n, nil
}
