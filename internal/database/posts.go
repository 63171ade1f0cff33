package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// InsertPost stores p and fills p.ID.
func (q *Queries) InsertPost(ctx context.Context, p *models.Post) error {
	id, err := q.insertID(ctx, `
		INSERT INTO posts (author_id, title, content, tags, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.AuthorID, p.Title, p.Content, p.Tags, p.IsPublic, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("database: insert post: %w", err)
	}
	p.ID = id
	return nil
}

const postSelect = `
	SELECT p.id, p.author_id, u.username, p.title, p.content, p.tags, p.is_public, p.created_at, p.edited_at,
		(SELECT COUNT(*) FROM post_likes WHERE post_id = p.id),
		(SELECT COUNT(*) FROM post_dislikes WHERE post_id = p.id),
		(SELECT COUNT(*) FROM comments WHERE post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p      models.Post
		edited sql.NullTime
	)
	err := row.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Content, &p.Tags, &p.IsPublic,
		&p.CreatedAt, &edited, &p.Likes, &p.Dislikes, &p.CommentCount)
	if err != nil {
		return nil, notFound(err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.EditedAt = nullTime(edited)
	return &p, nil
}

// PostByID returns the post with its author name and counters.
func (q *Queries) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	return scanPost(q.queryRow(ctx, postSelect+" WHERE p.id = ?", id))
}

func (q *Queries) UpdatePost(ctx context.Context, id int64, title, content string, editedAt time.Time) error {
	ok, err := q.affected(ctx, "UPDATE posts SET title = ?, content = ?, edited_at = ? WHERE id = ?",
		title, content, editedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("database: update post: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post together with its comments, comment likes, likes
// and dislikes. The foreign keys cascade as well; the explicit deletes keep
// the result independent of connection pragmas.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	steps := []string{
		"DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)",
		"DELETE FROM post_likes WHERE post_id = ?",
		"DELETE FROM post_dislikes WHERE post_id = ?",
		"DELETE FROM comments WHERE post_id = ?",
	}
	for _, stmt := range steps {
		if _, err := q.exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("database: delete post %d: %w", id, err)
		}
	}
	ok, err := q.affected(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("database: delete post %d: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// visibleTo is the read rule for posts, bound to the viewer id twice. A
// post is visible to its author; anyone else sees it only if it is public
// and its author's profile is public or followed by the viewer. Viewer 0
// is anonymous.
const visibleTo = `(p.author_id = ? OR (p.is_public AND (NOT u.is_private OR EXISTS (
		SELECT 1 FROM follows f WHERE f.follower_id = ? AND f.followed_id = p.author_id))))`

// VisiblePost is PostByID under the read rule. A post the viewer may not
// see is reported as ErrNotFound.
func (q *Queries) VisiblePost(ctx context.Context, id, viewerID int64) (*models.Post, error) {
	return scanPost(q.queryRow(ctx, postSelect+" WHERE p.id = ? AND "+visibleTo, id, viewerID, viewerID))
}

// VisiblePostAuthor returns the author of a post the viewer may see, or
// ErrNotFound.
func (q *Queries) VisiblePostAuthor(ctx context.Context, id, viewerID int64) (int64, error) {
	var author int64
	err := q.queryRow(ctx, `
		SELECT p.author_id FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = ? AND `+visibleTo, id, viewerID, viewerID).Scan(&author)
	if err != nil {
		return 0, notFound(err)
	}
	return author, nil
}

// ListPosts returns the posts visible to viewerID, newest first.
func (q *Queries) ListPosts(ctx context.Context, viewerID int64, limit, offset int) ([]models.Post, error) {
	return q.listPosts(ctx, postSelect+" WHERE "+visibleTo+`
		ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`, viewerID, viewerID, limit, offset)
}

// PostsByAuthor returns one user's posts visible to viewerID, newest first.
func (q *Queries) PostsByAuthor(ctx context.Context, authorID, viewerID int64) ([]models.Post, error) {
	return q.listPosts(ctx, postSelect+" WHERE p.author_id = ? AND "+visibleTo+`
		ORDER BY p.created_at DESC, p.id DESC`, authorID, viewerID, viewerID)
}

func (q *Queries) listPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("database: scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate posts: %w", err)
	}
	return posts, nil
}

// ReactionCounts counts the like and dislike rows of a post.
func (q *Queries) ReactionCounts(ctx context.Context, postID int64) (models.ReactionCounts, error) {
	var c models.ReactionCounts
	err := q.queryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM post_likes WHERE post_id = ?),
		       (SELECT COUNT(*) FROM post_dislikes WHERE post_id = ?)`, postID, postID).Scan(&c.Likes, &c.Dislikes)
	if err != nil {
		return c, fmt.Errorf("database: reaction counts: %w", err)
	}
	return c, nil
}
