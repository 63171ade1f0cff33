package engine

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// PostInput is the author-supplied part of a post.
type PostInput struct {
	Title   string
	Content string
	Tags    string
	Private bool
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreatePost publishes a post authored by id.
func (e *Engine) CreatePost(ctx context.Context, id Identity, in PostInput) (*models.Post, error) {
	if !id.Authenticated() {
		return nil, unauthenticated()
	}
	title, content, err := validatePost(e.rules, in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	p := &models.Post{
		AuthorID:  id.UserID,
		Title:     title,
		Content:   content,
		Tags:      in.Tags,
		IsPublic:  !in.Private,
		CreatedAt: e.now(),
	}
	var created *models.Post
	err = e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := q.InsertPost(ctx, p); err != nil {
			return err
		}
		var err error
		created, err = q.PostByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, e.fail("create post", "user", err, logrus.Fields{"user_id": id.UserID})
	}
	e.log.WithFields(logrus.Fields{"user_id": id.UserID, "post_id": created.ID}).Debug("post created")
	return created, nil
}

// UpdatePost replaces title and content of a post. Only its author may.
func (e *Engine) UpdatePost(ctx context.Context, id Identity, postID int64, in PostInput) (*models.Post, error) {
	if !id.Authenticated() {
		return nil, unauthenticated()
	}
	fields := logrus.Fields{"user_id": id.UserID, "post_id": postID}

	var updated *models.Post
	err := e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := e.authorizePost(ctx, q, id, postID, "only the author can edit this post"); err != nil {
			return err
		}
		title, content, err := validatePost(e.rules, in.Title, in.Content)
		if err != nil {
			return err
		}
		if err := q.UpdatePost(ctx, postID, title, content, e.now()); err != nil {
			return err
		}
		updated, err = q.PostByID(ctx, postID)
		return err
	})
	if err != nil {
		return nil, e.fail("update post", "post", err, fields)
	}
	e.log.WithFields(fields).Debug("post updated")
	return updated, nil
}

// DeletePost removes a post with all of its comments, comment likes, likes
// and dislikes. Only its author may.
func (e *Engine) DeletePost(ctx context.Context, id Identity, postID int64) error {
	if !id.Authenticated() {
		return unauthenticated()
	}
	fields := logrus.Fields{"user_id": id.UserID, "post_id": postID}

	err := e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := e.authorizePost(ctx, q, id, postID, "only the author can delete this post"); err != nil {
			return err
		}
		return q.DeletePost(ctx, postID)
	})
	if err != nil {
		return e.fail("delete post", "post", err, fields)
	}
	e.log.WithFields(fields).Debug("post deleted")
	return nil
}

// visiblePost returns the author of a post viewer may see. Posts hidden
// from viewer are not found, so no operation reveals that they exist.
func visiblePost(ctx context.Context, q *database.Queries, viewer Identity, postID int64) (int64, error) {
	author, err := q.VisiblePostAuthor(ctx, postID, viewer.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return 0, notFound("post")
	}
	return author, err
}

func (e *Engine) authorizePost(ctx context.Context, q *database.Queries, id Identity, postID int64, msg string) error {
	author, err := visiblePost(ctx, q, id, postID)
	if err != nil {
		return err
	}
	if author != id.UserID {
		return forbidden(msg)
	}
	return nil
}

// GetPost returns a post with its counters. A private post is visible to
// its author only; the posts of a private profile to the member and their
// followers.
func (e *Engine) GetPost(ctx context.Context, viewer Identity, postID int64) (*models.Post, error) {
	p, err := e.store.VisiblePost(ctx, postID, viewer.UserID)
	if err != nil {
		return nil, e.fail("get post", "post", err, logrus.Fields{"post_id": postID})
	}
	return p, nil
}

// ListPosts pages through the posts visible to viewer, newest first.
func (e *Engine) ListPosts(ctx context.Context, viewer Identity, limit, offset int) ([]models.Post, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	posts, err := e.store.ListPosts(ctx, viewer.UserID, limit, offset)
	if err != nil {
		return nil, e.fail("list posts", "posts", err, nil)
	}
	return posts, nil
}

// UserProfile returns a member's page. The posts of a private profile are
// shown only to the member and to their followers.
func (e *Engine) UserProfile(ctx context.Context, viewer Identity, username string) (*models.Profile, error) {
	fields := logrus.Fields{"username": username}
	u, err := e.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, e.fail("user profile", "user", err, fields)
	}

	followers, following, err := e.store.FollowCounts(ctx, u.ID)
	if err != nil {
		return nil, e.fail("user profile", "user", err, fields)
	}
	profile := &models.Profile{
		User:      u.Public(),
		Bio:       u.Bio,
		Location:  u.Location,
		Website:   u.Website,
		JoinedAt:  u.JoinedAt,
		Followers: followers,
		Following: following,
		Posts:     []models.Post{},
	}

	profile.Posts, err = e.store.PostsByAuthor(ctx, u.ID, viewer.UserID)
	if err != nil {
		return nil, e.fail("user profile", "user", err, fields)
	}
	return profile, nil
}
