package engine

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
	"github.com/niamhfoley-dev/assignment-4/internal/session"
)

// maxThreadDepth bounds the parent walk of the cycle guard.
const maxThreadDepth = 1000

// CreateComment adds a comment to a post, as a reply when parentID is set.
// A session may only comment once per cooldown; the cooldown starts when a
// comment is accepted and is shared across all posts.
func (e *Engine) CreateComment(ctx context.Context, id Identity, postID int64, content string, parentID *int64) (*models.Comment, error) {
	if !id.Authenticated() {
		return nil, unauthenticated()
	}
	fields := logrus.Fields{"user_id": id.UserID, "post_id": postID}

	if _, err := visiblePost(ctx, &e.store.Queries, id, postID); err != nil {
		return nil, e.fail("create comment", "post", err, fields)
	}
	if parentID != nil {
		if err := checkParent(ctx, &e.store.Queries, postID, *parentID, 0); err != nil {
			return nil, e.fail("create comment", "parent comment", err, fields)
		}
	}
	content, err := validateComment(e.rules, content)
	if err != nil {
		return nil, err
	}

	now := e.now()
	claim, claimed, err := e.claimCooldown(ctx, id, now)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{
		PostID:          postID,
		AuthorID:        id.UserID,
		ParentCommentID: parentID,
		Content:         content,
		CreatedAt:       now,
	}
	var created *models.Comment
	err = e.store.WithTx(ctx, func(q *database.Queries) error {
		// the post or parent may have been deleted since the checks above
		if _, err := visiblePost(ctx, q, id, postID); err != nil {
			return err
		}
		if parentID != nil {
			if err := checkParent(ctx, q, postID, *parentID, 0); err != nil {
				return err
			}
		}
		if err := q.InsertComment(ctx, c); err != nil {
			return err
		}
		var err error
		created, err = q.CommentByID(ctx, c.ID)
		return err
	})
	if err != nil {
		if claimed {
			if rerr := e.cooldowns.Release(context.WithoutCancel(ctx), claim); rerr != nil {
				e.log.WithError(rerr).WithFields(fields).Warn("could not release comment cooldown")
			}
		}
		return nil, e.fail("create comment", "post", err, fields)
	}
	e.log.WithFields(fields).WithField("comment_id", created.ID).Debug("comment created")
	return created, nil
}

// claimCooldown reserves the cooldown slot of the session. It reports
// whether a claim was made; with FailOpen a broken store yields no claim
// and no error.
func (e *Engine) claimCooldown(ctx context.Context, id Identity, now time.Time) (session.Claim, bool, error) {
	claim, err := e.cooldowns.Claim(ctx, id.SessionKey(), now, e.rules.CommentCooldown)
	if err == nil {
		return claim, true, nil
	}
	var cd *session.CooldownError
	if errors.As(err, &cd) {
		return session.Claim{}, false, rateLimited(cd.Remaining)
	}
	entry := e.log.WithError(err).WithField("user_id", id.UserID)
	if e.failOpen {
		entry.Warn("cooldown store unavailable, comment not throttled")
		return session.Claim{}, false, nil
	}
	entry.Error("cooldown store unavailable")
	return session.Claim{}, false, &Error{Kind: KindUnavailable, Message: "service temporarily unavailable", Err: err}
}

// checkParent enforces that a reply points at a comment of the same post
// and that the parent chain above it ends without passing through self.
// self is 0 for a comment that does not exist yet.
func checkParent(ctx context.Context, q *database.Queries, postID, parentID, self int64) error {
	if self != 0 && parentID == self {
		return invalid("a comment cannot reply to itself")
	}
	ref, err := q.CommentRef(ctx, parentID)
	if errors.Is(err, database.ErrNotFound) {
		return invalid("parent comment %d does not exist", parentID)
	}
	if err != nil {
		return err
	}
	if ref.PostID != postID {
		return invalid("parent comment belongs to a different post")
	}
	chain, err := q.Ancestors(ctx, parentID, maxThreadDepth)
	if err != nil {
		return err
	}
	if len(chain) >= maxThreadDepth {
		return invalid("reply chain too deep")
	}
	for _, a := range chain {
		if a == self {
			return invalid("a comment cannot be its own ancestor")
		}
	}
	return nil
}

// UpdateComment replaces the content of a comment. Only its author may,
// and editing does not touch the cooldown.
func (e *Engine) UpdateComment(ctx context.Context, id Identity, commentID int64, content string) (*models.Comment, error) {
	if !id.Authenticated() {
		return nil, unauthenticated()
	}
	fields := logrus.Fields{"user_id": id.UserID, "comment_id": commentID}

	var updated *models.Comment
	err := e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := authorizeComment(ctx, q, id, commentID, "only the author can edit this comment"); err != nil {
			return err
		}
		content, err := validateComment(e.rules, content)
		if err != nil {
			return err
		}
		if err := q.UpdateCommentContent(ctx, commentID, content, e.now()); err != nil {
			return err
		}
		updated, err = q.CommentByID(ctx, commentID)
		return err
	})
	if err != nil {
		return nil, e.fail("update comment", "comment", err, fields)
	}
	e.log.WithFields(fields).Debug("comment updated")
	return updated, nil
}

// DeleteComment removes a comment together with every reply below it and
// the likes of all removed comments. Only the author of the comment may;
// replies by other users go with it.
func (e *Engine) DeleteComment(ctx context.Context, id Identity, commentID int64) error {
	if !id.Authenticated() {
		return unauthenticated()
	}
	fields := logrus.Fields{"user_id": id.UserID, "comment_id": commentID}

	var removed int
	err := e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := authorizeComment(ctx, q, id, commentID, "only the author can delete this comment"); err != nil {
			return err
		}
		var err error
		removed, err = q.DeleteCommentTree(ctx, commentID)
		return err
	})
	if err != nil {
		return e.fail("delete comment", "comment", err, fields)
	}
	e.log.WithFields(fields).WithField("removed", removed).Debug("comment deleted")
	return nil
}

// visibleComment resolves a comment on a post viewer may see. Comments of
// hidden posts are not found.
func visibleComment(ctx context.Context, q *database.Queries, viewer Identity, commentID int64) (*database.CommentRef, error) {
	ref, err := q.CommentRef(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := visiblePost(ctx, q, viewer, ref.PostID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("comment")
		}
		return nil, err
	}
	return ref, nil
}

func authorizeComment(ctx context.Context, q *database.Queries, id Identity, commentID int64, msg string) error {
	ref, err := visibleComment(ctx, q, id, commentID)
	if err != nil {
		return err
	}
	if ref.AuthorID != id.UserID {
		return forbidden(msg)
	}
	return nil
}

// CommentThread returns the comments of a post as a forest of roots and
// replies, oldest first on every level.
func (e *Engine) CommentThread(ctx context.Context, viewer Identity, postID int64) ([]*models.CommentNode, error) {
	if _, err := e.GetPost(ctx, viewer, postID); err != nil {
		return nil, err
	}
	comments, err := e.store.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, e.fail("comment thread", "post", err, logrus.Fields{"post_id": postID})
	}
	return models.BuildThread(comments), nil
}
