package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// postReactionTable is one of the two per-post reaction tables.
type postReactionTable struct {
	insert func(ctx context.Context, userID, postID int64, at time.Time) (bool, error)
	remove func(ctx context.Context, userID, postID int64) (bool, error)
}

func postReactionTables(q *database.Queries, kind models.ReactionKind) (this, opposite postReactionTable) {
	likes := postReactionTable{insert: q.InsertPostLike, remove: q.DeletePostLike}
	dislikes := postReactionTable{insert: q.InsertPostDislike, remove: q.DeletePostDislike}
	if kind == models.Like {
		return likes, dislikes
	}
	return dislikes, likes
}

// TogglePostReaction removes the caller's reaction of kind if present;
// otherwise it adds it and drops the opposite one. Likes and dislikes of
// one user on one post never coexist. Returns the post's fresh counts.
func (e *Engine) TogglePostReaction(ctx context.Context, id Identity, postID int64, kind models.ReactionKind) (models.ReactionCounts, error) {
	var counts models.ReactionCounts
	if !id.Authenticated() {
		return counts, unauthenticated()
	}
	if !kind.Valid() {
		return counts, invalid("unknown reaction %q", kind)
	}
	fields := logrus.Fields{"user_id": id.UserID, "post_id": postID, "kind": kind}

	err := e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := q.LockPair(ctx, "post", id.UserID, postID); err != nil {
			return err
		}
		if _, err := visiblePost(ctx, q, id, postID); err != nil {
			return err
		}
		this, opposite := postReactionTables(q, kind)
		removed, err := this.remove(ctx, id.UserID, postID)
		if err != nil {
			return err
		}
		if !removed {
			// a concurrent insert that got there first leaves the reaction in place
			if _, err := this.insert(ctx, id.UserID, postID, e.now()); err != nil {
				return err
			}
			if _, err := opposite.remove(ctx, id.UserID, postID); err != nil {
				return err
			}
		}
		counts, err = q.ReactionCounts(ctx, postID)
		return err
	})
	if err != nil {
		return models.ReactionCounts{}, e.fail("toggle post reaction", "post", err, fields)
	}
	e.log.WithFields(fields).WithField("likes", counts.Likes).WithField("dislikes", counts.Dislikes).Debug("post reaction toggled")
	return counts, nil
}

// ToggleCommentLike adds the caller's like on a comment or removes it.
func (e *Engine) ToggleCommentLike(ctx context.Context, id Identity, commentID int64) (models.CommentLikeState, error) {
	var state models.CommentLikeState
	if !id.Authenticated() {
		return state, unauthenticated()
	}
	fields := logrus.Fields{"user_id": id.UserID, "comment_id": commentID}

	err := e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := q.LockPair(ctx, "comment", id.UserID, commentID); err != nil {
			return err
		}
		if _, err := visibleComment(ctx, q, id, commentID); err != nil {
			return err
		}
		removed, err := q.DeleteCommentLike(ctx, id.UserID, commentID)
		if err != nil {
			return err
		}
		if !removed {
			if _, err := q.InsertCommentLike(ctx, id.UserID, commentID, e.now()); err != nil {
				return err
			}
		}
		state.Liked = !removed
		state.Likes, err = q.CommentLikeCount(ctx, commentID)
		return err
	})
	if err != nil {
		return models.CommentLikeState{}, e.fail("toggle comment like", "comment", err, fields)
	}
	e.log.WithFields(fields).WithField("liked", state.Liked).Debug("comment like toggled")
	return state, nil
}

// PostReactionState reports the viewer's own reaction on a post. Anonymous
// viewers have none.
func (e *Engine) PostReactionState(ctx context.Context, viewer Identity, postID int64) (models.ReactionState, error) {
	var state models.ReactionState
	if _, err := e.GetPost(ctx, viewer, postID); err != nil {
		return state, err
	}
	if !viewer.Authenticated() {
		return state, nil
	}
	fields := logrus.Fields{"user_id": viewer.UserID, "post_id": postID}
	var err error
	if state.Liked, err = e.store.HasPostLike(ctx, viewer.UserID, postID); err != nil {
		return state, e.fail("post reaction state", "post", err, fields)
	}
	if state.Disliked, err = e.store.HasPostDislike(ctx, viewer.UserID, postID); err != nil {
		return state, e.fail("post reaction state", "post", err, fields)
	}
	return state, nil
}
