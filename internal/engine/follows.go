package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// ToggleFollow makes the caller follow target, or stop following if they
// already do.
func (e *Engine) ToggleFollow(ctx context.Context, id Identity, target int64) (models.FollowResult, error) {
	var res models.FollowResult
	if !id.Authenticated() {
		return res, unauthenticated()
	}
	if target == id.UserID {
		return res, &Error{Kind: KindSelfFollow, Message: "you cannot follow yourself"}
	}
	fields := logrus.Fields{"user_id": id.UserID, "target_id": target}

	err := e.store.WithTx(ctx, func(q *database.Queries) error {
		if err := q.LockPair(ctx, "follow", id.UserID, target); err != nil {
			return err
		}
		exists, err := q.UserExists(ctx, target)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("user")
		}
		removed, err := q.DeleteFollow(ctx, id.UserID, target)
		if err != nil {
			return err
		}
		if removed {
			res.Status = models.Unfollowed
			return nil
		}
		if _, err := q.InsertFollow(ctx, id.UserID, target, e.now()); err != nil {
			return err
		}
		res.Status = models.Followed
		return nil
	})
	if err != nil {
		return models.FollowResult{}, e.fail("toggle follow", "user", err, fields)
	}
	e.log.WithFields(fields).WithField("status", res.Status).Debug("follow toggled")
	return res, nil
}

// Followers lists who follows userID.
func (e *Engine) Followers(ctx context.Context, userID int64) ([]models.PublicUser, error) {
	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := e.store.Followers(ctx, userID)
	if err != nil {
		return nil, e.fail("followers", "user", err, logrus.Fields{"user_id": userID})
	}
	return users, nil
}

// Following lists whom userID follows.
func (e *Engine) Following(ctx context.Context, userID int64) ([]models.PublicUser, error) {
	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := e.store.Following(ctx, userID)
	if err != nil {
		return nil, e.fail("following", "user", err, logrus.Fields{"user_id": userID})
	}
	return users, nil
}

func (e *Engine) IsFollowing(ctx context.Context, follower, followed int64) (bool, error) {
	ok, err := e.store.IsFollowing(ctx, follower, followed)
	if err != nil {
		return false, e.fail("is following", "user", err, nil)
	}
	return ok, nil
}

// FollowCounts returns how many users follow userID and how many it follows.
func (e *Engine) FollowCounts(ctx context.Context, userID int64) (followers, following int, err error) {
	if err := e.requireUser(ctx, userID); err != nil {
		return 0, 0, err
	}
	followers, following, err = e.store.FollowCounts(ctx, userID)
	if err != nil {
		return 0, 0, e.fail("follow counts", "user", err, logrus.Fields{"user_id": userID})
	}
	return followers, following, nil
}

func (e *Engine) requireUser(ctx context.Context, userID int64) error {
	ok, err := e.store.UserExists(ctx, userID)
	if err != nil {
		return e.fail("user exists", "user", err, logrus.Fields{"user_id": userID})
	}
	if !ok {
		return notFound("user")
	}
	return nil
}
