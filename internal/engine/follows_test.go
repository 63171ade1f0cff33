package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

func TestToggleFollow_SelfFollowIsRejected(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")

	_, err := f.eng.ToggleFollow(ctx, a, a.UserID)
	requireKind(t, err, engine.KindSelfFollow)
	assert.ErrorIs(t, err, engine.ErrValidation)
	assert.Zero(t, f.rows(t, "follows"))
}

func TestToggleFollow_TwiceLeavesNoEdge(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	c := f.user(t, "carol")

	_, err := f.eng.ToggleFollow(ctx, c, a.UserID)
	require.NoError(t, err)
	before := f.rows(t, "follows")

	res, err := f.eng.ToggleFollow(ctx, a, b.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.Followed, res.Status)

	ok, err := f.eng.IsFollowing(ctx, a.UserID, b.UserID)
	require.NoError(t, err)
	assert.True(t, ok)

	res, err = f.eng.ToggleFollow(ctx, a, b.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.Unfollowed, res.Status)

	ok, err = f.eng.IsFollowing(ctx, a.UserID, b.UserID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, f.rows(t, "follows"))
}

func TestToggleFollow_Failures(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")

	_, err := f.eng.ToggleFollow(ctx, engine.Anonymous, a.UserID)
	requireKind(t, err, engine.KindUnauthenticated)

	_, err = f.eng.ToggleFollow(ctx, a, 999)
	requireKind(t, err, engine.KindNotFound)
}

func TestFollowProjections(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	c := f.user(t, "carol")

	for _, follower := range []engine.Identity{b, c} {
		_, err := f.eng.ToggleFollow(ctx, follower, a.UserID)
		require.NoError(t, err)
	}
	_, err := f.eng.ToggleFollow(ctx, a, b.UserID)
	require.NoError(t, err)

	followers, err := f.eng.Followers(ctx, a.UserID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.PublicUser{
		{ID: b.UserID, Username: "bob"},
		{ID: c.UserID, Username: "carol"},
	}, followers)

	following, err := f.eng.Following(ctx, a.UserID)
	require.NoError(t, err)
	assert.Equal(t, []models.PublicUser{{ID: b.UserID, Username: "bob"}}, following)

	nFollowers, nFollowing, err := f.eng.FollowCounts(ctx, a.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, nFollowers)
	assert.Equal(t, 1, nFollowing)

	// unfollowing is visible immediately
	_, err = f.eng.ToggleFollow(ctx, c, a.UserID)
	require.NoError(t, err)
	followers, err = f.eng.Followers(ctx, a.UserID)
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	_, err = f.eng.Followers(ctx, 999)
	requireKind(t, err, engine.KindNotFound)
}
