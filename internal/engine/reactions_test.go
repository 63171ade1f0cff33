package engine_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

func TestTogglePostReaction_LikeTwiceRestoresCounts(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "Hello")

	counts, err := f.eng.TogglePostReaction(ctx, b, p.ID, models.Like)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCounts{Likes: 1, Dislikes: 0}, counts)

	counts, err = f.eng.TogglePostReaction(ctx, b, p.ID, models.Like)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCounts{Likes: 0, Dislikes: 0}, counts)
	assert.Zero(t, f.rows(t, "post_dislikes"))
}

func TestTogglePostReaction_DislikeReplacesLike(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "Hello")

	_, err := f.eng.TogglePostReaction(ctx, b, p.ID, models.Like)
	require.NoError(t, err)
	counts, err := f.eng.TogglePostReaction(ctx, b, p.ID, models.Dislike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCounts{Likes: 0, Dislikes: 1}, counts)

	state, err := f.eng.PostReactionState(ctx, b, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionState{Disliked: true}, state)

	counts, err = f.eng.TogglePostReaction(ctx, b, p.ID, models.Like)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCounts{Likes: 1, Dislikes: 0}, counts)
}

func TestTogglePostReaction_CountsAcrossUsers(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	c := f.user(t, "carol")
	p := f.post(t, a, "Hello")

	_, err := f.eng.TogglePostReaction(ctx, b, p.ID, models.Like)
	require.NoError(t, err)
	counts, err := f.eng.TogglePostReaction(ctx, c, p.ID, models.Dislike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCounts{Likes: 1, Dislikes: 1}, counts)
}

func TestTogglePostReaction_Failures(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "Hello")

	_, err := f.eng.TogglePostReaction(ctx, engine.Anonymous, p.ID, models.Like)
	requireKind(t, err, engine.KindUnauthenticated)

	// identity is checked before existence
	_, err = f.eng.TogglePostReaction(ctx, engine.Anonymous, 999, models.Like)
	requireKind(t, err, engine.KindUnauthenticated)

	_, err = f.eng.TogglePostReaction(ctx, a, 999, models.Like)
	requireKind(t, err, engine.KindNotFound)

	_, err = f.eng.TogglePostReaction(ctx, a, p.ID, models.ReactionKind("love"))
	requireKind(t, err, engine.KindValidation)

	assert.Zero(t, f.rows(t, "post_likes"))
}

func TestTogglePostReaction_ConcurrentTogglesNeverBoth(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "Hello")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		kind := models.Like
		if i%2 == 1 {
			kind = models.Dislike
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.eng.TogglePostReaction(ctx, b, p.ID, kind)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	likes, dislikes := f.rows(t, "post_likes"), f.rows(t, "post_dislikes")
	assert.LessOrEqual(t, likes+dislikes, 1)
}

func TestToggleCommentLike(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "Hello")
	c := f.comment(t, a, p.ID, "first", nil)

	state, err := f.eng.ToggleCommentLike(ctx, b, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentLikeState{Liked: true, Likes: 1}, state)

	state, err = f.eng.ToggleCommentLike(ctx, b, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentLikeState{Liked: false, Likes: 0}, state)

	_, err = f.eng.ToggleCommentLike(ctx, b, 12345)
	requireKind(t, err, engine.KindNotFound)
	_, err = f.eng.ToggleCommentLike(ctx, engine.Anonymous, c.ID)
	requireKind(t, err, engine.KindUnauthenticated)
}

func TestPostReactionState_Anonymous(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "Hello")
	_, err := f.eng.TogglePostReaction(ctx, a, p.ID, models.Like)
	require.NoError(t, err)

	state, err := f.eng.PostReactionState(ctx, engine.Anonymous, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionState{}, state)
}
