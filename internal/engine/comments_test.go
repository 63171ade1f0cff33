package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niamhfoley-dev/assignment-4/config"
	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/session"
)

func TestCreateComment_RepliesStayOnTheirPost(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "P")
	other := f.post(t, a, "Other")

	top := f.comment(t, a, p.ID, "Nice post", nil)
	assert.False(t, top.IsReply())
	assert.Equal(t, "alice", top.Author)

	reply := f.comment(t, b, p.ID, "Thanks", &top.ID)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, top.ID, *reply.ParentCommentID)

	foreign := f.comment(t, a, other.ID, "elsewhere", nil)
	_, err := f.eng.CreateComment(ctx, b, p.ID, "wrong thread", &foreign.ID)
	requireKind(t, err, engine.KindValidation)

	missing := int64(4242)
	_, err = f.eng.CreateComment(ctx, b, p.ID, "no parent", &missing)
	requireKind(t, err, engine.KindValidation)
}

func TestCreateComment_Cooldown(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "P")
	q := f.post(t, a, "Q")

	_, err := f.eng.CreateComment(ctx, a, p.ID, "first", nil)
	require.NoError(t, err)

	f.clock.Advance(10 * time.Second)
	// the cooldown is per session, not per post
	_, err = f.eng.CreateComment(ctx, a, q.ID, "second", nil)
	requireKind(t, err, engine.KindRateLimited)
	var ee *engine.Error
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 20*time.Second, ee.RetryAfter)
	assert.Contains(t, ee.Message, "20 seconds")

	f.clock.Advance(20 * time.Second)
	_, err = f.eng.CreateComment(ctx, a, q.ID, "second", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.rows(t, "comments"))
}

func TestCreateComment_CooldownIsPerSession(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "P")

	_, err := f.eng.CreateComment(ctx, a, p.ID, "from alice", nil)
	require.NoError(t, err)
	_, err = f.eng.CreateComment(ctx, b, p.ID, "from bob", nil)
	require.NoError(t, err)
}

func TestCreateComment_RejectedCommentKeepsCooldownFree(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "P")

	_, err := f.eng.CreateComment(ctx, a, p.ID, "total spam", nil)
	requireKind(t, err, engine.KindValidation)
	_, err = f.eng.CreateComment(ctx, a, p.ID, strings.Repeat("x", 301), nil)
	requireKind(t, err, engine.KindValidation)
	_, err = f.eng.CreateComment(ctx, a, 999, "no post", nil)
	requireKind(t, err, engine.KindNotFound)

	_, err = f.eng.CreateComment(ctx, a, p.ID, "valid", nil)
	require.NoError(t, err)
}

func TestCreateComment_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.CreateComment(ctx, engine.Anonymous, 1, "hi", nil)
	requireKind(t, err, engine.KindUnauthenticated)
}

// brokenCooldowns fails every call, as an unreachable session store would.
type brokenCooldowns struct{}

var errDown = errors.New("cooldown store down")

func (brokenCooldowns) Claim(context.Context, string, time.Time, time.Duration) (session.Claim, error) {
	return session.Claim{}, errDown
}
func (brokenCooldowns) Release(context.Context, session.Claim) error { return errDown }
func (brokenCooldowns) Sweep(context.Context, time.Time) (int64, error) { return 0, errDown }
func (brokenCooldowns) Close() error { return nil }

func TestCreateComment_CooldownStoreDownFailsClosed(t *testing.T) {
	f := newFixture(t, func(o *engine.Options) { o.Cooldowns = brokenCooldowns{} })
	a := f.user(t, "alice")
	p := f.post(t, a, "P")

	_, err := f.eng.CreateComment(ctx, a, p.ID, "hello", nil)
	requireKind(t, err, engine.KindUnavailable)
	assert.Zero(t, f.rows(t, "comments"))
}

func TestCreateComment_CooldownStoreDownFailOpen(t *testing.T) {
	f := newFixture(t, func(o *engine.Options) {
		o.Cooldowns = brokenCooldowns{}
		o.FailOpen = true
	})
	a := f.user(t, "alice")
	p := f.post(t, a, "P")

	_, err := f.eng.CreateComment(ctx, a, p.ID, "hello", nil)
	require.NoError(t, err)
	_, err = f.eng.CreateComment(ctx, a, p.ID, "again", nil)
	require.NoError(t, err)
}

func TestCreateComment_PartialRulesKeepCallerValues(t *testing.T) {
	f := newFixture(t, func(o *engine.Options) {
		o.Rules = config.Rules{CommentCooldown: 5 * time.Second, ProhibitedWords: []string{"foo"}}
	})
	a := f.user(t, "alice")
	p := f.post(t, a, "P")

	_, err := f.eng.CreateComment(ctx, a, p.ID, "FOO bar", nil)
	requireKind(t, err, engine.KindValidation)

	_, err = f.eng.CreateComment(ctx, a, p.ID, "spam is fine here", nil)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Second)
	_, err = f.eng.CreateComment(ctx, a, p.ID, strings.Repeat("x", 300), nil)
	require.NoError(t, err)
	f.clock.Advance(5 * time.Second)
	_, err = f.eng.CreateComment(ctx, a, p.ID, strings.Repeat("x", 301), nil)
	requireKind(t, err, engine.KindValidation)
}

func TestUpdateComment(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "P")

	c, err := f.eng.CreateComment(ctx, a, p.ID, "first", nil)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Second)
	updated, err := f.eng.UpdateComment(ctx, a, c.ID, "first, edited")
	require.NoError(t, err)
	assert.Equal(t, "first, edited", updated.Content)
	require.NotNil(t, updated.EditedAt)
	assert.True(t, f.clock.Now().Equal(*updated.EditedAt))

	_, err = f.eng.UpdateComment(ctx, b, c.ID, "hijack")
	requireKind(t, err, engine.KindForbidden)
	// ownership is checked before content
	_, err = f.eng.UpdateComment(ctx, b, c.ID, "")
	requireKind(t, err, engine.KindForbidden)
	_, err = f.eng.UpdateComment(ctx, a, c.ID, "now with clickbait")
	requireKind(t, err, engine.KindValidation)
	_, err = f.eng.UpdateComment(ctx, a, 999, "x")
	requireKind(t, err, engine.KindNotFound)

	// editing does not reset the cooldown: 30s after creation a new comment is accepted
	f.clock.Advance(25 * time.Second)
	_, err = f.eng.CreateComment(ctx, a, p.ID, "second", nil)
	require.NoError(t, err)
}

func TestDeleteComment_CascadesToReplies(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "P")

	root := f.comment(t, a, p.ID, "root", nil)
	reply := f.comment(t, b, p.ID, "reply", &root.ID)
	f.comment(t, a, p.ID, "deeper", &reply.ID)
	keep := f.comment(t, b, p.ID, "keep", nil)
	for _, id := range []int64{root.ID, reply.ID, keep.ID} {
		_, err := f.eng.ToggleCommentLike(ctx, a, id)
		require.NoError(t, err)
	}

	err := f.eng.DeleteComment(ctx, b, root.ID)
	requireKind(t, err, engine.KindForbidden)

	require.NoError(t, f.eng.DeleteComment(ctx, a, root.ID))

	thread, err := f.eng.CommentThread(ctx, a, p.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, keep.ID, thread[0].ID)
	assert.Equal(t, 1, f.rows(t, "comment_likes"))

	err = f.eng.DeleteComment(ctx, a, root.ID)
	requireKind(t, err, engine.KindNotFound)
}

func TestCommentThread(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "P")

	first := f.comment(t, a, p.ID, "first", nil)
	second := f.comment(t, b, p.ID, "second", nil)
	r1 := f.comment(t, b, p.ID, "r1", &first.ID)
	r2 := f.comment(t, a, p.ID, "r2", &first.ID)
	_, err := f.eng.ToggleCommentLike(ctx, b, r2.ID)
	require.NoError(t, err)

	thread, err := f.eng.CommentThread(ctx, engine.Anonymous, p.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, first.ID, thread[0].ID)
	assert.Equal(t, second.ID, thread[1].ID)
	require.Len(t, thread[0].Replies, 2)
	assert.Equal(t, r1.ID, thread[0].Replies[0].ID)
	assert.Equal(t, r2.ID, thread[0].Replies[1].ID)
	assert.Equal(t, 1, thread[0].Replies[1].Likes)

	_, err = f.eng.CommentThread(ctx, engine.Anonymous, 999)
	requireKind(t, err, engine.KindNotFound)
}
