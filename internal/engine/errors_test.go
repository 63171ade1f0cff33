package engine_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &engine.Error{Kind: engine.KindNotFound, Message: "post not found"})
	assert.ErrorIs(t, err, engine.ErrNotFound)
	assert.NotErrorIs(t, err, engine.ErrForbidden)
}

func TestError_SelfFollowIsValidation(t *testing.T) {
	err := &engine.Error{Kind: engine.KindSelfFollow, Message: "no"}
	assert.ErrorIs(t, err, engine.ErrSelfFollow)
	assert.ErrorIs(t, err, engine.ErrValidation)

	plain := &engine.Error{Kind: engine.KindValidation}
	assert.NotErrorIs(t, plain, engine.ErrSelfFollow)
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := &engine.Error{Kind: engine.KindUnavailable, Message: "service temporarily unavailable", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestError_RetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 20, (&engine.Error{RetryAfter: 20 * time.Second}).RetryAfterSeconds())
	assert.Equal(t, 1, (&engine.Error{RetryAfter: time.Millisecond}).RetryAfterSeconds())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, engine.KindForbidden, engine.KindOf(&engine.Error{Kind: engine.KindForbidden}))
	assert.Equal(t, engine.KindUnavailable, engine.KindOf(errors.New("raw")))
}

func TestIdentity_SessionKey(t *testing.T) {
	assert.Equal(t, "tok", engine.Identity{UserID: 3, SessionID: "tok"}.SessionKey())
	assert.Equal(t, "user:3", engine.Identity{UserID: 3}.SessionKey())
	assert.False(t, engine.Anonymous.Authenticated())
}
