package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestBuildThread(t *testing.T) {
	comments := []Comment{
		{ID: 1, Content: "root a"},
		{ID: 2, Content: "reply to a", ParentCommentID: ptr(1)},
		{ID: 3, Content: "root b"},
		{ID: 4, Content: "reply to reply", ParentCommentID: ptr(2)},
		{ID: 5, Content: "second reply to a", ParentCommentID: ptr(1)},
	}

	roots := BuildThread(comments)
	require.Len(t, roots, 2)
	assert.Equal(t, int64(1), roots[0].ID)
	assert.Equal(t, int64(3), roots[1].ID)

	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, int64(2), roots[0].Replies[0].ID)
	assert.Equal(t, int64(5), roots[0].Replies[1].ID)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, int64(4), roots[0].Replies[0].Replies[0].ID)
	assert.Empty(t, roots[1].Replies)
}

func TestBuildThread_MissingParentBecomesRoot(t *testing.T) {
	roots := BuildThread([]Comment{{ID: 9, ParentCommentID: ptr(100)}})
	require.Len(t, roots, 1)
	assert.Equal(t, int64(9), roots[0].ID)
}

func TestBuildThread_SelfParentIsRoot(t *testing.T) {
	roots := BuildThread([]Comment{{ID: 3, ParentCommentID: ptr(3)}})
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Replies)
}

func TestReactionKind(t *testing.T) {
	assert.True(t, Like.Valid())
	assert.True(t, Dislike.Valid())
	assert.False(t, ReactionKind("love").Valid())
	assert.Equal(t, Dislike, Like.Opposite())
	assert.Equal(t, Like, Dislike.Opposite())
}
