package models

import "time"

// ReactionKind is the reaction a user leaves on a post.
type ReactionKind string

const (
	Like    ReactionKind = "like"
	Dislike ReactionKind = "dislike"
)

// Valid reports whether k is one of the known kinds.
func (k ReactionKind) Valid() bool {
	return k == Like || k == Dislike
}

// Opposite returns the kind that cannot coexist with k.
func (k ReactionKind) Opposite() ReactionKind {
	if k == Like {
		return Dislike
	}
	return Like
}

// Rows of post_likes, post_dislikes and comment_likes. The tables are kept
// apart so each toggle touches exactly one foreign key.
type PostLike struct {
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

type PostDislike struct {
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

type CommentLike struct {
	UserID    int64
	CommentID int64
	CreatedAt time.Time
}

// ReactionCounts is returned after every post reaction toggle.
type ReactionCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// ReactionState is the viewer's own reaction on a post.
type ReactionState struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}

// CommentLikeState is returned by the comment like toggle.
type CommentLikeState struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
