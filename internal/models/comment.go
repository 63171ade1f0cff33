package models

import "time"

type Comment struct {
	ID              int64      `json:"id"`
	PostID          int64      `json:"post_id"`
	AuthorID        int64      `json:"author_id"`
	Author          string     `json:"author"`
	ParentCommentID *int64     `json:"parent_comment_id,omitempty"` // nil for top-level comments
	Content         string     `json:"content"`
	CreatedAt       time.Time  `json:"created_at"`
	EditedAt        *time.Time `json:"edited_at,omitempty"`
	Likes           int        `json:"likes"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

// CommentNode is one comment of a rendered thread. Replies are built from a
// query over the post's comments and are not persisted as references.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// BuildThread arranges a post's comments into roots and replies. The input
// order is preserved among siblings. Comments whose parent is missing from
// the slice are treated as roots.
func BuildThread(comments []Comment) []*CommentNode {
	nodes := make(map[int64]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: comments[i], Replies: []*CommentNode{}}
	}

	roots := []*CommentNode{}
	for i := range comments {
		node := nodes[comments[i].ID]
		if pid := comments[i].ParentCommentID; pid != nil {
			if parent, ok := nodes[*pid]; ok && parent != node {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
