package models

import "time"

type Post struct {
	ID        int64      `json:"id"`
	AuthorID  int64      `json:"author_id"`
	Author    string     `json:"author"` // username of the author
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      string     `json:"tags,omitempty"`
	IsPublic  bool       `json:"is_public"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`

	Likes        int `json:"likes"`
	Dislikes     int `json:"dislikes"`
	CommentCount int `json:"comment_count"`
}
