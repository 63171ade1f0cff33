package handlers

import (
	"net/http"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
)

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_comment_id,omitempty"`
}

// CommentsHandler returns the comment thread of a post.
func (h *Handler) CommentsHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	thread, err := h.engine.CommentThread(r.Context(), engine.IdentityFrom(r.Context()), postID)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// CreateCommentHandler adds a comment, or a reply when parent_comment_id
// is set.
func (h *Handler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !decode(w, r, &req) {
		return
	}
	comment, err := h.engine.CreateComment(r.Context(), engine.IdentityFrom(r.Context()), postID, req.Content, req.ParentID)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) EditCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !decode(w, r, &req) {
		return
	}
	comment, err := h.engine.UpdateComment(r.Context(), engine.IdentityFrom(r.Context()), commentID, req.Content)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// DeleteCommentHandler removes a comment and all replies below it.
func (h *Handler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.engine.DeleteComment(r.Context(), engine.IdentityFrom(r.Context()), commentID); err != nil {
		h.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
