package handlers

import (
	"net/http"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
	Private bool   `json:"private"`
}

func (p postRequest) input() engine.PostInput {
	return engine.PostInput{Title: p.Title, Content: p.Content, Tags: p.Tags, Private: p.Private}
}

// postDetail is a post together with the caller's own reaction.
type postDetail struct {
	*models.Post
	Viewer *models.ReactionState `json:"viewer,omitempty"`
}

func (h *Handler) PostDetailHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := r.Context()
	viewer := engine.IdentityFrom(ctx)

	post, err := h.engine.GetPost(ctx, viewer, postID)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	detail := postDetail{Post: post}
	if viewer.Authenticated() {
		state, err := h.engine.PostReactionState(ctx, viewer, postID)
		if err != nil {
			h.RenderError(w, r, err)
			return
		}
		detail.Viewer = &state
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decode(w, r, &req) {
		return
	}
	post, err := h.engine.CreatePost(r.Context(), engine.IdentityFrom(r.Context()), req.input())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) EditPostHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req postRequest
	if !decode(w, r, &req) {
		return
	}
	post, err := h.engine.UpdatePost(r.Context(), engine.IdentityFrom(r.Context()), postID, req.input())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.engine.DeletePost(r.Context(), engine.IdentityFrom(r.Context()), postID); err != nil {
		h.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
