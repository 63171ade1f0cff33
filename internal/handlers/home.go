package handlers

import (
	"net/http"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
)

// HomeHandler lists the posts visible to the caller, newest first.
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageFilter(r)
	posts, err := h.engine.ListPosts(r.Context(), engine.IdentityFrom(r.Context()), limit, offset)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// ProfileHandler shows a member's page.
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := h.engine.UserProfile(r.Context(), engine.IdentityFrom(r.Context()), r.PathValue("username"))
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
