package handlers

import (
	"context"
	"net/http"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

func (h *Handler) FollowHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.engine.ToggleFollow(r.Context(), engine.IdentityFrom(r.Context()), target)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) FollowersHandler(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.engine.Followers)
}

func (h *Handler) FollowingHandler(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.engine.Following)
}

func (h *Handler) userList(w http.ResponseWriter, r *http.Request, list func(context.Context, int64) ([]models.PublicUser, error)) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	users, err := list(r.Context(), userID)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
