package handlers

import (
	"net/http"

	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

type reactionResponse struct {
	Success  bool `json:"success"`
	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
}

// LikePostHandler toggles a like or dislike, given by the {kind} segment,
// and returns the post's new counts.
func (h *Handler) LikePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	kind := models.ReactionKind(r.PathValue("kind"))
	if !kind.Valid() {
		Render400(w, "reaction must be like or dislike")
		return
	}

	counts, err := h.engine.TogglePostReaction(r.Context(), engine.IdentityFrom(r.Context()), postID, kind)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reactionResponse{Success: true, Likes: counts.Likes, Dislikes: counts.Dislikes})
}

func (h *Handler) LikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	state, err := h.engine.ToggleCommentLike(r.Context(), engine.IdentityFrom(r.Context()), commentID)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
