package handlers

import (
	"net/http"

	"github.com/niamhfoley-dev/assignment-4/internal/middleware"
)

// Routes registers every API route on a new mux. Mutating routes require a
// session; reads work anonymously and see public content only.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	authed := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuthMiddleware(fn)
	}

	mux.HandleFunc("POST /api/register", h.RegisterHandler)
	mux.HandleFunc("POST /api/login", h.LoginHandler)
	mux.HandleFunc("POST /api/logout", h.LogoutHandler)

	mux.HandleFunc("GET /api/posts", h.HomeHandler)
	mux.HandleFunc("GET /api/posts/{id}", h.PostDetailHandler)
	mux.Handle("POST /api/posts", authed(h.CreatePostHandler))
	mux.Handle("PUT /api/posts/{id}", authed(h.EditPostHandler))
	mux.Handle("DELETE /api/posts/{id}", authed(h.DeletePostHandler))
	mux.Handle("POST /api/posts/{id}/reactions/{kind}", authed(h.LikePostHandler))

	mux.HandleFunc("GET /api/posts/{id}/comments", h.CommentsHandler)
	mux.Handle("POST /api/posts/{id}/comments", authed(h.CreateCommentHandler))
	mux.Handle("PUT /api/comments/{id}", authed(h.EditCommentHandler))
	mux.Handle("DELETE /api/comments/{id}", authed(h.DeleteCommentHandler))
	mux.Handle("POST /api/comments/{id}/like", authed(h.LikeCommentHandler))

	mux.Handle("POST /api/users/{id}/follow", authed(h.FollowHandler))
	mux.HandleFunc("GET /api/users/{id}/followers", h.FollowersHandler)
	mux.HandleFunc("GET /api/users/{id}/following", h.FollowingHandler)
	mux.HandleFunc("GET /api/profiles/{username}", h.ProfileHandler)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { Render404(w) })
	return mux
}
