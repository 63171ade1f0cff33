package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/auth"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates an account.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusConflict, "conflict", "Email already registered.")
		case errors.Is(err, auth.ErrUsernameExists):
			writeError(w, http.StatusConflict, "conflict", "Username already taken.")
		case errors.Is(err, auth.ErrInvalidInput):
			Render400(w, err.Error())
		default:
			h.log.WithError(err).Error("registration failed")
			writeError(w, http.StatusServiceUnavailable, "unavailable", "Registration failed due to a server error.")
		}
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Login    string `json:"login"` // email or username
	Password string `json:"password"`
}

type loginResponse struct {
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
	Expires time.Time    `json:"expires"`
}

// LoginHandler opens a session. The token is set as a cookie and also
// returned for clients that send it as a bearer token.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	user, session, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Invalid email/username or password.")
			return
		}
		h.log.WithError(err).Error("login failed")
		writeError(w, http.StatusServiceUnavailable, "unavailable", "Login failed due to a server error.")
		return
	}

	auth.SetSessionCookie(w, session.UUID, session.Expires, h.secureCookie)
	h.log.WithFields(logrus.Fields{"user_id": user.ID}).Debug("session cookie set")
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: session.UUID, Expires: session.Expires})
}

// LogoutHandler deletes the caller's session and clears the cookie.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
			h.log.WithError(err).Error("error deleting session")
		}
	}
	auth.ClearSessionCookie(w, h.secureCookie)
	w.WriteHeader(http.StatusNoContent)
}
