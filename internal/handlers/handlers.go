// Package handlers exposes the engines as a JSON API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/auth"
	"github.com/niamhfoley-dev/assignment-4/internal/engine"
)

const maxBodyBytes = 1 << 20

// Handler serves every API route.
type Handler struct {
	engine       *engine.Engine
	auth         *auth.Service
	log          *logrus.Logger
	secureCookie bool
}

func New(eng *engine.Engine, authSvc *auth.Service, log *logrus.Logger, secureCookie bool) *Handler {
	return &Handler{engine: eng, auth: authSvc, log: log, secureCookie: secureCookie}
}

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: kind, Message: msg})
}

// Render400 answers a malformed request.
func Render400(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, string(engine.KindValidation), message)
}

func Render404(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, string(engine.KindNotFound), "not found")
}

// RenderError maps an engine failure to its HTTP status. Not-found and
// unavailable get generic messages; validation and rate limiting say what
// was wrong.
func (h *Handler) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	var ee *engine.Error
	if !errors.As(err, &ee) {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("unclassified error")
		ee = &engine.Error{Kind: engine.KindUnavailable}
	}

	body := errorBody{Error: string(ee.Kind), Message: ee.Message}
	status := http.StatusServiceUnavailable
	switch ee.Kind {
	case engine.KindNotFound:
		status, body.Message = http.StatusNotFound, "not found"
	case engine.KindForbidden:
		status = http.StatusForbidden
	case engine.KindUnauthenticated:
		status = http.StatusUnauthorized
	case engine.KindValidation, engine.KindSelfFollow:
		status = http.StatusBadRequest
	case engine.KindRateLimited:
		status = http.StatusTooManyRequests
		body.RetryAfter = ee.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(body.RetryAfter))
	case engine.KindConflict:
		status = http.StatusConflict
	default:
		body.Message = "service temporarily unavailable, try again later"
	}
	writeJSON(w, status, body)
}

// decode reads a JSON request body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Render400(w, "invalid JSON body")
		return false
	}
	return true
}

// pathID parses the {name} path segment as an entity id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		Render404(w)
		return 0, false
	}
	return id, true
}
