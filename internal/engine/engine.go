// Package engine implements the social interaction rules: posts, threaded
// comments, post and comment reactions, and the follow graph.
//
// Every state change runs as one transaction of the content store. Checks
// run in a fixed order: identity, then existence, then ownership, then
// content and domain rules, and only then the write. Callers only ever see
// *Error values; store failures are logged and reported as KindUnavailable.
package engine

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/config"
	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/session"
)

// Options wires an Engine.
type Options struct {
	Store     *database.Store
	Cooldowns session.Store
	Rules     config.Rules
	// FailOpen lets comments through when the cooldown store fails.
	FailOpen bool
	Clock    Clock
	Logger   *logrus.Logger
}

// Engine carries the post, comment, reaction and social graph operations.
// It holds no mutable state of its own and is safe for concurrent use.
type Engine struct {
	store     *database.Store
	cooldowns session.Store
	rules     config.Rules
	failOpen  bool
	clock     Clock
	log       *logrus.Logger
}

func New(opts Options) *Engine {
	e := &Engine{
		store:     opts.Store,
		cooldowns: opts.Cooldowns,
		rules:     opts.Rules,
		failOpen:  opts.FailOpen,
		clock:     opts.Clock,
		log:       opts.Logger,
	}
	if e.clock == nil {
		e.clock = SystemClock
	}
	if e.log == nil {
		e.log = logrus.New()
	}
	e.rules = withDefaults(e.rules)
	return e
}

func (e *Engine) now() time.Time {
	return e.clock.Now().UTC()
}

// fail turns a store error into an engine error. Errors that already are
// *Error pass through; a missing row becomes what+" not found"; anything
// else is logged and reported as unavailable.
func (e *Engine) fail(op, what string, err error, fields logrus.Fields) error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}
	if errors.Is(err, database.ErrNotFound) || database.IsForeignKeyViolation(err) {
		return notFound(what)
	}
	entry := e.log.WithError(err).WithField("op", op)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.WithField("transient", database.IsTransient(err)).Error("store operation failed")
	return &Error{Kind: KindUnavailable, Message: "service temporarily unavailable", Err: err}
}
