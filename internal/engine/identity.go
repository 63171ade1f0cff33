package engine

import (
	"context"
	"strconv"
	"time"
)

// Identity is the authenticated caller of an operation. The zero value is
// anonymous.
type Identity struct {
	UserID    int64
	Username  string
	SessionID string // session token; empty for identities not tied to a session
}

// Anonymous is the identity of a caller without a valid session.
var Anonymous = Identity{}

func (id Identity) Authenticated() bool {
	return id.UserID > 0
}

// SessionKey identifies the cooldown slot of this identity.
func (id Identity) SessionKey() string {
	if id.SessionID != "" {
		return id.SessionID
	}
	return "user:" + strconv.FormatInt(id.UserID, 10)
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, or Anonymous.
func IdentityFrom(ctx context.Context) Identity {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return Anonymous
	}
	return id
}

// Clock supplies the current time. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}
