// Package session keeps the per-session comment cooldown: the time of the
// last accepted comment of each authenticated session.
//
// A Store claims the cooldown atomically. Claim checks that the previous
// comment is old enough and records the new one in a single step, so two
// concurrent comments from one session cannot both pass. If the comment
// that claimed is then not stored, Release hands the slot back.
package session

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Claim is a successful cooldown reservation.
type Claim struct {
	Key      string
	At       time.Time // recorded as the last accepted comment time
	Prev     time.Time // what was recorded before; zero if nothing
	Cooldown time.Duration
}

// CooldownError is returned by Claim while the cooldown is still running.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("session: cooldown active, %d seconds remaining", e.RemainingSeconds())
}

// RemainingSeconds rounds up, so a caller told to wait N seconds is never
// early.
func (e *CooldownError) RemainingSeconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

// Store is the cooldown state shared by every request of a session.
type Store interface {
	// Claim records now for key unless the last record is younger than
	// cooldown, in which case it returns a *CooldownError.
	Claim(ctx context.Context, key string, now time.Time, cooldown time.Duration) (Claim, error)
	// Release undoes c if nothing claimed the key after it.
	Release(ctx context.Context, c Claim) error
	// Sweep forgets records older than before and reports how many went.
	Sweep(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

func remaining(prev, now time.Time, cooldown time.Duration) time.Duration {
	left := prev.Add(cooldown).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
