package session

import (
	"context"
	"time"

	"github.com/niamhfoley-dev/assignment-4/internal/database"
)

// SQLStore keeps cooldowns in the comment_cooldowns table of the content
// store, so they survive restarts and are shared by every server process
// on the same database.
type SQLStore struct {
	db *database.Store
}

func NewSQLStore(db *database.Store) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Claim(ctx context.Context, key string, now time.Time, cooldown time.Duration) (Claim, error) {
	var (
		prev time.Time
		ok   bool
	)
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		var err error
		prev, ok, err = q.ClaimCooldown(ctx, key, now, cooldown)
		return err
	})
	if err != nil {
		return Claim{}, err
	}
	if !ok {
		return Claim{}, &CooldownError{Remaining: remaining(prev, now, cooldown)}
	}
	return Claim{Key: key, At: now, Prev: prev, Cooldown: cooldown}, nil
}

func (s *SQLStore) Release(ctx context.Context, c Claim) error {
	return s.db.RestoreCooldown(ctx, c.Key, c.At, c.Prev)
}

func (s *SQLStore) Sweep(ctx context.Context, before time.Time) (int64, error) {
	return s.db.DeleteStaleCooldowns(ctx, before)
}

// Close is a no-op; the content store is closed by its owner.
func (s *SQLStore) Close() error { return nil }
