package session

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

const (
	keyPrefix       = "cooldown/"
	conflictRetries = 5
)

// BadgerStore keeps cooldowns in an embedded badger database. Every record
// carries a TTL equal to the cooldown, so stale entries disappear on their
// own. Claims run in optimistic transactions and are retried on conflict.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a store under path. An empty path keeps
// everything in memory.
func OpenBadger(path string, logger *logrus.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		// logrus.Logger already has the Errorf/Warningf/Infof/Debugf set badger wants.
		opts = opts.WithLogger(logger)
	} else {
		opts = opts.WithLoggingLevel(badger.ERROR)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("session: open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(key string) []byte {
	return []byte(keyPrefix + key)
}

func encodeTime(t time.Time) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))
	return buf
}

func decodeTime(b []byte) (time.Time, error) {
	if len(b) != 8 {
		return time.Time{}, fmt.Errorf("session: corrupt cooldown value (%d bytes)", len(b))
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(b))).UTC(), nil
}

func readTime(txn *badger.Txn, key []byte) (time.Time, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	var t time.Time
	err = item.Value(func(val []byte) error {
		var derr error
		t, derr = decodeTime(val)
		return derr
	})
	return t, err
}

// update runs fn in a read-write transaction, retrying when a concurrent
// transaction touched the same key first.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < conflictRetries; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("session: giving up after %d conflicts: %w", conflictRetries, err)
}

func (s *BadgerStore) Claim(ctx context.Context, key string, now time.Time, cooldown time.Duration) (Claim, error) {
	k := badgerKey(key)
	var claim Claim
	err := s.update(ctx, func(txn *badger.Txn) error {
		prev, err := readTime(txn, k)
		if err != nil {
			return err
		}
		if !prev.IsZero() && now.Sub(prev) < cooldown {
			return &CooldownError{Remaining: remaining(prev, now, cooldown)}
		}
		claim = Claim{Key: key, At: now, Prev: prev, Cooldown: cooldown}
		return txn.SetEntry(badger.NewEntry(k, encodeTime(now)).WithTTL(cooldown))
	})
	if err != nil {
		return Claim{}, err
	}
	return claim, nil
}

func (s *BadgerStore) Release(ctx context.Context, c Claim) error {
	k := badgerKey(c.Key)
	return s.update(ctx, func(txn *badger.Txn) error {
		cur, err := readTime(txn, k)
		if err != nil {
			return err
		}
		if !cur.Equal(c.At) {
			return nil
		}
		left := remaining(c.Prev, c.At, c.Cooldown)
		if c.Prev.IsZero() || left == 0 {
			return txn.Delete(k)
		}
		return txn.SetEntry(badger.NewEntry(k, encodeTime(c.Prev)).WithTTL(left))
	})
}

// Sweep only runs value log garbage collection; expiry itself is handled
// by the TTL, so it never reports removed records.
func (s *BadgerStore) Sweep(ctx context.Context, _ time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := s.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
		return 0, fmt.Errorf("session: badger gc: %w", err)
	}
	return 0, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
