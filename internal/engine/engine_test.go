package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/niamhfoley-dev/assignment-4/config"
	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/logging"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
	"github.com/niamhfoley-dev/assignment-4/internal/session"
	"github.com/niamhfoley-dev/assignment-4/internal/testutil"
)

var ctx = context.Background()

type fixture struct {
	eng   *engine.Engine
	store *database.Store
	clock *testutil.Clock
}

func newFixture(t *testing.T, opts ...func(*engine.Options)) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	clock := testutil.NewClock()
	o := engine.Options{
		Store:     store,
		Cooldowns: session.NewSQLStore(store),
		Rules:     config.DefaultRules(),
		Clock:     clock,
		Logger:    logging.Discard(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &fixture{eng: engine.New(o), store: store, clock: clock}
}

// user creates a member and returns an identity with its own session.
func (f *fixture) user(t *testing.T, name string) engine.Identity {
	t.Helper()
	u := testutil.CreateUser(t, f.store, name)
	return engine.Identity{UserID: u.ID, Username: u.Username, SessionID: "session-" + name}
}

func (f *fixture) post(t *testing.T, author engine.Identity, title string) *models.Post {
	t.Helper()
	p, err := f.eng.CreatePost(ctx, author, engine.PostInput{Title: title, Content: title + " body"})
	require.NoError(t, err)
	return p
}

// comment creates a comment and moves the clock past the cooldown.
func (f *fixture) comment(t *testing.T, author engine.Identity, postID int64, content string, parent *int64) *models.Comment {
	t.Helper()
	c, err := f.eng.CreateComment(ctx, author, postID, content, parent)
	require.NoError(t, err)
	f.clock.Advance(31 * time.Second)
	return c
}

func (f *fixture) rows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.store.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func requireKind(t *testing.T, err error, kind engine.Kind) {
	t.Helper()
	require.Error(t, err)
	var ee *engine.Error
	require.True(t, errors.As(err, &ee), "want *engine.Error, got %T: %v", err, err)
	require.Equal(t, kind, ee.Kind, ee.Message)
}
