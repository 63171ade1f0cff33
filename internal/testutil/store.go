package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/logging"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

// NewStore opens a fresh SQLite content store under t.TempDir and closes
// it when the test ends.
func NewStore(t testing.TB) *database.Store {
	t.Helper()
	store, err := database.Open(context.Background(), database.Options{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "forum.db"),
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// CreateUser inserts a user named name with a dummy credential hash.
func CreateUser(t testing.TB, store *database.Store, name string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		JoinedAt:     Epoch,
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

// CreatePost inserts a post by author directly through the store.
func CreatePost(t testing.TB, store *database.Store, author *models.User, title string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Title: title, Content: title + " body", IsPublic: true, CreatedAt: Epoch}
	require.NoError(t, store.InsertPost(context.Background(), p))
	p.Author = author.Username
	return p
}
