package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range [][]string{{"serve"}, {"migrate"}, {"user", "create"}, {"cleanup"}} {
		sub, _, err := cmd.Find(name)
		require.NoError(t, err)
		assert.Equal(t, name[len(name)-1], sub.Name())
	}

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestMigrateUserCleanup(t *testing.T) {
	t.Setenv("FORUM_DB_DSN", filepath.Join(t.TempDir(), "forum.db"))

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema applied (sqlite3)")

	out, err = run(t, "user", "create", "--username", "alice", "--email", "alice@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "created user 1 (alice)")

	_, err = run(t, "user", "create", "--username", "Alice", "--email", "other@example.com", "--password", "secret123")
	assert.Error(t, err)

	out, err = run(t, "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 sessions, 0 cooldowns")
}

func TestBadgerBackend(t *testing.T) {
	t.Setenv("FORUM_DB_DSN", filepath.Join(t.TempDir(), "forum.db"))
	t.Setenv("FORUM_SESSION_BACKEND", "badger")
	t.Setenv("FORUM_SESSION_BADGER_PATH", filepath.Join(t.TempDir(), "cooldowns"))

	out, err := run(t, "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 sessions")
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("FORUM_DB_DRIVER", "mysql")
	_, err := run(t, "migrate")
	assert.Error(t, err)
}

func TestUserCreateRequiresFlags(t *testing.T) {
	_, err := run(t, "user", "create", "--username", "alice")
	assert.Error(t, err)
}
