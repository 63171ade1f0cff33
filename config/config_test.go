package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Rules.CommentCooldown)
	assert.Equal(t, 300, cfg.Rules.MaxCommentLen)
	assert.Equal(t, 200, cfg.Rules.MaxTitleLen)
	assert.Equal(t, []string{"spam", "advertisement", "clickbait"}, cfg.Rules.ProhibitedWords)
	assert.False(t, cfg.Session.FailOpen)
	assert.Equal(t, 120, cfg.Server.RateLimit)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forum.yaml")
	yamlDoc := `
database:
  driver: postgres
  dsn: postgres://forum@localhost/forum
session:
  backend: badger
  badger_path: /tmp/sessions
rules:
  comment_cooldown: 10s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv("FORUM_LOG_LEVEL", "warn")
	t.Setenv("FORUM_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "badger", cfg.Session.Backend)
	assert.Equal(t, 10*time.Second, cfg.Rules.CommentCooldown)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, 300, cfg.Rules.MaxCommentLen)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"FORUM_DB_DRIVER":        "mysql",
		"FORUM_SESSION_BACKEND":  "redis",
		"FORUM_SESSION_HOURS":    "zero",
		"FORUM_COMMENT_COOLDOWN": "soon",
		"FORUM_RATE_LIMIT":       "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
