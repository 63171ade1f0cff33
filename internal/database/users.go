package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

var (
	ErrUsernameTaken = errors.New("database: username already exists")
	ErrEmailTaken    = errors.New("database: email already exists")
)

// FoldKey is the uniqueness key for usernames and emails: NFC-normalised,
// trimmed and Unicode case-folded. "Alice" and "ALICE" collide, as do
// composed and decomposed spellings of the same name.
func FoldKey(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// CreateUser inserts u and fills u.ID. Username and email clashes are
// reported as ErrUsernameTaken / ErrEmailTaken.
func (q *Queries) CreateUser(ctx context.Context, u *models.User) error {
	id, err := q.insertID(ctx, `
		INSERT INTO users (username, username_key, email, email_key, password_hash,
			bio, location, website, profile_picture, is_private, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, FoldKey(u.Username), u.Email, FoldKey(u.Email), u.PasswordHash,
		u.Bio, u.Location, u.Website, u.ProfilePicture, u.IsPrivate, u.JoinedAt.UTC())
	if err != nil {
		if IsUniqueViolation(err) {
			return q.whichTaken(ctx, u)
		}
		return fmt.Errorf("database: create user: %w", err)
	}
	u.ID = id
	return nil
}

func (q *Queries) whichTaken(ctx context.Context, u *models.User) error {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM users WHERE email_key = ?", FoldKey(u.Email))
	if err != nil {
		return fmt.Errorf("database: check email: %w", err)
	}
	if n > 0 {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

const userColumns = `id, username, email, password_hash, bio, location, website, profile_picture, is_private, joined_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.Location,
		&u.Website, &u.ProfilePicture, &u.IsPrivate, &u.JoinedAt)
	if err != nil {
		return nil, notFound(err)
	}
	u.JoinedAt = u.JoinedAt.UTC()
	return &u, nil
}

func (q *Queries) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(q.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// UserByUsername looks a user up under the case-insensitive policy.
func (q *Queries) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(q.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username_key = ?", FoldKey(username)))
}

// UserByLogin accepts either a username or an email.
func (q *Queries) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	key := FoldKey(login)
	return scanUser(q.queryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email_key = ? OR username_key = ? ORDER BY id LIMIT 1", key, key))
}

func (q *Queries) UserExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := q.queryRow(ctx, "SELECT 1 FROM users WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("database: user exists: %w", err)
	}
	return true, nil
}
