// Package auth is the identity collaborator of the engines: it registers
// members, issues and revokes session tokens, and turns a token back into
// an engine.Identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/models"
)

const DefaultSessionExpiration = 24 * time.Hour

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmailExists     = errors.New("email already exists")
	ErrUsernameExists  = errors.New("username already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("session not found or expired")
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\p{L}0-9_]{2,20}$`) // Unicode letters, numbers, underscore
	passwordRegex = regexp.MustCompile(`^.{6,32}$`)
)

// ValidateUserCredentials checks the registration form fields.
func ValidateUserCredentials(email, username, password string) error {
	if !emailRegex.MatchString(email) || len(email) < 5 || len(email) > 50 {
		return fmt.Errorf("%w: invalid email format or length (5-50 characters)", ErrInvalidInput)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: invalid username format or length (2-20 characters, letters, numbers, underscore only)", ErrInvalidInput)
	}
	if !passwordRegex.MatchString(password) {
		return fmt.Errorf("%w: invalid password format or length (6-32 characters)", ErrInvalidInput)
	}
	return nil
}

// HashPassword hashes a password with bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("auth: failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPasswordHash compares a bcrypt hash with a plain password.
func CheckPasswordHash(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

type Options struct {
	Expiration time.Duration
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
	Clock    engine.Clock
	Logger   *logrus.Logger
}

// Service issues and checks session tokens against the content store.
type Service struct {
	store      *database.Store
	expiration time.Duration
	hashCost   int
	clock      engine.Clock
	log        *logrus.Logger
}

func NewService(store *database.Store, opts Options) *Service {
	s := &Service{
		store:      store,
		expiration: opts.Expiration,
		hashCost:   opts.HashCost,
		clock:      opts.Clock,
		log:        opts.Logger,
	}
	if s.expiration <= 0 {
		s.expiration = DefaultSessionExpiration
	}
	if s.hashCost == 0 {
		s.hashCost = bcrypt.DefaultCost
	}
	if s.clock == nil {
		s.clock = engine.SystemClock
	}
	if s.log == nil {
		s.log = logrus.New()
	}
	return s
}

// Register creates a member. Username and email are unique regardless of
// case.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := ValidateUserCredentials(email, username, password); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(password, s.hashCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		JoinedAt:     s.clock.Now().UTC(),
	}
	switch err := s.store.CreateUser(ctx, u); {
	case errors.Is(err, database.ErrUsernameTaken):
		return nil, ErrUsernameExists
	case errors.Is(err, database.ErrEmailTaken):
		return nil, ErrEmailExists
	case err != nil:
		return nil, fmt.Errorf("auth: failed to insert user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return u, nil
}

// Login checks the credentials and opens a new session, dropping any
// older session of the same user. login may be a username or an email.
func (s *Service) Login(ctx context.Context, login, password string) (*models.User, *models.Session, error) {
	user, err := s.store.UserByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, ErrUserNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("auth: failed to query user: %w", err)
	}

	if err := CheckPasswordHash(user.PasswordHash, password); err != nil {
		// never log the password itself
		s.log.WithFields(logrus.Fields{"user_id": user.ID}).Debug("password check failed")
		return nil, nil, ErrInvalidPassword
	}

	session := &models.Session{
		UserID:  user.ID,
		UUID:    uuid.New().String(),
		Expires: s.clock.Now().UTC().Add(s.expiration),
	}
	err = s.store.WithTx(ctx, func(q *database.Queries) error {
		if err := q.DeleteUserSessions(ctx, user.ID); err != nil {
			return err
		}
		return q.CreateSession(ctx, session)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("auth: failed to create new session: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID}).Info("user logged in")
	return user, session, nil
}

// Logout deletes the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	ok, err := s.store.DeleteSession(ctx, token)
	if err != nil {
		return fmt.Errorf("auth: failed to delete session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Authenticate resolves a session token to the identity the engines act
// for. Expired sessions are removed on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (engine.Identity, error) {
	if token == "" {
		return engine.Anonymous, ErrSessionNotFound
	}
	session, err := s.store.SessionByUUID(ctx, token)
	if errors.Is(err, database.ErrNotFound) {
		return engine.Anonymous, ErrSessionNotFound
	}
	if err != nil {
		return engine.Anonymous, fmt.Errorf("auth: failed to query session: %w", err)
	}

	if s.clock.Now().After(session.Expires) {
		if _, err := s.store.DeleteSession(ctx, token); err != nil {
			s.log.WithError(err).Warn("could not delete expired session")
		}
		return engine.Anonymous, ErrSessionNotFound
	}

	user, err := s.store.UserByID(ctx, session.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return engine.Anonymous, ErrUserNotFound
	}
	if err != nil {
		return engine.Anonymous, fmt.Errorf("auth: failed to query user by session: %w", err)
	}

	return engine.Identity{UserID: user.ID, Username: user.Username, SessionID: session.UUID}, nil
}
