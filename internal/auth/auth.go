// Package auth owns accounts and login sessions. The rest of the service only
// ever sees the opaque user id it resolves from a session token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/workcal/workcal/internal/model"
)

const passwordCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserStore is the account persistence the service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// SessionStore is the session persistence the service needs.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, token uuid.UUID) (*model.Session, error)
	Delete(ctx context.Context, token uuid.UUID) error
}

type Service struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
	now      func() time.Time
}

func NewService(users UserStore, sessions SessionStore, ttl time.Duration) *Service {
	return &Service{users: users, sessions: sessions, ttl: ttl, now: time.Now}
}

// TTL is how long a new session stays valid.
func (s *Service) TTL() time.Duration { return s.ttl }

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and opens a session for it.
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{Email: NormalizeEmail(email), PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}
	sess, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Login checks email and password and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	sess, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

func (s *Service) openSession(ctx context.Context, userID uuid.UUID) (*model.Session, error) {
	sess := &model.Session{
		Token:     uuid.New(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Authenticate resolves a session token to its owner id.
func (s *Service) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrNotAuthenticated
	}
	id, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if sess == nil || sess.Expired(s.now()) {
		return uuid.Nil, ErrInvalidToken
	}
	return sess.UserID, nil
}

// Logout ends the session for token. Unknown or malformed tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, id)
}

// User returns the account for id, or nil if it no longer exists.
func (s *Service) User(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}
