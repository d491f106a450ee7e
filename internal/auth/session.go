// Package auth is the login gate in front of the dashboard and ticket
// screens. It checks a single configured account and keeps a flag in storage
// while the user is logged in. It offers no real protection.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kavantix/ticketflow/internal/storage"
)

const DefaultSessionKey = "ticketflow_session"

type Credentials struct {
	Email    string
	Password string
}

// TestCredentials is the account accepted when nothing else is configured.
var TestCredentials = Credentials{
	Email:    "user@test.com",
	Password: "password123",
}

type Result struct {
	Success bool
	Error   string
}

type Session struct {
	storage     storage.Storage
	key         string
	credentials Credentials
	log         *slog.Logger
}

type Option func(*Session)

func WithKey(key string) Option {
	return func(s *Session) {
		s.key = key
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

func NewSession(backend storage.Storage, credentials Credentials, opts ...Option) *Session {
	if backend == nil {
		panic("auth.NewSession: storage is nil")
	}
	s := &Session{
		storage:     backend,
		key:         DefaultSessionKey,
		credentials: credentials,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UsesTestCredentials reports whether the session accepts TestCredentials, in
// which case the login screen may show them as a hint.
func (s *Session) UsesTestCredentials() bool {
	return s.credentials == TestCredentials
}

// ValidateLogin returns the field errors of the login form.
func ValidateLogin(email, password string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(email) == "" {
		errs["email"] = "Email is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

func (s *Session) Login(ctx context.Context, email, password string) Result {
	emailMatch := strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(s.credentials.Email))
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.credentials.Password)) == 1
	if !emailMatch || !passwordMatch {
		s.log.Info("login_rejected")
		return Result{Error: "Invalid email or password"}
	}

	if err := s.storage.Write(ctx, s.key, []byte(strings.TrimSpace(email))); err != nil {
		s.log.Error("login_persist_failed", slog.String("err", err.Error()))
		return Result{Error: "Login failed. Please try again."}
	}
	s.log.Info("login_succeeded")
	return Result{Success: true}
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	value, err := s.storage.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("session_read_failed", slog.String("err", err.Error()))
		}
		return false
	}
	return len(value) > 0
}

func (s *Session) Logout(ctx context.Context) error {
	err := s.storage.Delete(ctx, s.key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
