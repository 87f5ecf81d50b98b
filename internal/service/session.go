package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"awdtrack/internal/auth"
	"awdtrack/internal/model"
	"awdtrack/internal/repository"
)

// TokenManager signs and verifies session tokens.
type TokenManager interface {
	Generate(sess model.Session) (string, error)
	Verify(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token   string        `json:"token"`
	Session model.Session `json:"session"`
}

// SessionService authenticates callers.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Verify resolves a bearer token to its live session.
	Verify(ctx context.Context, token string) (model.Session, error)
	Logout(ctx context.Context, sess model.Session) error
}

type sessionService struct {
	accounts repository.AccountRepository
	store    auth.SessionStore
	tokens   TokenManager
	log      zerolog.Logger
	now      func() time.Time
}

// NewSessionService constructs a new SessionService.
func NewSessionService(accounts repository.AccountRepository, store auth.SessionStore, tokens TokenManager, log zerolog.Logger) SessionService {
	return &sessionService{
		accounts: accounts,
		store:    store,
		tokens:   tokens,
		log:      log.With().Str("component", "session_service").Logger(),
		now:      time.Now,
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logFor(ctx, &s.log).Info().Str("email", email).Msg("login_unknown_account")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(acc.PasswordHash, password); err != nil {
		logFor(ctx, &s.log).Info().Str("account_id", acc.ID).Msg("login_bad_password")
		return nil, ErrInvalidCredentials
	}

	sess := model.Session{
		ID:        uuid.New().String(),
		AccountID: acc.ID,
		Name:      acc.Name,
		Role:      acc.Division,
		ExpiresAt: s.now().Add(s.tokens.TTL()).UTC(),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	token, err := s.tokens.Generate(sess)
	if err != nil {
		if delErr := s.store.Delete(ctx, sess.ID); delErr != nil {
			logFor(ctx, &s.log).Warn().Err(delErr).Str("session_id", sess.ID).Msg("session_rollback_failed")
		}
		return nil, err
	}
	logFor(ctx, &s.log).Info().Str("account_id", acc.ID).Str("role", string(acc.Division)).Msg("login")
	return &LoginResult{Token: token, Session: sess}, nil
}

func (s *sessionService) Verify(ctx context.Context, token string) (model.Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	sess, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return model.Session{}, ErrUnauthorized
		}
		return model.Session{}, err
	}
	if sess.Role != claims.Role || !sess.ExpiresAt.After(s.now()) {
		return model.Session{}, ErrUnauthorized
	}
	return sess, nil
}

func (s *sessionService) Logout(ctx context.Context, sess model.Session) error {
	if sess.ID == "" {
		return ErrIDRequired
	}
	return s.store.Delete(ctx, sess.ID)
}
