package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/models"
)

// AccountRepository defines the interface for account lookup
type AccountRepository interface {
	GetAccount(username string) (*models.Account, error)
}

// AuthService handles login business logic
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Session(token string) (*models.Session, error)
	Logout(token string)
}

// AuthServiceImpl implements AuthService with in-memory sessions
type AuthServiceImpl struct {
	accounts    AccountRepository
	glitchDelay time.Duration
	logger      *log.Logger
	sleep       func(ctx context.Context, d time.Duration) error

	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewAuthService creates a new auth service. Logins of glitch accounts take
// glitchDelay longer.
func NewAuthService(accounts AccountRepository, glitchDelay time.Duration, logger *log.Logger) AuthService {
	return &AuthServiceImpl{
		accounts:    accounts,
		glitchDelay: glitchDelay,
		logger:      logger,
		sleep:       sleepContext,
		sessions:    make(map[string]*models.Session),
	}
}

// Login checks the credentials and opens a session
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetAccount(username)
	if errors.Is(err, models.ErrAccountNotFound) {
		return nil, models.ErrCredentialsMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := account.Authenticate(password); err != nil {
		s.logger.Info("login rejected", "username", username, "reason", err)
		return nil, err
	}

	if account.Glitch && s.glitchDelay > 0 {
		s.logger.Debug("delaying glitch login", "username", username, "delay", s.glitchDelay)
		if err := s.sleep(ctx, s.glitchDelay); err != nil {
			return nil, fmt.Errorf("login interrupted: %w", err)
		}
	}

	session := models.NewSession(username)
	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.logger.Info("login succeeded", "username", username)
	return session, nil
}

// Session looks up an open session by token
func (s *AuthServiceImpl) Session(token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

// Logout drops the session; unknown tokens are ignored
func (s *AuthServiceImpl) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
