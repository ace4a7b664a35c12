package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adyen/loginsuite/internal/logging"
	"github.com/adyen/loginsuite/internal/models"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	GetAccountFunc func(string) (*models.Account, error)
}

func (m *MockAccountRepository) GetAccount(username string) (*models.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(username)
	}
	for _, a := range models.DefaultAccounts() {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, models.ErrAccountNotFound
}

func newTestAuthService(repo AccountRepository, delay time.Duration) (*AuthServiceImpl, *[]time.Duration) {
	svc := NewAuthService(repo, delay, logging.Discard()).(*AuthServiceImpl)
	var slept []time.Duration
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return svc, &slept
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"standard user", "standard_user", "secret_sauce", nil},
		{"problem user", "problem_user", "secret_sauce", nil},
		{"wrong password", "standard_user", "wrong_password", models.ErrCredentialsMismatch},
		{"unknown user", "nobody", "secret_sauce", models.ErrCredentialsMismatch},
		{"locked out user", "locked_out_user", "secret_sauce", models.ErrLockedOut},
		{"empty fields", "", "", models.ErrUsernameRequired},
		{"empty password", "standard_user", "", models.ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(&MockAccountRepository{}, 0)

			session, err := svc.Login(context.Background(), tt.username, tt.password)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if session != nil {
					t.Error("Expected session to be nil when error occurs")
				}
				return
			}
			if session.Username != tt.username {
				t.Errorf("Expected username %s, got %s", tt.username, session.Username)
			}
			if _, err := svc.Session(session.Token); err != nil {
				t.Errorf("Session should be stored: %v", err)
			}
		})
	}
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	repo := &MockAccountRepository{
		GetAccountFunc: func(string) (*models.Account, error) {
			return nil, errors.New("database error")
		},
	}
	svc, _ := newTestAuthService(repo, 0)

	_, err := svc.Login(context.Background(), "standard_user", "secret_sauce")

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if errors.Is(err, models.ErrCredentialsMismatch) {
		t.Error("A repository failure should not look like a credentials mismatch")
	}
}

func TestAuthService_Login_GlitchDelay(t *testing.T) {
	svc, slept := newTestAuthService(&MockAccountRepository{}, 5*time.Second)

	if _, err := svc.Login(context.Background(), "standard_user", "secret_sauce"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if len(*slept) != 0 {
		t.Errorf("standard_user should not be delayed, slept %v", *slept)
	}

	if _, err := svc.Login(context.Background(), "performance_glitch_user", "secret_sauce"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 5*time.Second {
		t.Errorf("Expected one 5s delay, got %v", *slept)
	}
}

func TestAuthService_Login_GlitchCancelled(t *testing.T) {
	svc, _ := newTestAuthService(&MockAccountRepository{}, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session, err := svc.Login(ctx, "performance_glitch_user", "secret_sauce")

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if session != nil {
		t.Error("Expected no session for an interrupted login")
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _ := newTestAuthService(&MockAccountRepository{}, 0)
	session, err := svc.Login(context.Background(), "standard_user", "secret_sauce")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	svc.Logout(session.Token)
	svc.Logout("unknown-token")

	if _, err := svc.Session(session.Token); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after logout, got %v", err)
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Cancelled sleep should return immediately")
	}
}
