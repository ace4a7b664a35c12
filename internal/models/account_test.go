package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"both filled", "standard_user", "secret_sauce", nil},
		{"both empty", "", "", ErrUsernameRequired},
		{"username empty", "", "secret_sauce", ErrUsernameRequired},
		{"password empty", "standard_user", "", ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.username, tt.password)
			if err != tt.wantErr {
				t.Errorf("ValidateCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccount_Authenticate(t *testing.T) {
	tests := []struct {
		name     string
		account  Account
		password string
		wantErr  error
	}{
		{"right password", Account{Password: "secret_sauce"}, "secret_sauce", nil},
		{"wrong password", Account{Password: "secret_sauce"}, "wrong_password", ErrCredentialsMismatch},
		{"locked out", Account{Password: "secret_sauce", LockedOut: true}, "secret_sauce", ErrLockedOut},
		{"locked out with wrong password", Account{Password: "secret_sauce", LockedOut: true}, "nope", ErrCredentialsMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Authenticate(tt.password)
			if err != tt.wantErr {
				t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSadfaceMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrUsernameRequired, "Epic sadface: Username is required"},
		{ErrPasswordRequired, "Epic sadface: Password is required"},
		{ErrCredentialsMismatch, "Epic sadface: Username and password do not match any user in this service"},
		{ErrLockedOut, "Epic sadface: Sorry, this user has been locked out."},
		{ErrNotLoggedIn, "Epic sadface: You can only access '/inventory.html' when you are logged in."},
		{fmt.Errorf("login failed: %w", ErrLockedOut), "Epic sadface: Sorry, this user has been locked out."},
		{errors.New("database is down"), "Epic sadface: Something went wrong, please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := SadfaceMessage(tt.err); got != tt.want {
				t.Errorf("SadfaceMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	s1 := NewSession("standard_user")
	s2 := NewSession("standard_user")

	if s1.Token == "" {
		t.Error("Session token should not be empty")
	}
	if s1.Token == s2.Token {
		t.Error("Session tokens should be unique")
	}
	if s1.Username != "standard_user" {
		t.Errorf("Expected username standard_user, got %s", s1.Username)
	}
	if s1.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestDefaultAccounts(t *testing.T) {
	accounts := DefaultAccounts()
	if len(accounts) != 6 {
		t.Fatalf("Expected 6 accounts, got %d", len(accounts))
	}

	byName := map[string]*Account{}
	for _, a := range accounts {
		if a.Password != DefaultPassword {
			t.Errorf("%s: expected the shared password", a.Username)
		}
		byName[a.Username] = a
	}

	if a := byName["locked_out_user"]; a == nil || !a.LockedOut {
		t.Error("locked_out_user should be locked out")
	}
	if a := byName["performance_glitch_user"]; a == nil || !a.Glitch {
		t.Error("performance_glitch_user should glitch")
	}
	if a := byName["standard_user"]; a == nil || a.LockedOut || a.Glitch {
		t.Error("standard_user should be a plain account")
	}
}
