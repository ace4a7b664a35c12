package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultPassword is shared by every demo account
const DefaultPassword = "secret_sauce"

// Account represents a shop user that can log in
type Account struct {
	Username  string
	Password  string
	LockedOut bool
	// Glitch marks the account whose logins are artificially slow
	Glitch    bool
	CreatedAt time.Time
}

// Session represents a logged in browser
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
}

// Domain errors
var (
	ErrUsernameRequired    = errors.New("username is required")
	ErrPasswordRequired    = errors.New("password is required")
	ErrCredentialsMismatch = errors.New("username and password do not match")
	ErrLockedOut           = errors.New("account is locked out")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrAccountNotFound     = errors.New("account not found")
	ErrSessionNotFound     = errors.New("session not found")
)

// Banners shown by the login page for each domain error
var sadfaces = []struct {
	err     error
	message string
}{
	{ErrUsernameRequired, "Username is required"},
	{ErrPasswordRequired, "Password is required"},
	{ErrCredentialsMismatch, "Username and password do not match any user in this service"},
	{ErrLockedOut, "Sorry, this user has been locked out."},
	{ErrNotLoggedIn, "You can only access '/inventory.html' when you are logged in."},
}

// SadfaceMessage returns the login page banner for err. Errors that are not
// login failures get a generic banner.
func SadfaceMessage(err error) string {
	for _, s := range sadfaces {
		if errors.Is(err, s.err) {
			return "Epic sadface: " + s.message
		}
	}
	return "Epic sadface: Something went wrong, please try again."
}

// ValidateCredentials checks that both fields were filled in, username first
func ValidateCredentials(username, password string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Authenticate checks the password, then the lock. A locked account with a
// wrong password reports the mismatch.
func (a *Account) Authenticate(password string) error {
	if a.Password != password {
		return ErrCredentialsMismatch
	}
	if a.LockedOut {
		return ErrLockedOut
	}
	return nil
}

// NewSession creates a session for username with a fresh token
func NewSession(username string) *Session {
	return &Session{
		Token:     uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now(),
	}
}

// DefaultAccounts returns the demo shop's accounts
func DefaultAccounts() []*Account {
	now := time.Now()
	return []*Account{
		{Username: "standard_user", Password: DefaultPassword, CreatedAt: now},
		{Username: "locked_out_user", Password: DefaultPassword, LockedOut: true, CreatedAt: now},
		{Username: "problem_user", Password: DefaultPassword, CreatedAt: now},
		{Username: "performance_glitch_user", Password: DefaultPassword, Glitch: true, CreatedAt: now},
		{Username: "error_user", Password: DefaultPassword, CreatedAt: now},
		{Username: "visual_user", Password: DefaultPassword, CreatedAt: now},
	}
}
