package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/adyen/loginsuite/internal/models"
)

// MemoryAccountRepository keeps accounts in process. It is the default store
// of the stand-in server.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

// NewMemoryAccountRepository creates a store holding accounts
func NewMemoryAccountRepository(accounts ...*models.Account) *MemoryAccountRepository {
	r := &MemoryAccountRepository{accounts: make(map[string]models.Account, len(accounts))}
	for _, a := range accounts {
		r.accounts[a.Username] = *a
	}
	return r
}

// CreateAccount adds an account; usernames are unique
func (r *MemoryAccountRepository) CreateAccount(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Username]; ok {
		return fmt.Errorf("failed to create account: %s already exists", account.Username)
	}
	account.CreatedAt = time.Now()
	r.accounts[account.Username] = *account
	return nil
}

// GetAccount returns a copy of the account
func (r *MemoryAccountRepository) GetAccount(username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[username]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	return &a, nil
}

// SetLockedOut locks or unlocks an account
func (r *MemoryAccountRepository) SetLockedOut(username string, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return models.ErrAccountNotFound
	}
	a.LockedOut = locked
	r.accounts[username] = a
	return nil
}
