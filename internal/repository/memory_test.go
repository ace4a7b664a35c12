package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/adyen/loginsuite/internal/models"
)

func TestMemoryAccountRepository_GetAccount(t *testing.T) {
	repo := NewMemoryAccountRepository(models.DefaultAccounts()...)

	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"existing account", "standard_user", nil},
		{"locked account", "locked_out_user", nil},
		{"unknown account", "nobody", models.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := repo.GetAccount(tt.username)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetAccount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && account.Username != tt.username {
				t.Errorf("Username mismatch: got %v, want %v", account.Username, tt.username)
			}
		})
	}
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryAccountRepository(models.DefaultAccounts()...)

	a, _ := repo.GetAccount("standard_user")
	a.LockedOut = true

	b, _ := repo.GetAccount("standard_user")
	if b.LockedOut {
		t.Error("Mutating a returned account should not change the store")
	}
}

func TestMemoryAccountRepository_CreateAndLock(t *testing.T) {
	repo := NewMemoryAccountRepository()

	if err := repo.CreateAccount(&models.Account{Username: "new_user", Password: "pw"}); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if err := repo.CreateAccount(&models.Account{Username: "new_user"}); err == nil {
		t.Error("Expected error for duplicate username")
	}

	if err := repo.SetLockedOut("new_user", true); err != nil {
		t.Fatalf("SetLockedOut() error = %v", err)
	}
	got, _ := repo.GetAccount("new_user")
	if !got.LockedOut {
		t.Error("new_user should be locked out")
	}

	if err := repo.SetLockedOut("nobody", true); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestMemoryAccountRepository_ConcurrentAccess(t *testing.T) {
	repo := NewMemoryAccountRepository(models.DefaultAccounts()...)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := repo.GetAccount("standard_user"); err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
		}()
		go func(locked bool) {
			defer wg.Done()
			if err := repo.SetLockedOut("problem_user", locked); err != nil {
				t.Errorf("Concurrent write failed: %v", err)
			}
		}(i%2 == 0)
	}
	wg.Wait()
}
