//go:build integration
// +build integration

package repository

import (
	"errors"
	"testing"

	"github.com/adyen/loginsuite/internal/database"
	"github.com/adyen/loginsuite/internal/models"
	"github.com/adyen/loginsuite/internal/repository/testutil"
)

func TestAccountRepository_SeededAccounts_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewAccountRepositoryWithDB(testDB.DB)

	for _, want := range models.DefaultAccounts() {
		t.Run(want.Username, func(t *testing.T) {
			got, err := repo.GetAccount(want.Username)
			if err != nil {
				t.Fatalf("GetAccount() error = %v", err)
			}
			if got.Password != want.Password {
				t.Errorf("Password mismatch: got %v, want %v", got.Password, want.Password)
			}
			if got.LockedOut != want.LockedOut {
				t.Errorf("LockedOut mismatch: got %v, want %v", got.LockedOut, want.LockedOut)
			}
			if got.Glitch != want.Glitch {
				t.Errorf("Glitch mismatch: got %v, want %v", got.Glitch, want.Glitch)
			}
		})
	}
}

func TestAccountRepository_CreateAccount_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewAccountRepositoryWithDB(testDB.DB)

	account := &models.Account{Username: "new_user", Password: "pw"}
	if err := repo.CreateAccount(account); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if account.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := repo.GetAccount("new_user")
	if err != nil {
		t.Fatalf("Failed to retrieve created account: %v", err)
	}
	if got.Password != "pw" || got.LockedOut {
		t.Errorf("Unexpected account: %+v", got)
	}

	// Usernames are unique
	if err := repo.CreateAccount(&models.Account{Username: "new_user", Password: "other"}); err == nil {
		t.Error("Expected error when creating a duplicate username, got nil")
	}
}

func TestAccountRepository_GetAccount_NotFound_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewAccountRepositoryWithDB(testDB.DB)

	_, err := repo.GetAccount("nobody")
	if !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepository_SetLockedOut_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewAccountRepositoryWithDB(testDB.DB)

	if err := repo.SetLockedOut("standard_user", true); err != nil {
		t.Fatalf("SetLockedOut() error = %v", err)
	}
	got, err := repo.GetAccount("standard_user")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if !got.LockedOut {
		t.Error("standard_user should be locked out")
	}

	if err := repo.SetLockedOut("nobody", true); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepository_SeedIsIdempotent_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewAccountRepositoryWithDB(testDB.DB)
	if err := repo.SetLockedOut("standard_user", true); err != nil {
		t.Fatalf("SetLockedOut() error = %v", err)
	}

	// Seeding again must not reset existing rows
	if err := database.Seed(testDB.DB, models.DefaultAccounts()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	got, err := repo.GetAccount("standard_user")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if !got.LockedOut {
		t.Error("Seed should not overwrite existing accounts")
	}
}

func TestAccountRepository_SchemaIsolation_Integration(t *testing.T) {
	testDB1 := testutil.SetupTestDatabase(t)
	defer testDB1.Teardown(t)

	testDB2 := testutil.SetupTestDatabase(t)
	defer testDB2.Teardown(t)

	repo1 := NewAccountRepositoryWithDB(testDB1.DB)
	repo2 := NewAccountRepositoryWithDB(testDB2.DB)

	if err := repo1.CreateAccount(&models.Account{Username: "isolated_user", Password: "pw"}); err != nil {
		t.Fatalf("Failed to create account in first schema: %v", err)
	}

	if _, err := repo2.GetAccount("isolated_user"); err == nil {
		t.Error("Account should not exist in second schema")
	}
}
