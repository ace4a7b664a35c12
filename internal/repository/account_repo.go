package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adyen/loginsuite/internal/database"
	"github.com/adyen/loginsuite/internal/models"
)

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		db: database.DB,
	}
}

// NewAccountRepositoryWithDB creates a new account repository with a specific database connection
func NewAccountRepositoryWithDB(db *sql.DB) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

// CreateAccount inserts a new account
func (r *AccountRepository) CreateAccount(account *models.Account) error {
	query := `
		INSERT INTO accounts (username, password, locked_out, glitch, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	now := time.Now()
	_, err := r.db.Exec(query,
		account.Username,
		account.Password,
		account.LockedOut,
		account.Glitch,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.CreatedAt = now
	return nil
}

// GetAccount retrieves an account by username
func (r *AccountRepository) GetAccount(username string) (*models.Account, error) {
	query := `
		SELECT username, password, locked_out, glitch, created_at
		FROM accounts
		WHERE username = $1
	`

	account := &models.Account{}
	err := r.db.QueryRow(query, username).Scan(
		&account.Username,
		&account.Password,
		&account.LockedOut,
		&account.Glitch,
		&account.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// SetLockedOut locks or unlocks an account
func (r *AccountRepository) SetLockedOut(username string, locked bool) error {
	result, err := r.db.Exec(`UPDATE accounts SET locked_out = $1 WHERE username = $2`, locked, username)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrAccountNotFound
	}

	return nil
}
