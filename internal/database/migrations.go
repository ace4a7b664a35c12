package database

import (
	"database/sql"
	"fmt"

	"github.com/adyen/loginsuite/internal/models"
)

const createAccountsTable = `
	CREATE TABLE IF NOT EXISTS accounts (
		username VARCHAR(255) PRIMARY KEY,
		password VARCHAR(255) NOT NULL,
		locked_out BOOLEAN NOT NULL DEFAULT FALSE,
		glitch BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_locked_out ON accounts(locked_out);
	`

// RunMigrations creates the accounts table and seeds the demo accounts
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	if err := Migrate(DB); err != nil {
		return err
	}
	return Seed(DB, models.DefaultAccounts())
}

// Migrate creates the necessary tables on db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(createAccountsTable); err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}
	return nil
}

// Seed inserts accounts that do not exist yet. Existing rows are left alone.
func Seed(db *sql.DB, accounts []*models.Account) error {
	query := `
		INSERT INTO accounts (username, password, locked_out, glitch, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
	`
	for _, a := range accounts {
		if _, err := db.Exec(query, a.Username, a.Password, a.LockedOut, a.Glitch, a.CreatedAt); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", a.Username, err)
		}
	}
	return nil
}
