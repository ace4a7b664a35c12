package cli

import (
	"fmt"
	"net"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/config"
	"github.com/adyen/loginsuite/internal/database"
	"github.com/adyen/loginsuite/internal/models"
	"github.com/adyen/loginsuite/internal/repository"
	"github.com/adyen/loginsuite/internal/services"
)

// OpenAccountStore returns the account store named by cfg and a func that
// releases it
func OpenAccountStore(cfg config.ServerConfig, logger *log.Logger) (services.AccountRepository, func() error, error) {
	if cfg.AccountStore != config.AccountStorePostgres {
		return repository.NewMemoryAccountRepository(models.DefaultAccounts()...), func() error { return nil }, nil
	}

	if err := database.Connect(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database")

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("database migrations completed")

	return repository.NewAccountRepository(), database.Close, nil
}

// LocalTarget is a stand-in server started in process
type LocalTarget struct {
	BaseURL string
	stop    func() error
}

// Stop shuts the server down and releases the account store
func (l *LocalTarget) Stop() error {
	return l.stop()
}

// StartLocalTarget serves the stand-in site on a free loopback port
func StartLocalTarget(cfg config.ServerConfig, logger *log.Logger) (*LocalTarget, error) {
	accounts, closeStore, err := OpenAccountStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	cfg.Port = "0"
	deps, err := BuildServerDependencies(cfg, accounts, logger)
	if err != nil {
		closeStore()
		return nil, err
	}

	listener, server, err := StartServer(deps)
	if err != nil {
		closeStore()
		return nil, err
	}

	port := listener.Addr().(*net.TCPAddr).Port
	return &LocalTarget{
		BaseURL: fmt.Sprintf("http://127.0.0.1:%d/", port),
		stop: func() error {
			server.Close()
			listener.Close()
			return closeStore()
		},
	}, nil
}
