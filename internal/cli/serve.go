package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/config"
	"github.com/adyen/loginsuite/internal/handlers"
	"github.com/adyen/loginsuite/internal/logging"
	"github.com/adyen/loginsuite/internal/services"
)

// ServerDependencies holds all dependencies needed for the stand-in server
type ServerDependencies struct {
	ServerConfig     config.ServerConfig
	Logger           *log.Logger
	LoginHandler     http.Handler
	InventoryHandler http.Handler
	LogoutHandler    http.Handler
}

// BuildServerDependencies wires the auth service and handlers over accounts
func BuildServerDependencies(cfg config.ServerConfig, accounts services.AccountRepository, logger *log.Logger) (ServerDependencies, error) {
	deps := ServerDependencies{ServerConfig: cfg, Logger: logger}

	auth := services.NewAuthService(accounts, cfg.GlitchDelay, logger)

	loginHandler, err := handlers.NewLoginHandler(auth, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create login handler: %w", err)
	}
	deps.LoginHandler = loginHandler

	inventoryHandler, err := handlers.NewInventoryHandler(auth, handlers.DefaultProducts(), logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create inventory handler: %w", err)
	}
	deps.InventoryHandler = inventoryHandler

	deps.LogoutHandler = handlers.NewLogoutHandler(auth)

	return deps, nil
}

// RunServe starts the stand-in server and blocks until a shutdown signal
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.logger())
}

func (d ServerDependencies) logger() *log.Logger {
	if d.Logger == nil {
		return logging.Discard()
	}
	return d.Logger
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	logger := deps.logger()

	// Set up routes
	mux := http.NewServeMux()
	mux.Handle("/", deps.LoginHandler)
	mux.Handle(handlers.InventoryPath, deps.InventoryHandler)
	mux.Handle("/logout", deps.LogoutHandler)

	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, logger *log.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, logger)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, logger *log.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("shutting down server", "signal", sig)

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Force close after the timeout
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
