package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/mycontacts/internal/auth"
	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/contacts"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/service"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/memory"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/mongostore"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/mysqlstore"
	"gitlab.com/dirk.krummacker/mycontacts/internal/token"
)

// startupPingTimeout bounds the first attempt to open the store.
const startupPingTimeout = 10 * time.Second

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// Usage example on the command line:
// > PORT=10000 CONNECTION_STRING=mongodb://localhost:27017 ACCESS_TOKEN_SECRET=s3cr3t go run main.go
// > STORE_DRIVER=mysql DBUSER=dirk DBPWD=bullo92 GIN_LOGGING=off go run main.go
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	s := openStore(ctx, cfg, logger)

	authService, err := auth.NewService(s, token.NewJWT(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL), cfg.Auth.BcryptCost, logger)
	if err != nil {
		logger.Fatal("failed to initialize auth service", "error", err)
	}
	validator, err := contacts.NewValidator(cfg.Validation.Policy)
	if err != nil {
		logger.Fatal("failed to initialize contact validation", "error", err)
	}

	router := service.SetupHttpRouter(service.Dependencies{
		Config:    cfg,
		Logger:    logger,
		Auth:      authService,
		Contacts:  contacts.NewService(s, validator, logger),
		Store:     s,
		Version:   buildVersion,
		StartedAt: time.Now(),
	})
	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logAppVersion()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server on", "address", srv.Addr, "store", cfg.StoreDriver, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("received interruption signal, shutting down")
	case err := <-serveErr:
		if err != nil {
			logger.Error("failed to start server", "error", err, "address", srv.Addr)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Addr)
	}
	if err := s.Close(shutdownCtx); err != nil {
		logger.Error("error closing store", "error", err)
	}
	logger.Info("shutdown complete")
}

// openStore connects the configured store. If the database cannot be reached the server still
// starts: data requests answer 503 and /health reports the database as disconnected until a
// later attempt to open it succeeds.
func openStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) store.Store {
	logger = logger.With("store", cfg.StoreDriver)
	var open store.Opener
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New()
	case config.DriverMySQL:
		open = mysqlstore.Opener(cfg.MySQL, logger)
	default:
		open = mongostore.Opener(cfg.Mongo, logger)
	}

	s := store.NewDeferred(open, cfg.StoreRetryInterval)
	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		logger.Error("database not reachable at startup, serving in degraded mode", "error", err,
			"retry", cfg.StoreRetryInterval)
	}
	return s
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
