package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/mongostore"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/mysqlstore"
)

// Usage example on the command line:
// > STORE_DRIVER=mysql DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/database.sql
// > STORE_DRIVER=mongo CONNECTION_STRING=mongodb://localhost:27017 go run main.go
func main() {
	filePtr := flag.String("file", "database.sql", "the sql file to execute (mysql only)")
	timeoutPtr := flag.Duration("timeout", time.Minute, "how long the migration may take")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutPtr)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMySQL:
		sqlDB, err := mysqlstore.Open(cfg.MySQL)
		if err != nil {
			logger.Fatal("failed to open database", "error", err)
		}
		defer sqlDB.Close()

		readFile, err := os.Open(*filePtr) // nosemgrep
		if err != nil {
			logger.Fatal("failed to open sql file", "error", err, "file", *filePtr)
		}
		defer readFile.Close()

		n, err := mysqlstore.Migrate(ctx, sqlDB, readFile)
		if err != nil {
			logger.Fatal("migration failed", "error", err, "file", *filePtr)
		}
		logger.Info("migration complete", "statements", n, "file", *filePtr)

	case config.DriverMongo:
		s, err := mongostore.New(cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("failed to create mongo client", "error", err)
		}
		defer s.Close(context.Background())

		if err := s.EnsureIndexes(ctx); err != nil {
			logger.Fatal("migration failed", "error", err)
		}
		logger.Info("migration complete")

	default:
		logger.Info("nothing to migrate", "store", cfg.StoreDriver)
	}
}
