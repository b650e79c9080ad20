package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-manager/internal/config"
	"gitlab.com/dirk.krummacker/contact-manager/internal/logger"
	"gitlab.com/dirk.krummacker/contact-manager/internal/store"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/seed.sql
func main() {
	filePtr := flag.String("file", "", "the sql file to execute; the built-in schema if empty")
	flag.Parse()

	cfg, err := config.LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}
	log, cleanup, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger:", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := migrate(context.Background(), cfg, *filePtr); err != nil {
		log.Error("migration failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	log.Info("migration finished", zap.String("driver", cfg.DBDriver), zap.String("file", *filePtr))
}

func migrate(ctx context.Context, cfg config.Service, file string) error {
	sqlDB, err := store.Open(ctx, store.Options{
		Driver:     cfg.DBDriver,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Host:       cfg.DBHost,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if file == "" {
		return store.Migrate(ctx, sqlDB, cfg.DBDriver)
	}
	readFile, err := os.Open(file) // nosemgrep
	if err != nil {
		return err
	}
	defer readFile.Close()
	return store.ExecScript(ctx, sqlDB, readFile)
}
