package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/config"
	"github.com/fortuna/boreas/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "boreas",
	Short: "boreas scrapes AHL game reports and keeps standings points current.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and opens the store.
// The schema is migrated on every open so any command works against a
// fresh database file.
func bootstrap() (*config.Config, *logrus.Logger, *store.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	db, err := store.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if parsed, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	}
	return log
}
