package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nikhil181511/smartplan/internal/config"
	"github.com/nikhil181511/smartplan/internal/notes"
	"github.com/nikhil181511/smartplan/internal/storage/sqlitedb"
	"github.com/nikhil181511/smartplan/internal/tasks"
)

// loadConfig applies the debug flag and loads the config file named on the
// command line. A missing file yields defaults.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStores builds the task and note stores for the configured backend.
// The returned closer releases the shared database handle, if any.
func openStores(cfg *config.Config) (tasks.Store, notes.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "file":
		return tasks.NewFileStore(cfg.Storage.Dir), notes.NewFileStore(cfg.Storage.Dir), func() {}, nil
	case "sqlite":
		db, err := sqlitedb.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		taskStore, err := tasks.NewSQLStore(db)
		if err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init task store: %w", err)
		}
		noteStore, err := notes.NewSQLStore(db)
		if err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init note store: %w", err)
		}
		return taskStore, noteStore, func() { db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
