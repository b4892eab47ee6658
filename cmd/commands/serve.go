package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nikhil181511/smartplan/internal/config"
	"github.com/nikhil181511/smartplan/internal/events"
	"github.com/nikhil181511/smartplan/internal/gateway"
	"github.com/nikhil181511/smartplan/internal/heartbeat"
	"github.com/nikhil181511/smartplan/internal/maintenance"
	"github.com/nikhil181511/smartplan/internal/models"
	"github.com/nikhil181511/smartplan/internal/notes"
	"github.com/nikhil181511/smartplan/internal/planner"
	"github.com/nikhil181511/smartplan/internal/reminders"
	"github.com/nikhil181511/smartplan/internal/tasks"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the SmartPlan server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	taskStore, noteStore, closeStores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	taskRepo := tasks.NewRepository(taskStore, bus)
	noteRepo := notes.NewRepository(noteStore, bus)

	if !cfg.Reminders.Disabled {
		scheduler := reminders.New(reminders.Config{
			Bus:      bus,
			Notifier: reminders.LogNotifier{},
			Lead:     cfg.Reminders.Lead.Duration(),
		})
		scheduler.Start()
		defer scheduler.Stop()
	}

	if !cfg.Retention.Disabled {
		sweeper, err := maintenance.NewSweeper(taskRepo, cfg.Retention.CronSpec)
		if err != nil {
			return fmt.Errorf("init sweeper: %w", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	var plannerSvc *planner.Planner
	if cfg.Models.Default != "" {
		plannerSvc = planner.New(models.NewRegistry(cfg.Models), bus)
	} else {
		slog.Warn("no default model configured, planning endpoints disabled")
	}

	server := gateway.NewServer(gateway.Config{
		Bus:     bus,
		Tasks:   taskRepo,
		Notes:   noteRepo,
		Planner: plannerSvc,
		Host:    cfg.Gateway.Host,
		Port:    cfg.Gateway.Port,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	hb := heartbeat.NewWriter(filepath.Join(config.RootPath(), "heartbeat.json"), addr)
	hb.Start()
	defer hb.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
