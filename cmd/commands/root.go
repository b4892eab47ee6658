package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/nikhil181511/smartplan/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "smartplan",
		Usage: "Task planning with retention, reminders, and an AI collaborator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User scope for task and note operations",
				Sources: cli.EnvVars("SMARTPLAN_USER"),
				Value:   "local",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewServeCommand(),
			NewTasksCommand(),
			NewNotesCommand(),
			NewPlanCommand(),
			NewStatusCommand(),
		},
	}
}
