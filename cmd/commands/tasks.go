package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nikhil181511/smartplan/internal/tasks"
)

// NewTasksCommand returns the tasks subcommand.
func NewTasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Manage tasks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List tasks ordered by scheduled time",
				Action: runTasksList,
			},
			{
				Name:      "add",
				Usage:     "Add a task",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "priority",
						Aliases: []string{"p"},
						Usage:   "High, Medium, or Low",
						Value:   "Medium",
					},
					&cli.StringFlag{
						Name:    "estimate",
						Aliases: []string{"e"},
						Usage:   "Estimated time, e.g. '45 mins'",
					},
					&cli.StringFlag{
						Name:  "at",
						Usage: "Scheduled time (RFC3339, '2006-01-02 15:04', or '2006-01-02')",
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Free-form notes",
					},
				},
				Action: runTasksAdd,
			},
			{
				Name:      "done",
				Usage:     "Mark a task completed",
				ArgsUsage: "<task_id>",
				Action:    runTasksDone,
			},
			{
				Name:      "undone",
				Usage:     "Mark a task not completed",
				ArgsUsage: "<task_id>",
				Action:    runTasksUndone,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				ArgsUsage: "<task_id>",
				Action:    runTasksRemove,
			},
			{
				Name:   "sweep",
				Usage:  "Delete completed tasks scheduled before today",
				Action: runTasksSweep,
			},
		},
		DefaultCommand: "list",
	}
}

// openTaskRepo builds a repository for one-shot CLI use. No bus: a process
// that exits immediately has no use for reminders or live subscribers.
func openTaskRepo(cmd *cli.Command) (*tasks.Repository, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	taskStore, _, closeStores, err := openStores(cfg)
	if err != nil {
		return nil, nil, err
	}
	return tasks.NewRepository(taskStore, nil), closeStores, nil
}

func runTasksList(ctx context.Context, cmd *cli.Command) error {
	repo, closeStores, err := openTaskRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	list, err := repo.List(ctx, cmd.String("user"))
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCHEDULED\tPRIORITY\tESTIMATE\tDONE\tTITLE")
	for _, t := range list {
		done := ""
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.ScheduledFor.Format("2006-01-02 15:04"),
			t.Priority,
			t.EstimatedTime,
			done,
			t.Title,
		)
	}
	return w.Flush()
}

func runTasksAdd(ctx context.Context, cmd *cli.Command) error {
	title := strings.Join(cmd.Args().Slice(), " ")
	if title == "" {
		return fmt.Errorf("usage: smartplan tasks add <title>")
	}

	scheduled, err := parseWhen(cmd.String("at"))
	if err != nil {
		return err
	}

	repo, closeStores, err := openTaskRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	id, err := repo.Create(ctx, cmd.String("user"), tasks.Draft{
		Title:         title,
		Priority:      tasks.Priority(cmd.String("priority")),
		EstimatedTime: cmd.String("estimate"),
		ScheduledFor:  scheduled,
		Notes:         cmd.String("notes"),
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	fmt.Println(id)
	return nil
}

func runTasksDone(ctx context.Context, cmd *cli.Command) error {
	return toggleTask(ctx, cmd, true)
}

func runTasksUndone(ctx context.Context, cmd *cli.Command) error {
	return toggleTask(ctx, cmd, false)
}

func toggleTask(ctx context.Context, cmd *cli.Command, completed bool) error {
	taskID := cmd.Args().First()
	if taskID == "" {
		return fmt.Errorf("task id required")
	}

	repo, closeStores, err := openTaskRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	if err := repo.ToggleCompletion(ctx, taskID, completed); err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	return nil
}

func runTasksRemove(ctx context.Context, cmd *cli.Command) error {
	taskID := cmd.Args().First()
	if taskID == "" {
		return fmt.Errorf("task id required")
	}

	repo, closeStores, err := openTaskRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	if err := repo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func runTasksSweep(ctx context.Context, cmd *cli.Command) error {
	repo, closeStores, err := openTaskRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	deleted, err := repo.Sweep(ctx, cmd.String("user"))
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fmt.Printf("Swept %d task(s).\n", len(deleted))
	return nil
}

// parseWhen accepts RFC3339, a local datetime, or a bare date (local
// midnight). Empty input means tomorrow at 09:00.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		tomorrow := time.Now().AddDate(0, 0, 1)
		return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.Local), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
