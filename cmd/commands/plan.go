package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/nikhil181511/smartplan/internal/models"
	"github.com/nikhil181511/smartplan/internal/planner"
	"github.com/nikhil181511/smartplan/internal/tasks"
)

// NewPlanCommand returns the plan subcommand.
func NewPlanCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Turn free-form text into a structured task plan",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Model provider to use (default provider when empty)",
			},
			&cli.BoolFlag{
				Name:  "apply",
				Usage: "Create the proposed tasks after planning",
			},
		},
		Action: runPlan,
	}
}

func runPlan(ctx context.Context, cmd *cli.Command) error {
	input := strings.Join(cmd.Args().Slice(), " ")
	if input == "" {
		return fmt.Errorf("usage: smartplan plan <text>")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Models.Default == "" {
		return fmt.Errorf("no default model configured")
	}

	taskStore, _, closeStores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	repo := tasks.NewRepository(taskStore, nil)
	user := cmd.String("user")

	existing, err := existingTasks(ctx, repo, user)
	if err != nil {
		return err
	}

	p := planner.New(models.NewRegistry(cfg.Models), nil)
	plan, err := p.AnalyzeAndPlan(ctx, user, input, existing, cmd.String("model"))
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	printPlan(plan)

	if !cmd.Bool("apply") {
		return nil
	}

	drafts, err := plan.Drafts()
	if err != nil {
		return fmt.Errorf("convert plan: %w", err)
	}

	ids, err := repo.CreateBatch(ctx, user, drafts)
	if err != nil {
		fmt.Printf("\nCreated %d of %d task(s); some failed: %v\n", len(ids), len(drafts), err)
		return nil
	}
	fmt.Printf("\nCreated %d task(s).\n", len(ids))
	return nil
}

func existingTasks(ctx context.Context, repo *tasks.Repository, user string) ([]planner.ExistingTask, error) {
	list, err := repo.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	existing := make([]planner.ExistingTask, 0, len(list))
	for _, t := range list {
		existing = append(existing, planner.ExistingTask{
			Title:         t.Title,
			ScheduledFor:  t.ScheduledFor.Format("2006-01-02"),
			EstimatedTime: t.EstimatedTime,
			Priority:      string(t.Priority),
		})
	}
	return existing, nil
}

func printPlan(plan *planner.Plan) {
	fmt.Printf("%s\n\n%s\n\n", plan.Title, plan.Overview)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPRIORITY\tESTIMATE\tTASK")
	for _, t := range plan.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ScheduledFor, t.Priority, t.EstimatedTime, t.Task)
	}
	w.Flush()

	if len(plan.Conflicts) > 0 {
		fmt.Println("\nConflicts:")
		for _, c := range plan.Conflicts {
			fmt.Printf("  - %s\n", c)
		}
	}
}
