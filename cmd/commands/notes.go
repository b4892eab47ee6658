package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/nikhil181511/smartplan/internal/notes"
)

// NewNotesCommand returns the notes subcommand.
func NewNotesCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "Manage notes",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List notes, most recently updated first",
				Action: runNotesList,
			},
			{
				Name:      "add",
				Usage:     "Add a note",
				ArgsUsage: "<content>",
				Action:    runNotesAdd,
			},
			{
				Name:      "edit",
				Usage:     "Replace a note's content",
				ArgsUsage: "<note_id> <content>",
				Action:    runNotesEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete a note",
				ArgsUsage: "<note_id>",
				Action:    runNotesRemove,
			},
		},
		DefaultCommand: "list",
	}
}

func openNoteRepo(cmd *cli.Command) (*notes.Repository, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	_, noteStore, closeStores, err := openStores(cfg)
	if err != nil {
		return nil, nil, err
	}
	return notes.NewRepository(noteStore, nil), closeStores, nil
}

func runNotesList(ctx context.Context, cmd *cli.Command) error {
	repo, closeStores, err := openNoteRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	list, err := repo.List(ctx, cmd.String("user"))
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUPDATED\tCONTENT")
	for _, n := range list {
		content := n.Content
		if len(content) > 60 {
			content = content[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.UpdatedAt.Format("2006-01-02 15:04"), content)
	}
	return w.Flush()
}

func runNotesAdd(ctx context.Context, cmd *cli.Command) error {
	content := strings.Join(cmd.Args().Slice(), " ")
	if content == "" {
		return fmt.Errorf("usage: smartplan notes add <content>")
	}

	repo, closeStores, err := openNoteRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	id, err := repo.Create(ctx, cmd.String("user"), content)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	fmt.Println(id)
	return nil
}

func runNotesEdit(ctx context.Context, cmd *cli.Command) error {
	noteID := cmd.Args().First()
	content := strings.Join(cmd.Args().Tail(), " ")
	if noteID == "" || content == "" {
		return fmt.Errorf("usage: smartplan notes edit <note_id> <content>")
	}

	repo, closeStores, err := openNoteRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	if err := repo.Update(ctx, noteID, content); err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func runNotesRemove(ctx context.Context, cmd *cli.Command) error {
	noteID := cmd.Args().First()
	if noteID == "" {
		return fmt.Errorf("note id required")
	}

	repo, closeStores, err := openNoteRepo(cmd)
	if err != nil {
		return err
	}
	defer closeStores()

	if err := repo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
