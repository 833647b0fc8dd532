package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *App) completeCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete [block-id]",
		Short: "Mark a block as completed",
		Long: `Mark a study block as completed by its ID. Completed blocks keep
their slot on the grid and are never moved by auto-scheduling.

Example:
  minerva complete 42
  minerva complete 42 --undo`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid block ID: %w", err)
			}

			ctx := context.Background()
			b, err := a.repo.GetBlock(ctx, id)
			if err != nil {
				return err
			}
			b.Completed = !undo
			if err := a.repo.UpdateBlock(ctx, b); err != nil {
				return fmt.Errorf("updating block: %w", err)
			}

			if undo {
				fmt.Printf("Reopened block #%d: %s\n", b.ID, b.Title)
			} else {
				fmt.Printf("Completed block #%d: %s\n", b.ID, b.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the block as not completed")

	return cmd
}
