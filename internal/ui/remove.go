package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [block-id]",
		Short: "Delete a block",
		Long: `Delete a study block by its ID.

Example:
  minerva remove 42`,
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
			if err := a.repo.DeleteBlock(ctx, id); err != nil {
				return fmt.Errorf("deleting block: %w", err)
			}

			fmt.Printf("Deleted block #%d\n", id)
			return nil
		},
	}
}
