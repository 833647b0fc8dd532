package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anagarval/minerva/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		week      bool
		backlog   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blocks in a date range",
		Long: `List study blocks scheduled within a date range.

If no dates are specified, lists today's blocks.
If only --start is specified, lists blocks for that single day.
If both --start and --end are specified, lists blocks in that range (inclusive).
With --week, lists the current ISO week; with --backlog, unscheduled blocks.`,
		Example: `  minerva list
  minerva list --start=2026-01-15 --end=2026-01-20
  minerva list --week
  minerva list --backlog`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			if backlog {
				return a.listBacklog(ctx)
			}

			start := dateutil.TruncateToDay(time.Now())
			if startDate != "" {
				parsed, err := dateutil.ParseDate(startDate)
				if err != nil {
					return err
				}
				start = parsed
			}
			end := start
			if endDate != "" {
				parsed, err := dateutil.ParseDate(endDate)
				if err != nil {
					return err
				}
				end = parsed
			}
			if week {
				start, end = dateutil.WeekRange(time.Now())
			}

			blocks, err := a.repo.ListBlocksByDateRange(ctx, start, end)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			if len(blocks) == 0 {
				fmt.Println("No blocks found in the specified date range.")
				return nil
			}

			// Print blocks grouped by date
			var currentDate string
			for _, b := range blocks {
				date := b.StartDateTime.Format("2006-01-02")
				if date != currentDate {
					if currentDate != "" {
						fmt.Println()
					}
					fmt.Printf("=== %s ===\n", date)
					currentDate = date
				}
				PrintBlockRow(b, PrintOpts{ShowDuration: true}, 40)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().BoolVar(&week, "week", false, "List the current week (Monday through Sunday)")
	cmd.Flags().BoolVar(&backlog, "backlog", false, "List unscheduled blocks")

	return cmd
}

func (a *App) listBacklog(ctx context.Context) error {
	blocks, err := a.repo.ListBlocks(ctx)
	if err != nil {
		return fmt.Errorf("listing blocks: %w", err)
	}

	count := 0
	for _, b := range blocks {
		if b.IsScheduled() || b.Completed {
			continue
		}
		PrintBlockRow(b, PrintOpts{ShowDuration: true}, 40)
		count++
	}
	if count == 0 {
		fmt.Println("Backlog is empty.")
	}
	return nil
}
