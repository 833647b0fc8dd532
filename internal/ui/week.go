package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/dateutil"
)

func (a *App) weekCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show this week's study blocks",
		Long: `Display this week's study blocks with stats.

Shows Monday through Sunday of the current ISO week in a table format
and summarizes scheduled, completed, and per-subject time.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			monday, sunday := dateutil.WeekRange(time.Now())
			blocks, err := a.repo.ListBlocksByDateRange(context.Background(), monday, sunday)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			if len(blocks) == 0 {
				fmt.Println("No study blocks scheduled for this week.")
				return nil
			}

			header := fmt.Sprintf("WEEK: %s - %s",
				monday.Format("Mon Jan 2"), sunday.Format("Mon Jan 2, 2006"))
			fmt.Printf("\n  %s\n", formatHeader(header))
			fmt.Println(strings.Repeat("─", 74))

			opts := PrintOpts{Verbose: verbose, ShowDuration: true}
			maxDescWidth := opts.CalcMaxDescWidth(40)

			printWeekTable(blocks, opts, maxDescWidth)

			var stats Stats
			for _, b := range blocks {
				AccumulateStats(&stats, b)
			}

			fmt.Println(strings.Repeat("─", 74))
			PrintStats(stats)
			if len(stats.SubjectMinutes) > 1 {
				fmt.Println()
				PrintSubjectBreakdown(stats)
			}
			if stats.ScheduledMinutes > 0 {
				fmt.Printf("  Progress: %s\n",
					ProgressBar(stats.CompletedMinutes, stats.ScheduledMinutes, 20))
			}

			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full block titles")
	return cmd
}

func printWeekTable(blocks []*block.TimeBlock, opts PrintOpts, maxDescWidth int) {
	var currentDate string
	for _, b := range blocks {
		date := b.StartDateTime.Format("2006-01-02")
		dayName := b.StartDateTime.Format("Mon Jan 2")

		// Print day header if new day
		if date != currentDate {
			if currentDate != "" {
				fmt.Println()
			}
			fmt.Printf("  %s\n", formatHeader(dayName))
			currentDate = date
		}

		PrintBlockRow(b, opts, maxDescWidth)
	}
}
