package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/dateutil"
)

func (a *App) addCmd() *cobra.Command {
	var (
		subject    string
		duration   int
		importance int
		difficulty int
		date       string
		at         string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a study block",
		Long: `Add a study block to the backlog, or directly onto the week grid.

Without --date and --at the block lands in the backlog, ready for
auto-scheduling. With both it is placed and pinned at that slot.

The --date flag accepts relative dates: today, tomorrow, weekday names,
next-monday, next-week, or an explicit YYYY-MM-DD.

Example:
  minerva add "Derivatives worksheet" --subject=Math --duration=90
  minerva add "Mock exam" --subject=History --date=friday --at=16:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			b, err := block.New(subject, args[0], duration, importance, difficulty)
			if err != nil {
				return err
			}

			if date != "" || at != "" {
				if date == "" {
					date = "today"
				}
				if at == "" {
					return fmt.Errorf("--at is required when --date is given")
				}
				day, err := dateutil.ParseRelativeDate(date, time.Now())
				if err != nil {
					return err
				}
				hour, err := dateutil.ParseClock(at)
				if err != nil {
					return err
				}
				b.SetStart(dateutil.At(day, hour))
				b.Pinned = true
			}

			ctx := context.Background()
			if err := a.repo.CreateBlock(ctx, b); err != nil {
				return fmt.Errorf("creating block: %w", err)
			}

			if b.IsScheduled() {
				fmt.Printf("Created block #%d: %s [%s] %s %s-%s\n",
					b.ID, b.Title, b.Subject,
					b.StartDateTime.Format("2006-01-02"),
					dateutil.FormatClock(b.StartHour()),
					dateutil.FormatClock(b.EndHour()),
				)
			} else {
				fmt.Printf("Created block #%d: %s [%s] %s (backlog)\n",
					b.ID, b.Title, b.Subject, FormatDuration(b.DurationMinutes))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "General", "Subject the block belongs to")
	cmd.Flags().IntVar(&duration, "duration", 60, "Duration in minutes")
	cmd.Flags().IntVar(&importance, "importance", 50, "Importance 0-100, used by auto-scheduling")
	cmd.Flags().IntVar(&difficulty, "difficulty", 50, "Difficulty 0-100, used by auto-scheduling")
	cmd.Flags().StringVar(&date, "date", "", "Schedule on this date (relative or YYYY-MM-DD)")
	cmd.Flags().StringVar(&at, "at", "", "Schedule at this start time (HH:MM)")

	return cmd
}
