package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/dateutil"
)

// dayAliases maps day spellings to indices, 0=Monday.
var dayAliases = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

var dayShortNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (a *App) windowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "Manage availability windows",
		Long: `Manage recurring availability windows. A window marks hours of the
week as off-limits for study blocks: sleep, classes, training. Windows
may wrap past midnight (e.g. 22:30-07:00).`,
	}

	cmd.AddCommand(a.windowsAddCmd())
	cmd.AddCommand(a.windowsListCmd())
	cmd.AddCommand(a.windowsRemoveCmd())

	return cmd
}

func (a *App) windowsAddCmd() *cobra.Command {
	var (
		start string
		end   string
		days  string
	)

	cmd := &cobra.Command{
		Use:   "add [label]",
		Short: "Add an availability window",
		Example: `  minerva windows add "Sleep" --start=22:30 --end=07:00 --days=daily
  minerva windows add "Football" --start=17:00 --end=19:00 --days=tue,thu`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			startHour, err := dateutil.ParseClock(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endHour, err := dateutil.ParseClock(end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			dayList, err := parseDays(days)
			if err != nil {
				return err
			}

			w := &block.AvailabilityWindow{
				Label:     args[0],
				StartHour: startHour,
				EndHour:   endHour,
				Days:      dayList,
			}

			ctx := context.Background()
			existing, err := a.repo.ListWindows(ctx)
			if err != nil {
				return fmt.Errorf("listing windows: %w", err)
			}
			if err := block.ValidateWindow(w, existing); err != nil {
				return err
			}
			if err := a.repo.CreateWindow(ctx, w); err != nil {
				return fmt.Errorf("creating window: %w", err)
			}

			fmt.Printf("Created window #%d: %s %s-%s on %s\n",
				w.ID, w.Label,
				dateutil.FormatClock(w.StartHour),
				dateutil.FormatClock(w.EndHour),
				formatDays(w.Days))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM); earlier than start wraps past midnight")
	cmd.Flags().StringVar(&days, "days", "daily", "Days: comma-separated names, weekdays, weekend, or daily")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) windowsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List availability windows",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			windows, err := a.repo.ListWindows(context.Background())
			if err != nil {
				return fmt.Errorf("listing windows: %w", err)
			}
			if len(windows) == 0 {
				fmt.Println("No availability windows configured.")
				return nil
			}

			for _, w := range windows {
				span := fmt.Sprintf("%s-%s",
					dateutil.FormatClock(w.StartHour),
					dateutil.FormatClock(w.EndHour))
				fmt.Printf("  #%d  %-11s  %-22s %s\n",
					w.ID, span, w.Label, formatMuted(formatDays(w.Days)))
			}
			return nil
		},
	}
}

func (a *App) windowsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [window-id]",
		Short: "Remove an availability window",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid window ID: %w", err)
			}
			if err := a.repo.DeleteWindow(context.Background(), id); err != nil {
				return fmt.Errorf("deleting window: %w", err)
			}

			fmt.Printf("Deleted window #%d\n", id)
			return nil
		},
	}
}

// parseDays turns a --days value into day indices, 0=Monday.
func parseDays(s string) ([]int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "all":
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	case "weekdays":
		return []int{0, 1, 2, 3, 4}, nil
	case "weekend":
		return []int{5, 6}, nil
	}

	var days []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		day, ok := dayAliases[part]
		if !ok {
			return nil, fmt.Errorf("unknown day %q", part)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no days given")
	}
	return days, nil
}

// formatDays renders day indices as short names, or a compact alias.
func formatDays(days []int) string {
	if len(days) == 7 {
		return "daily"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < 7 {
			names = append(names, dayShortNames[d])
		}
	}
	return strings.Join(names, ",")
}
