package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anagarval/minerva/internal/autoplan"
	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/llm"
)

func (a *App) planCmd() *cobra.Command {
	var (
		modelFlag string
		dryRun    bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Auto-schedule the backlog",
		Long: `Place every unscheduled block on the week grid.

With an LLM provider configured, the model proposes placements which are
re-validated locally before anything is saved. Without one, a local
first-fit planner is used. Pinned and completed blocks are never moved.

Example:
  minerva plan
  minerva plan --dry-run
  minerva plan --yes`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			blocks, err := a.repo.ListBlocks(ctx)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}
			windows, err := a.repo.ListWindows(ctx)
			if err != nil {
				return fmt.Errorf("listing windows: %w", err)
			}

			// Use config default for model if not overridden
			model := modelFlag
			if model == "" {
				model = a.config.LLM.Model
			}

			var client llm.Client
			if a.config.HasLLM() {
				client, err = llm.NewClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL, a.config.LLM.APIKeyEnv)
				if err != nil {
					return fmt.Errorf("creating LLM client: %w", err)
				}
				fmt.Println("Asking the scheduling collaborator...")
			} else {
				fmt.Println("No LLM provider configured, using the local planner.")
			}

			planner := autoplan.New(client, autoplan.Options{
				MaxStudyHoursPerDay: a.config.Schedule.MaxStudyHoursPerDay,
				PreferredRestMin:    a.config.Schedule.PreferredRestMinutes,
				SubjectPreferences:  a.config.Schedule.SubjectPreferences,
			})

			requestID := planner.NextRequestID()
			proposal, err := planner.Propose(ctx, requestID, blocks, windows, time.Now())
			if errors.Is(err, autoplan.ErrNoTasks) {
				fmt.Println("Backlog is empty, nothing to schedule.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("planning: %w", err)
			}

			displayProposal(proposal, blocks)

			if dryRun {
				fmt.Println("\n(Dry run - nothing saved)")
				return nil
			}

			if !yes {
				fmt.Print("\n[a]ccept / [c]ancel: ")
				reader := bufio.NewReader(os.Stdin)
				choice, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				choice = strings.TrimSpace(strings.ToLower(choice))
				if choice != "a" && choice != "accept" {
					fmt.Println("Planning cancelled.")
					return nil
				}
			}

			merged, err := planner.Apply(proposal, blocks)
			if err != nil {
				return fmt.Errorf("applying proposal: %w", err)
			}
			if err := a.repo.ReplaceBlocks(ctx, merged); err != nil {
				return fmt.Errorf("saving schedule: %w", err)
			}

			fmt.Printf("\n%d blocks scheduled, %d left unscheduled\n",
				len(proposal.Accepted), len(proposal.Unscheduled))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model to use (from config if not set)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposal without saving")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept the proposal without prompting")

	return cmd
}

// displayProposal shows a scheduling proposal to the user.
func displayProposal(proposal *autoplan.Proposal, blocks []*block.TimeBlock) {
	byID := make(map[int64]*block.TimeBlock, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	fmt.Println()
	if len(proposal.Accepted) > 0 {
		fmt.Println(formatHeader("  PROPOSED SCHEDULE"))
		fmt.Println(strings.Repeat("─", 60))
		for _, p := range proposal.Accepted {
			title := fmt.Sprintf("#%d", p.BlockID)
			if b := byID[p.BlockID]; b != nil {
				title = fmt.Sprintf("%s [%s]", b.Title, b.Subject)
			}
			fmt.Printf("  %s  %s\n",
				formatScheduled(p.Start.Format("Mon Jan 2 15:04")), title)
			if p.Conflicted {
				fmt.Printf("      %s\n", formatWarn("overlaps the existing schedule"))
			}
			if p.Reasoning != "" {
				fmt.Printf("      %s\n", formatMuted(p.Reasoning))
			}
		}
	}

	if len(proposal.Unscheduled) > 0 {
		fmt.Println()
		fmt.Println(formatHeader("  UNSCHEDULED"))
		fmt.Println(strings.Repeat("─", 60))
		for _, u := range proposal.Unscheduled {
			title := "#" + u.ID
			if id, err := strconv.ParseInt(u.ID, 10, 64); err == nil {
				if b := byID[id]; b != nil {
					title = b.Title
				}
			}
			fmt.Printf("  %s %s: %s\n", formatWarn("!"), title, u.Reason)
			for _, s := range u.Suggestions {
				fmt.Printf("      %s\n", formatMuted("* "+s))
			}
		}
	}

	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("  Scheduled: %s  |  Unscheduled: %d  |  Weekly study: %.1fh\n",
		formatStats(strconv.Itoa(len(proposal.Accepted))),
		len(proposal.Unscheduled),
		proposal.Insights.WeeklyStudyHours)

	if len(proposal.Insights.Recommendations) > 0 {
		fmt.Println()
		fmt.Println(formatHeader("  RECOMMENDATIONS"))
		for _, r := range proposal.Insights.Recommendations {
			PrintInsightWrapped("- "+r, 58)
		}
	}
}
