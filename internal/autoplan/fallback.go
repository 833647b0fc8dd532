package autoplan

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/conflict"
)

// proposeLocal is the offline collaborator: a greedy first-fit that places
// the most important work first, scanning quarter-hour starts across the
// seven days from now. It obeys the same constraints the model is asked to
// obey, including the rest gap and the daily cap, and its output flows
// through the same validation and merge path.
func (p *Planner) proposeLocal(requestID int64, req Request, blocks []*block.TimeBlock, windows []*block.AvailabilityWindow, now time.Time) (*Proposal, error) {
	tasks := append([]TaskPayload(nil), req.Tasks...)
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Importance != tasks[j].Importance {
			return tasks[i].Importance > tasks[j].Importance
		}
		return tasks[i].Difficulty > tasks[j].Difficulty
	})

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Hours already committed per date count against the daily cap.
	dailyHours := make(map[string]float64)
	peers := make([]*block.TimeBlock, len(blocks))
	copy(peers, blocks)
	for _, b := range blocks {
		if b.IsScheduled() {
			dailyHours[b.StartDateTime.Format("2006-01-02")] += b.DurationHours()
		}
	}

	resp := &Response{}
	var weeklyHours float64

	for _, t := range tasks {
		id, _ := strconv.ParseInt(t.ID, 10, 64)
		target := findBlock(blocks, id)
		if target == nil {
			continue
		}

		start, ok := p.firstFit(target, peers, windows, dailyHours, today, now)
		if !ok {
			resp.UnscheduledTasks = append(resp.UnscheduledTasks, UnscheduledTask{
				ID:     t.ID,
				Reason: "no free slot this week satisfies the rest gap and daily limit",
				Suggestions: []string{
					"shorten the task or split it",
					"reduce unavailable time windows",
					"raise the daily study limit",
				},
			})
			continue
		}

		placed := target.Clone()
		placed.SetStart(start)
		peers = append(peers, placed)
		dailyHours[start.Format("2006-01-02")] += placed.DurationHours()
		weeklyHours += placed.DurationHours()

		resp.ScheduledTasks = append(resp.ScheduledTasks, ScheduledTask{
			ID:        t.ID,
			StartTime: start.Format("2006-01-02T15:04:05"),
			Reasoning: fmt.Sprintf("first free %d-minute slot honoring rest and daily limits", placed.DurationMinutes),
		})
	}

	resp.Insights = Insights{
		TotalScheduled:   len(resp.ScheduledTasks),
		TotalUnscheduled: len(resp.UnscheduledTasks),
		WeeklyStudyHours: weeklyHours,
	}
	if len(resp.UnscheduledTasks) > 0 {
		resp.Insights.Recommendations = []string{
			"some tasks did not fit; consider freeing up more time this week",
		}
	}

	// The local proposal went through the same conflict checks as a model
	// answer would, but it still runs through the validator so both paths
	// are held to identical rules.
	validation := NewValidator(blocks, windows, p.opts.PreferredRestMin).Validate(resp)
	return buildProposal(requestID, resp, validation), nil
}

// firstFit scans the week for the earliest compliant start for the block.
func (p *Planner) firstFit(target *block.TimeBlock, peers []*block.TimeBlock, windows []*block.AvailabilityWindow, dailyHours map[string]float64, today, now time.Time) (time.Time, bool) {
	duration := target.DurationHours()
	nowHour := float64(now.Hour()) + float64(now.Minute())/60

	for offset := 0; offset < 7; offset++ {
		date := today.AddDate(0, 0, offset)
		if p.opts.MaxStudyHoursPerDay > 0 &&
			dailyHours[date.Format("2006-01-02")]+duration > p.opts.MaxStudyHoursPerDay {
			continue
		}

		for startHour := 0.0; startHour+duration <= 24; startHour += 0.25 {
			if offset == 0 && startHour < nowHour {
				continue
			}

			candidate := target.Clone()
			candidate.SetStart(date.Add(time.Duration(startHour * float64(time.Hour))))
			flags := conflict.Check(candidate, peers, windows, p.opts.PreferredRestMin)
			if flags.Verdict() == conflict.OK {
				return *candidate.StartDateTime, true
			}
		}
	}

	return time.Time{}, false
}
