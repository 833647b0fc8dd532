package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/dateutil"
)

// Stats holds aggregated statistics for a set of blocks.
type Stats struct {
	ScheduledMinutes int
	CompletedMinutes int
	BacklogMinutes   int
	TotalBlocks      int
	PinnedBlocks     int
	DayStats         map[string]DayStats
	SubjectMinutes   map[string]int
}

// DayStats holds statistics for a single day.
type DayStats struct {
	Minutes int
	Blocks  int
}

// TotalMinutes returns the sum of scheduled and backlog minutes.
func (s Stats) TotalMinutes() int {
	return s.ScheduledMinutes + s.BacklogMinutes
}

// CompletedPercent returns the share of scheduled time already completed.
func (s Stats) CompletedPercent() int {
	if s.ScheduledMinutes == 0 {
		return 0
	}
	return (s.CompletedMinutes * 100) / s.ScheduledMinutes
}

// BusiestDay returns the day with the most scheduled minutes.
func (s Stats) BusiestDay() (day string, minutes int) {
	for d, ds := range s.DayStats {
		if ds.Minutes > minutes {
			minutes = ds.Minutes
			day = d
		}
	}
	return day, minutes
}

// TopSubjects returns subjects ordered by scheduled minutes, most first.
func (s Stats) TopSubjects() []string {
	subjects := make([]string, 0, len(s.SubjectMinutes))
	for sub := range s.SubjectMinutes {
		subjects = append(subjects, sub)
	}
	sort.Slice(subjects, func(i, j int) bool {
		if s.SubjectMinutes[subjects[i]] != s.SubjectMinutes[subjects[j]] {
			return s.SubjectMinutes[subjects[i]] > s.SubjectMinutes[subjects[j]]
		}
		return subjects[i] < subjects[j]
	})
	return subjects
}

// AccumulateStats updates stats based on a block.
func AccumulateStats(stats *Stats, b *block.TimeBlock) {
	stats.TotalBlocks++

	if !b.IsScheduled() {
		if !b.Completed {
			stats.BacklogMinutes += b.DurationMinutes
		}
		return
	}

	stats.ScheduledMinutes += b.DurationMinutes
	if b.Completed {
		stats.CompletedMinutes += b.DurationMinutes
	}
	if b.Pinned {
		stats.PinnedBlocks++
	}

	if stats.DayStats == nil {
		stats.DayStats = make(map[string]DayStats)
	}
	dayKey := b.StartDateTime.Format("2006-01-02")
	ds := stats.DayStats[dayKey]
	ds.Minutes += b.DurationMinutes
	ds.Blocks++
	stats.DayStats[dayKey] = ds

	if stats.SubjectMinutes == nil {
		stats.SubjectMinutes = make(map[string]int)
	}
	stats.SubjectMinutes[b.Subject] += b.DurationMinutes
}

// statusSymbol returns the status indicator for a block.
func statusSymbol(b *block.TimeBlock) string {
	switch {
	case b.Completed:
		return formatDone("✓")
	case b.IsScheduled():
		return formatScheduled("○")
	default:
		return formatMuted("•")
	}
}

// PrintOpts configures block printing behavior.
type PrintOpts struct {
	Verbose      bool // Show full titles
	ShowDuration bool // Show duration column
	MaxDescWidth int  // Maximum title width (0 = auto)
}

// CalcMaxDescWidth calculates the maximum title width based on options.
func (o PrintOpts) CalcMaxDescWidth(defaultWidth int) int {
	if o.MaxDescWidth > 0 {
		return o.MaxDescWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	tw := termWidth()
	// Base: "  ○  HH:MM-HH:MM  [Subject]  " = ~30 chars
	// Duration suffix: "  XhYm" = ~8 chars
	overhead := 30
	if o.ShowDuration {
		overhead += 8
	}
	available := tw - overhead
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintBlockRow prints a single block row with consistent formatting.
func PrintBlockRow(b *block.TimeBlock, opts PrintOpts, maxDescWidth int) {
	symbol := statusSymbol(b)
	subject := formatScheduled(fmt.Sprintf("[%s]", b.Subject))
	if b.Completed {
		subject = formatDone(fmt.Sprintf("[%s]", b.Subject))
	}

	title := b.Title
	if len(title) > maxDescWidth {
		title = title[:maxDescWidth-3] + "..."
	}

	var span string
	if b.IsScheduled() {
		span = fmt.Sprintf("%s-%s",
			dateutil.FormatClock(b.StartHour()),
			dateutil.FormatClock(b.EndHour()))
	} else {
		span = "   --:--   "
	}

	if opts.ShowDuration {
		duration := formatMuted(FormatDuration(b.DurationMinutes))
		fmt.Printf("  %s #%d  %s  %s  %-*s  %s\n",
			symbol, b.ID, span, subject, maxDescWidth, title, duration)
		return
	}
	fmt.Printf("  %s #%d  %s  %s  %s\n", symbol, b.ID, span, subject, title)
}

// PrintStats prints the stats summary line.
func PrintStats(stats Stats) {
	scheduled := formatScheduled(fmt.Sprintf("Scheduled: %s", FormatDuration(stats.ScheduledMinutes)))
	done := formatDone(fmt.Sprintf("Done: %s (%d%%)", FormatDuration(stats.CompletedMinutes), stats.CompletedPercent()))
	fmt.Printf("  %s  |  %s  |  Blocks: %d\n", scheduled, done, stats.TotalBlocks)

	if stats.BacklogMinutes > 0 {
		fmt.Printf("  %s\n", formatMuted(fmt.Sprintf("Backlog: %s unscheduled", FormatDuration(stats.BacklogMinutes))))
	}
	if day, minutes := stats.BusiestDay(); day != "" {
		fmt.Printf("  Busiest day: %s (%s)\n", day, formatStats(FormatDuration(minutes)))
	}
}

// PrintSubjectBreakdown prints per-subject scheduled time, most first.
func PrintSubjectBreakdown(stats Stats) {
	for _, subject := range stats.TopSubjects() {
		fmt.Printf("  %-14s %s\n", subject, formatStats(FormatDuration(stats.SubjectMinutes[subject])))
	}
}

// ProgressBar creates an ASCII bar showing completed vs scheduled time.
func ProgressBar(completedMinutes, scheduledMinutes, width int) string {
	if scheduledMinutes == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% Done)"
	}

	pct := (completedMinutes * 100) / scheduledMinutes
	filled := (completedMinutes * width) / scheduledMinutes

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatDone(bar), formatStats(fmt.Sprintf("(%d%% Done)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// PrintInsightWrapped formats and prints recommendation text preserving structure.
func PrintInsightWrapped(text string, width int) {
	// Strip markdown code blocks
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Println()
			continue
		}

		// Detect and format special line types
		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			fmt.Println()
			fmt.Println(formatHeader("  " + content))
			continue
		}

		wrapAndPrint(content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		// Bullet point
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		// Header - strip # and signal to print as header
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		// Blockquote
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		// Numbered item (1. or 10.)
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	continuationPrefix := strings.Repeat(" ", len(prefix))
	isFirstLine := true

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			// Print current line and start new one
			printLine(prefix, continuationPrefix, line, isFirstLine)
			isFirstLine = false
			line = word
		}
	}

	if line != "" {
		printLine(prefix, continuationPrefix, line, isFirstLine)
	}
}

func printLine(prefix, continuationPrefix, line string, isFirstLine bool) {
	if isFirstLine {
		fmt.Println(formatInsight(prefix + line))
	} else {
		fmt.Println(formatInsight(continuationPrefix + line))
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue // Skip the fence line
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
