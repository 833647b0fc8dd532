package autoplan

import (
	"encoding/json"
	"fmt"

	"github.com/anagarval/minerva/internal/llm"
)

const systemPrompt = `You are a study schedule optimizer. You place study tasks into a student's week.

Rules:
1. Schedule tasks only within the 7 days starting at currentDate.
2. Never place a task inside an unavailable time window. Windows where startHour is greater than endHour wrap past midnight.
3. Keep the total scheduled time on any single day at or below maxStudyHoursPerDay hours.
4. Leave at least preferredRestMinutes minutes between consecutive study tasks on the same day.
5. Place high-importance and high-difficulty tasks earlier in the week and at times when focus is typically better.
6. Honor the student's subject preferences when given.
7. Tasks may be left unscheduled when no compliant slot exists. Explain why and suggest what to change.

Respond with JSON only, no markdown, in exactly this shape:
{
  "scheduledTasks": [
    {"id": "1", "startTime": "2025-01-06T16:00:00", "reasoning": "why this slot"}
  ],
  "unscheduledTasks": [
    {"id": "2", "reason": "why it did not fit", "suggestions": ["what to change"]}
  ],
  "insights": {
    "totalScheduled": 1,
    "totalUnscheduled": 1,
    "weeklyStudyHours": 1.5,
    "recommendations": ["overall advice"]
  }
}

startTime must be local ISO 8601 with no timezone suffix. Every task id from the input must appear exactly once, in either scheduledTasks or unscheduledTasks.`

// BuildMessages creates the initial conversation for a scheduling request.
func BuildMessages(req Request) ([]llm.Message, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schedule request: %w", err)
	}

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Schedule the following tasks:\n" + string(payload)},
	}, nil
}
