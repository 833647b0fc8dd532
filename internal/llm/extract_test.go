package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"scheduledTasks": []}`,
			expected: `{"scheduledTasks": []}`,
		},
		{
			name:     "json with leading text",
			input:    `Here is the plan: {"scheduledTasks": [{"id": "1"}]}`,
			expected: `{"scheduledTasks": [{"id": "1"}]}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"scheduledTasks\": []}\n```",
			expected: `{"scheduledTasks": []}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"scheduledTasks\": []}\n```",
			expected: `{"scheduledTasks": []}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "nested json",
			input:    `{"insights": {"totals": {"scheduled": 3}}}`,
			expected: `{"insights": {"totals": {"scheduled": 3}}}`,
		},
		{
			name: "markdown with explanation",
			input: `Here's the weekly plan:

` + "```json" + `
{
  "scheduledTasks": [
    {"id": "1", "startTime": "2025-03-10T16:00:00"}
  ]
}
` + "```" + `

Let me know if you want changes.`,
			expected: `{
  "scheduledTasks": [
    {"id": "1", "startTime": "2025-03-10T16:00:00"}
  ]
}`,
		},
		{
			name:     "no json at all",
			input:    "I could not produce a schedule.",
			expected: "I could not produce a schedule.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.input)
			if got != tt.expected {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}
