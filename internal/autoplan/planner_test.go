package autoplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/conflict"
	"github.com/anagarval/minerva/internal/llm"
)

// fakeClient replays canned responses, one per ChatJSON call.
type fakeClient struct {
	responses []string
	calls     int
	lastMsgs  []llm.Message
}

func (f *fakeClient) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.lastMsgs = messages
	if f.calls >= len(f.responses) {
		return "", errors.New("no more canned responses")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeClient) ChatJSON(ctx context.Context, messages []llm.Message, result any) error {
	content, err := f.Chat(ctx, messages)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w", err)
	}
	return nil
}

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local) // a Monday morning

func backlogBlock(id int64, subject, title string, minutes, importance int) *block.TimeBlock {
	return &block.TimeBlock{
		ID: id, Subject: subject, Title: title,
		DurationMinutes: minutes, Importance: importance, Difficulty: 50,
	}
}

func testWindows() []*block.AvailabilityWindow {
	return []*block.AvailabilityWindow{
		{ID: 1, Label: "Sleep", StartHour: 22, EndHour: 7, Days: []int{0, 1, 2, 3, 4, 5, 6}},
		{ID: 2, Label: "School", StartHour: 8, EndHour: 15, Days: []int{0, 1, 2, 3, 4}},
	}
}

func TestBuildRequestFiltersBlocks(t *testing.T) {
	scheduled := backlogBlock(1, "Physics", "Lab report", 60, 80)
	start := testNow.Add(26 * time.Hour)
	scheduled.StartDateTime = &start

	done := backlogBlock(2, "History", "Flashcards", 30, 40)
	done.Completed = true

	pending := backlogBlock(3, "Mathematics", "Problem set", 90, 90)

	req := BuildRequest(
		[]*block.TimeBlock{scheduled, done, pending},
		testWindows(), "prefers mornings", 6, 30, testNow,
	)

	if len(req.Tasks) != 1 || req.Tasks[0].ID != "3" {
		t.Fatalf("expected only the pending block, got %+v", req.Tasks)
	}
	if len(req.UnavailableTimes) != 2 {
		t.Errorf("expected 2 windows, got %d", len(req.UnavailableTimes))
	}
	if req.MaxStudyHoursPerDay != 6 || req.PreferredRestMin != 30 {
		t.Error("preferences not carried into the request")
	}
	if _, err := time.Parse(time.RFC3339, req.CurrentDate); err != nil {
		t.Errorf("currentDate %q is not ISO 8601: %v", req.CurrentDate, err)
	}
}

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "local iso", input: "2025-03-11T16:00:00"},
		{name: "rfc3339", input: "2025-03-11T16:00:00+01:00"},
		{name: "no seconds", input: "2025-03-11T16:00"},
		{name: "space separator", input: "2025-03-11 16:00"},
		{name: "garbage", input: "tuesday afternoon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStartTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStartTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsBadEntries(t *testing.T) {
	blocks := []*block.TimeBlock{
		backlogBlock(1, "Physics", "Lab report", 60, 80),
	}
	done := backlogBlock(2, "History", "Flashcards", 30, 40)
	done.Completed = true
	blocks = append(blocks, done)

	tests := []struct {
		name      string
		task      ScheduledTask
		wantField string
	}{
		{
			name:      "unknown id",
			task:      ScheduledTask{ID: "99", StartTime: "2025-03-11T16:00:00"},
			wantField: "id",
		},
		{
			name:      "non-numeric id",
			task:      ScheduledTask{ID: "abc", StartTime: "2025-03-11T16:00:00"},
			wantField: "id",
		},
		{
			name:      "completed block",
			task:      ScheduledTask{ID: "2", StartTime: "2025-03-11T16:00:00"},
			wantField: "completed",
		},
		{
			name:      "bad start time",
			task:      ScheduledTask{ID: "1", StartTime: "whenever"},
			wantField: "startTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(blocks, testWindows(), 30)
			result := v.Validate(&Response{ScheduledTasks: []ScheduledTask{tt.task}})
			if result.Valid {
				t.Fatal("expected validation failure")
			}
			if result.Errors[0].Field != tt.wantField {
				t.Errorf("error field = %q, want %q", result.Errors[0].Field, tt.wantField)
			}
			if len(result.Accepted) != 0 {
				t.Errorf("broken entry must not merge, got %+v", result.Accepted)
			}
		})
	}
}

func TestValidateAcceptsConflictingPlacementFlagged(t *testing.T) {
	pinned := backlogBlock(1, "Physics", "Lab report", 60, 80)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	pinned.StartDateTime = &start
	pinned.Pinned = true
	pending := backlogBlock(2, "Mathematics", "Problem set", 60, 70)

	// 09:30-10:30 overlaps the pinned 09:00-10:00 block.
	v := NewValidator([]*block.TimeBlock{pinned, pending}, nil, 30)
	result := v.Validate(&Response{ScheduledTasks: []ScheduledTask{
		{ID: "2", StartTime: "2025-03-10T09:30:00"},
	}})

	if result.Valid {
		t.Error("an overlapping placement should still ask the model for a fix")
	}
	if len(result.Errors) != 0 {
		t.Errorf("overlap is not a structural error, got %+v", result.Errors)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].Field != "conflict" {
		t.Fatalf("conflicts = %+v", result.Conflicts)
	}
	if len(result.Accepted) != 1 || !result.Accepted[0].Conflicted {
		t.Fatalf("overlapping placement must merge flagged, got %+v", result.Accepted)
	}
}

func TestValidateCatchesProposalSelfOverlap(t *testing.T) {
	blocks := []*block.TimeBlock{
		backlogBlock(1, "Physics", "Lab report", 60, 80),
		backlogBlock(2, "Mathematics", "Problem set", 60, 70),
	}

	v := NewValidator(blocks, nil, 0)
	result := v.Validate(&Response{ScheduledTasks: []ScheduledTask{
		{ID: "1", StartTime: "2025-03-11T16:00:00"},
		{ID: "2", StartTime: "2025-03-11T16:30:00"},
	}})

	if result.Valid {
		t.Fatal("overlapping proposal entries must not validate")
	}
	if len(result.Accepted) != 2 {
		t.Fatalf("both entries merge, got %d", len(result.Accepted))
	}
	if result.Accepted[0].Conflicted {
		t.Error("the first entry is clean")
	}
	if !result.Accepted[1].Conflicted {
		t.Error("the second entry overlaps the first and must carry the flag")
	}
}

func TestValidateAllowsRestViolations(t *testing.T) {
	blocks := []*block.TimeBlock{
		backlogBlock(1, "Physics", "Lab report", 60, 80),
		backlogBlock(2, "Mathematics", "Problem set", 60, 70),
	}

	// Back to back placements break the rest preference but are accepted.
	v := NewValidator(blocks, nil, 30)
	result := v.Validate(&Response{ScheduledTasks: []ScheduledTask{
		{ID: "1", StartTime: "2025-03-11T16:00:00"},
		{ID: "2", StartTime: "2025-03-11T17:00:00"},
	}})

	if !result.Valid {
		t.Fatalf("rest violations should not reject, got %v", result.Errors)
	}
}

func TestMerge(t *testing.T) {
	pending := backlogBlock(1, "Physics", "Lab report", 60, 80)
	done := backlogBlock(2, "History", "Flashcards", 30, 40)
	done.Completed = true
	doneStart := time.Date(2025, 3, 9, 10, 0, 0, 0, time.Local)
	done.StartDateTime = &doneStart
	placed := backlogBlock(3, "English", "Essay", 45, 60)
	placedStart := time.Date(2025, 3, 12, 18, 0, 0, 0, time.Local)
	placed.StartDateTime = &placedStart
	placed.Pinned = true

	blocks := []*block.TimeBlock{pending, done, placed}
	start := time.Date(2025, 3, 11, 16, 0, 0, 0, time.Local)

	result, err := Merge(blocks,
		[]AcceptedPlacement{{BlockID: 1, Start: start}},
		[]UnscheduledTask{{ID: "3", Reason: "conflicts with new plan"}, {ID: "2", Reason: "ignored"}, {ID: "bogus"}},
	)
	if err != nil {
		t.Fatalf("Merge() = %v", err)
	}

	byID := make(map[int64]*block.TimeBlock)
	for _, b := range result {
		byID[b.ID] = b
	}

	if !byID[1].IsScheduled() || !byID[1].StartDateTime.Equal(start) {
		t.Error("accepted placement not applied")
	}
	if byID[1].Pinned {
		t.Error("auto-scheduled block must not be pinned")
	}
	if !byID[2].IsScheduled() || !byID[2].StartDateTime.Equal(doneStart) {
		t.Error("completed block must never be altered")
	}
	if byID[3].IsScheduled() {
		t.Error("unscheduled entry should clear the start time")
	}

	// Inputs are untouched; the merge returns fresh copies.
	if pending.IsScheduled() {
		t.Error("Merge mutated its input")
	}
}

func TestMergeUnknownAcceptedID(t *testing.T) {
	_, err := Merge(nil, []AcceptedPlacement{{BlockID: 42, Start: testNow}}, nil)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Errorf("Merge() = %v, want ErrBlockNotFound", err)
	}
}

func TestProposeAppliesValidResponse(t *testing.T) {
	blocks := []*block.TimeBlock{backlogBlock(1, "Physics", "Lab report", 60, 80)}
	client := &fakeClient{responses: []string{`{
		"scheduledTasks": [{"id": "1", "startTime": "2025-03-11T16:00:00", "reasoning": "quiet afternoon"}],
		"unscheduledTasks": [],
		"insights": {"totalScheduled": 1, "totalUnscheduled": 0, "weeklyStudyHours": 1, "recommendations": []}
	}`}}

	p := New(client, Options{MaxStudyHoursPerDay: 6, PreferredRestMin: 30})
	id := p.NextRequestID()
	proposal, err := p.Propose(context.Background(), id, blocks, testWindows(), testNow)
	if err != nil {
		t.Fatalf("Propose() = %v", err)
	}
	if len(proposal.Accepted) != 1 {
		t.Fatalf("expected 1 accepted placement, got %d", len(proposal.Accepted))
	}

	merged, err := p.Apply(proposal, blocks)
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	if !merged[0].IsScheduled() {
		t.Error("merged block should be scheduled")
	}
	if blocks[0].IsScheduled() {
		t.Error("original state changed before commit")
	}
}

func TestProposeMalformedResponseChangesNothing(t *testing.T) {
	blocks := []*block.TimeBlock{backlogBlock(1, "Physics", "Lab report", 60, 80)}
	client := &fakeClient{responses: []string{`not json at all`}}

	p := New(client, Options{})
	_, err := p.Propose(context.Background(), p.NextRequestID(), blocks, nil, testNow)
	if err == nil {
		t.Fatal("expected error for malformed response")
	}
	if blocks[0].IsScheduled() {
		t.Error("state must be untouched on failure")
	}
}

func TestProposeRetriesWithFeedback(t *testing.T) {
	blocks := []*block.TimeBlock{backlogBlock(1, "Physics", "Lab report", 60, 80)}

	// First answer collides with the school window, second is clean.
	client := &fakeClient{responses: []string{
		`{"scheduledTasks": [{"id": "1", "startTime": "2025-03-11T09:00:00"}], "unscheduledTasks": [], "insights": {}}`,
		`{"scheduledTasks": [{"id": "1", "startTime": "2025-03-11T16:00:00"}], "unscheduledTasks": [], "insights": {}}`,
	}}

	p := New(client, Options{MaxRetries: 2})
	proposal, err := p.Propose(context.Background(), p.NextRequestID(), blocks, testWindows(), testNow)
	if err != nil {
		t.Fatalf("Propose() = %v", err)
	}
	if client.calls != 2 {
		t.Errorf("expected 2 model calls, got %d", client.calls)
	}
	if proposal.HasValidationErrors() {
		t.Errorf("second attempt should validate, got %v", proposal.ValidationErrors)
	}

	// The retry conversation must include corrective feedback.
	last := client.lastMsgs[len(client.lastMsgs)-1]
	if last.Role != "user" || last.Content == "" {
		t.Error("expected corrective user feedback in the retry conversation")
	}
}

func TestProposeExhaustedRetriesMergesConflictFlagged(t *testing.T) {
	blocks := []*block.TimeBlock{backlogBlock(1, "Physics", "Lab report", 60, 80)}

	// Every answer collides with the school window; the placement still lands
	// on the grid, flagged, instead of vanishing into the reject list.
	bad := `{"scheduledTasks": [{"id": "1", "startTime": "2025-03-11T09:00:00"}], "unscheduledTasks": [], "insights": {}}`
	client := &fakeClient{responses: []string{bad, bad, bad}}

	p := New(client, Options{MaxRetries: 2})
	proposal, err := p.Propose(context.Background(), p.NextRequestID(), blocks, testWindows(), testNow)
	if err != nil {
		t.Fatalf("Propose() = %v", err)
	}
	if client.calls != 3 {
		t.Errorf("expected 3 model calls, got %d", client.calls)
	}
	if !proposal.HasValidationErrors() {
		t.Fatal("the unresolved conflict must stay visible on the proposal")
	}
	if len(proposal.Accepted) != 1 || !proposal.Accepted[0].Conflicted {
		t.Fatalf("conflicting placement must merge flagged, got %+v", proposal.Accepted)
	}
	if len(proposal.Unscheduled) != 0 {
		t.Errorf("nothing should be rejected, got %+v", proposal.Unscheduled)
	}
	if proposal.Insights.TotalScheduled != 1 || proposal.Insights.TotalUnscheduled != 0 {
		t.Errorf("insight totals not corrected: %+v", proposal.Insights)
	}

	merged, err := p.Apply(proposal, blocks)
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	if !merged[0].IsScheduled() || merged[0].StartHour() != 9 {
		t.Fatalf("placement not applied: %+v", merged[0])
	}
	if flags := conflict.Check(merged[0], merged, testWindows(), 30); !flags.WindowConflict {
		t.Error("the merged placement should re-check as a window conflict")
	}
}

func TestProposeUnknownIDStaysUnscheduled(t *testing.T) {
	blocks := []*block.TimeBlock{backlogBlock(1, "Physics", "Lab report", 60, 80)}
	bad := `{"scheduledTasks": [{"id": "99", "startTime": "2025-03-11T16:00:00"}], "unscheduledTasks": [], "insights": {}}`
	client := &fakeClient{responses: []string{bad, bad, bad}}

	p := New(client, Options{MaxRetries: 2})
	proposal, err := p.Propose(context.Background(), p.NextRequestID(), blocks, nil, testNow)
	if err != nil {
		t.Fatalf("Propose() = %v", err)
	}
	if len(proposal.Accepted) != 0 {
		t.Errorf("an unknown id cannot merge, got %+v", proposal.Accepted)
	}
	if len(proposal.Unscheduled) != 1 || proposal.Unscheduled[0].ID != "99" {
		t.Errorf("structural failure should surface as unscheduled, got %+v", proposal.Unscheduled)
	}
}

func TestApplyRejectsStaleProposal(t *testing.T) {
	blocks := []*block.TimeBlock{backlogBlock(1, "Physics", "Lab report", 60, 80)}
	good := `{"scheduledTasks": [{"id": "1", "startTime": "2025-03-11T16:00:00"}], "unscheduledTasks": [], "insights": {}}`
	client := &fakeClient{responses: []string{good, good}}

	p := New(client, Options{})
	first := p.NextRequestID()
	stale, err := p.Propose(context.Background(), first, blocks, nil, testNow)
	if err != nil {
		t.Fatalf("Propose() = %v", err)
	}

	// A newer request supersedes the first before it is applied.
	p.NextRequestID()

	if _, err := p.Apply(stale, blocks); !errors.Is(err, ErrStaleProposal) {
		t.Errorf("Apply(stale) = %v, want ErrStaleProposal", err)
	}
}

func TestProposeNoTasks(t *testing.T) {
	p := New(nil, Options{})
	_, err := p.Propose(context.Background(), p.NextRequestID(), nil, nil, testNow)
	if !errors.Is(err, ErrNoTasks) {
		t.Errorf("Propose() = %v, want ErrNoTasks", err)
	}
}

func TestLocalFallbackPlacesAroundWindows(t *testing.T) {
	blocks := []*block.TimeBlock{
		backlogBlock(1, "Physics", "Lab report", 60, 80),
		backlogBlock(2, "Mathematics", "Problem set", 60, 90),
	}

	p := New(nil, Options{MaxStudyHoursPerDay: 6, PreferredRestMin: 30})
	proposal, err := p.Propose(context.Background(), p.NextRequestID(), blocks, testWindows(), testNow)
	if err != nil {
		t.Fatalf("Propose() = %v", err)
	}
	if len(proposal.Accepted) != 2 {
		t.Fatalf("expected both blocks placed, got %d (%v)", len(proposal.Accepted), proposal.ValidationErrors)
	}

	// Math has higher importance and must be placed first.
	if proposal.Accepted[0].BlockID != 2 {
		t.Errorf("most important block should be placed first, got id %d", proposal.Accepted[0].BlockID)
	}

	merged, err := p.Apply(proposal, blocks)
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	for _, b := range merged {
		if !b.IsScheduled() {
			t.Errorf("block %d left unscheduled", b.ID)
		}
	}
}

func TestLocalFallbackRespectsDailyCap(t *testing.T) {
	blocks := []*block.TimeBlock{
		backlogBlock(1, "Physics", "Deep dive", 120, 90),
		backlogBlock(2, "Mathematics", "Deep dive", 120, 80),
	}

	// A one-hour-per-day cap cannot fit a two-hour block at all.
	p := New(nil, Options{MaxStudyHoursPerDay: 1})
	proposal, err := p.Propose(context.Background(), p.NextRequestID(), blocks, nil, testNow)
	if err != nil {
		t.Fatalf("Propose() = %v", err)
	}
	if len(proposal.Accepted) != 0 {
		t.Errorf("nothing should fit under the cap, got %d placements", len(proposal.Accepted))
	}
	if len(proposal.Unscheduled) != 2 {
		t.Errorf("both blocks should be unscheduled with reasons, got %+v", proposal.Unscheduled)
	}
}
