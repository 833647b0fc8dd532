package autoplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/llm"
)

// Planner errors.
var (
	ErrNoTasks       = errors.New("no unscheduled tasks to place")
	ErrStaleProposal = errors.New("proposal is stale: a newer request was issued")
)

// Options carries the scheduling preferences for one planner.
type Options struct {
	MaxStudyHoursPerDay float64
	PreferredRestMin    int
	SubjectPreferences  string
	MaxRetries          int
}

// Proposal is the validated outcome of one scheduling request. It carries the
// request id it answers so stale answers can be detected before application.
type Proposal struct {
	RequestID        int64
	Response         *Response
	Accepted         []AcceptedPlacement
	Unscheduled      []UnscheduledTask
	Insights         Insights
	ValidationErrors []ValidationError
}

// HasValidationErrors reports whether some placements were still broken or
// conflicting after retries.
func (p *Proposal) HasValidationErrors() bool {
	return len(p.ValidationErrors) > 0
}

// Planner runs scheduling requests against a model and guards against
// out-of-order answers.
type Planner struct {
	client llm.Client
	opts   Options

	// lastIssued is the id of the newest request. Only a proposal carrying
	// this id may be applied; anything older lost the race and is dropped.
	lastIssued atomic.Int64
}

// New creates a Planner. A nil client is allowed; Propose then uses the local
// first-fit fallback.
func New(client llm.Client, opts Options) *Planner {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 2
	}
	return &Planner{client: client, opts: opts}
}

// NextRequestID issues a new request id, invalidating all earlier ones.
func (p *Planner) NextRequestID() int64 {
	return p.lastIssued.Add(1)
}

// Propose asks the collaborator for a weekly placement of every unscheduled,
// uncompleted block. The raw answer is re-validated against the given state;
// problems are fed back to the model for correction up to MaxRetries times.
// Once retries are exhausted, structurally unusable entries (unknown id,
// completed block, unparseable time) surface as unscheduled with the
// validation reason, while placements that merely conflict merge anyway,
// flagged, so the proposal is visible instead of silently dropped.
//
// A transport failure or a structurally malformed answer returns an error and
// no proposal: the caller's state is untouched.
func (p *Planner) Propose(ctx context.Context, requestID int64, blocks []*block.TimeBlock, windows []*block.AvailabilityWindow, now time.Time) (*Proposal, error) {
	req := BuildRequest(blocks, windows, p.opts.SubjectPreferences, p.opts.MaxStudyHoursPerDay, p.opts.PreferredRestMin, now)
	if len(req.Tasks) == 0 {
		return nil, ErrNoTasks
	}

	if p.client == nil {
		return p.proposeLocal(requestID, req, blocks, windows, now)
	}

	messages, err := BuildMessages(req)
	if err != nil {
		return nil, err
	}

	validator := NewValidator(blocks, windows, p.opts.PreferredRestMin)

	var resp *Response
	var validation ValidationResult
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		resp = &Response{}
		if err := p.client.ChatJSON(ctx, messages, resp); err != nil {
			return nil, fmt.Errorf("scheduling request (attempt %d): %w", attempt+1, err)
		}

		validation = validator.Validate(resp)
		if validation.Valid {
			break
		}

		if attempt < p.opts.MaxRetries {
			respJSON, _ := json.Marshal(resp)
			messages = append(messages,
				llm.Message{Role: "assistant", Content: string(respJSON)},
				llm.Message{Role: "user", Content: validation.FormatErrors()},
			)
		}
	}

	return buildProposal(requestID, resp, validation), nil
}

// Apply merges a proposal into the given block set. It refuses proposals
// answering anything but the newest issued request, so a slow response can
// never overwrite the outcome of a later one.
func (p *Planner) Apply(proposal *Proposal, blocks []*block.TimeBlock) ([]*block.TimeBlock, error) {
	if proposal.RequestID != p.lastIssued.Load() {
		return nil, ErrStaleProposal
	}
	return Merge(blocks, proposal.Accepted, proposal.Unscheduled)
}

// buildProposal folds a response and its validation into a Proposal.
// Structurally rejected placements move to the unscheduled list with the
// validation message as reason; conflicting placements stay in the accepted
// list carrying their flag; the model's own unscheduled entries are kept.
func buildProposal(requestID int64, resp *Response, validation ValidationResult) *Proposal {
	proposal := &Proposal{
		RequestID:   requestID,
		Response:    resp,
		Accepted:    validation.Accepted,
		Unscheduled: append([]UnscheduledTask(nil), resp.UnscheduledTasks...),
		Insights:    resp.Insights,
	}
	proposal.ValidationErrors = append(proposal.ValidationErrors, validation.Errors...)
	proposal.ValidationErrors = append(proposal.ValidationErrors, validation.Conflicts...)

	for _, e := range validation.Errors {
		proposal.Unscheduled = append(proposal.Unscheduled, UnscheduledTask{
			ID:     e.TaskID,
			Reason: e.Message,
		})
	}

	// Keep the insight totals honest after local rejections.
	proposal.Insights.TotalScheduled = len(proposal.Accepted)
	proposal.Insights.TotalUnscheduled = len(proposal.Unscheduled)

	return proposal
}
