package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymbro-be/internal/constant"
	"gymbro-be/internal/entity"
	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/repository/unitofwork"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/coach/proposal"
	"gymbro-be/pkg/events"
	"gymbro-be/pkg/llm"
)

// State of the pending-log workflow for one profile.
type State string

const (
	NoPending       State = "no_pending"
	ProposalOffered State = "proposal_offered"
)

// Transition names what a handled message did.
type Transition string

const (
	Proposed  Transition = "proposed"
	Revised   Transition = "revised"
	Committed Transition = "committed"
)

func Current(profile *entity.UserProfile) State {
	if profile.PendingLog != nil {
		return ProposalOffered
	}
	return NoPending
}

var affirmatives = map[string]struct{}{
	"yes":     {},
	"confirm": {},
	"log it":  {},
	"submit":  {},
}

// IsAffirmative is an exact, case-insensitive match after trimming whitespace
// and trailing "." or "!". "yes please" is not affirmative.
func IsAffirmative(message string) bool {
	s := strings.ToLower(strings.TrimSpace(message))
	s = strings.TrimRight(s, ".!")
	_, ok := affirmatives[strings.TrimSpace(s)]
	return ok
}

// Outcome is the result of one handled message. Token is the continuation
// token the caller should persist.
type Outcome struct {
	Reply      string
	Token      string
	Transition Transition
	Kind       entity.LogKind
	Pending    *entity.PendingLogProposal
	RecordID   uuid.UUID
}

func (o *Outcome) State() State {
	if o.Pending != nil {
		return ProposalOffered
	}
	return NoPending
}

type Machine struct {
	llmProvider llm.LLMProvider
	publisher   events.Publisher
	logger      logger.ILogger
	now         func() time.Time
}

func NewMachine(llmProvider llm.LLMProvider, publisher events.Publisher, logger logger.ILogger) *Machine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Machine{
		llmProvider: llmProvider,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock pins "now" (used for relative dates in extraction).
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Handle routes a logging message: an affirmative reply to a pending proposal
// commits it, anything else (re)extracts a proposal from the message.
func (m *Machine) Handle(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (*Outcome, error) {
	if Current(profile) == ProposalOffered && IsAffirmative(message) {
		return m.Commit(ctx, uow, profile)
	}
	return m.Propose(ctx, uow, profile, message)
}

// Propose extracts a log from message, asks the user to confirm it and stores
// it as the pending proposal, replacing any earlier one. A failed extraction
// keeps the earlier proposal.
func (m *Machine) Propose(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (*Outcome, error) {
	transition := Proposed
	if Current(profile) == ProposalOffered {
		transition = Revised
	}

	extraction, err := m.llmProvider.Complete(ctx, llm.CompletionRequest{
		Instructions:      fmt.Sprintf(constant.ExtractionPromptV1, m.now().Format("2006-01-02 (Monday)")),
		Input:             message,
		ContinuationToken: profile.Token(),
		Tools:             proposal.Tools(),
		ToolChoice:        llm.ToolChoiceRequired,
	}, llm.WithTemperature(0))
	if err != nil {
		return nil, upstream("extraction", err)
	}

	p, err := proposal.Decode(extraction.ToolCall)
	if err != nil {
		return nil, err
	}

	followUp, err := m.llmProvider.Complete(ctx, llm.CompletionRequest{
		Instructions:      fmt.Sprintf(constant.ConfirmationPromptV1, p.Summary()),
		ContinuationToken: extraction.ContinuationToken,
		ToolOutputs: []llm.ToolOutput{{
			CallID: extraction.ToolCall.CallID,
			Output: constant.ConfirmationToolOutputV1,
		}},
	})
	if err != nil {
		return nil, upstream("confirmation", err)
	}

	pending, err := p.Pending(m.now())
	if err != nil {
		return nil, fmt.Errorf("encode proposal: %w", err)
	}
	if err := uow.UserProfileRepository().SetPendingLog(ctx, profile.Id, pending); err != nil {
		return nil, fmt.Errorf("store proposal: %w", err)
	}

	m.logger.WithContext(ctx).Info("PENDING_LOG", "Proposal offered", map[string]interface{}{
		"username":   profile.Username,
		"kind":       p.Kind,
		"transition": transition,
	})

	return &Outcome{
		Reply:      followUp.Text,
		Token:      followUp.ContinuationToken,
		Transition: transition,
		Kind:       p.Kind,
		Pending:    pending,
	}, nil
}

// Commit writes the pending proposal as an activity record and clears it in
// one transaction, then asks for a short acknowledgement on the stored token.
func (m *Machine) Commit(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile) (*Outcome, error) {
	p, err := proposal.FromPending(profile.PendingLog)
	if err != nil {
		return nil, err
	}

	recordID, occurredAt, err := m.write(ctx, uow, profile, p)
	if err != nil {
		return nil, err
	}

	m.logger.WithContext(ctx).Info("PENDING_LOG", "Proposal committed", map[string]interface{}{
		"username":  profile.Username,
		"kind":      p.Kind,
		"record_id": recordID,
	})

	if err := m.publisher.Publish(ctx, events.NewActivityLogged(profile.Id, string(p.Kind), recordID, occurredAt)); err != nil {
		m.logger.WithContext(ctx).Warn("PENDING_LOG", "Failed to publish activity event", map[string]interface{}{
			"record_id": recordID,
			"error":     err.Error(),
		})
	}

	// The record stays committed even if the acknowledgement fails: a retried
	// "yes" finds no pending proposal and cannot write it twice.
	ack, err := m.llmProvider.Complete(ctx, llm.CompletionRequest{
		Instructions:      constant.CommitPromptV1,
		Input:             constant.CommitInputV1,
		ContinuationToken: profile.Token(),
	})
	if err != nil {
		return nil, upstream("acknowledgement", err)
	}

	return &Outcome{
		Reply:      ack.Text,
		Token:      ack.ContinuationToken,
		Transition: Committed,
		Kind:       p.Kind,
		RecordID:   recordID,
	}, nil
}

func (m *Machine) write(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, p *proposal.Proposal) (uuid.UUID, time.Time, error) {
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("begin commit: %w", err)
	}

	var (
		id  uuid.UUID
		at  time.Time
		err error
	)
	switch p.Kind {
	case entity.LogKindMeal:
		var meal *entity.Meal
		if meal, err = p.ToMeal(profile.Id); err == nil {
			err = uow.MealRepository().Create(ctx, meal)
			id, at = meal.Id, meal.OccurredAt
		}
	case entity.LogKindWorkout:
		var workout *entity.Workout
		if workout, err = p.ToWorkout(profile.Id); err == nil {
			err = uow.WorkoutRepository().Create(ctx, workout)
			id, at = workout.Id, workout.OccurredAt
		}
	default:
		err = fmt.Errorf("%w: unknown log kind %q", coach.ErrExtractionValidationFailed, p.Kind)
	}
	if err == nil {
		err = uow.UserProfileRepository().ClearPendingLog(ctx, profile.Id)
	}
	if err != nil {
		_ = uow.Rollback()
		return uuid.Nil, time.Time{}, err
	}

	if err := uow.Commit(); err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("commit log: %w", err)
	}
	return id, at, nil
}

func upstream(step string, err error) error {
	if errors.Is(err, coach.ErrUpstreamGenerationFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", coach.ErrUpstreamGenerationFailed, step, err)
}
