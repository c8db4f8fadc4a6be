package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymbro-be/internal/dto"
	"gymbro-be/internal/entity"
	"gymbro-be/internal/observability"
	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/repository/unitofwork"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/coach/intent"
	"gymbro-be/pkg/coach/prompt"
	"gymbro-be/pkg/coach/proposal"
	"gymbro-be/pkg/coach/state"
	"gymbro-be/pkg/llm"
	"gymbro-be/pkg/lock"

	"github.com/google/uuid"
)

// IChatbotService is the dialogue entry point: one message in, one reply out.
type IChatbotService interface {
	SendChat(ctx context.Context, username string, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ResetConversation(ctx context.Context, username string) (*dto.ResetConversationResponse, error)
}

type chatbotService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	classifier  *intent.Classifier
	registry    *prompt.Registry
	machine     *state.Machine
	locker      lock.Locker
	lockWait    time.Duration
	logger      logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	classifier *intent.Classifier,
	registry *prompt.Registry,
	machine *state.Machine,
	locker lock.Locker,
	lockWait time.Duration,
	logger logger.ILogger,
) IChatbotService {
	return &chatbotService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		classifier:  classifier,
		registry:    registry,
		machine:     machine,
		locker:      locker,
		lockWait:    lockWait,
		logger:      logger,
	}
}

// turn is what one handled message produced.
type turn struct {
	intent intent.Intent
	reply  string
	token  string
	result *state.Outcome
}

func (cs *chatbotService) SendChat(ctx context.Context, username string, request *dto.SendChatRequest) (res *dto.SendChatResponse, err error) {
	start := time.Now()
	var label intent.Intent
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			observability.RecordChatFailure(failureClass(err))
		}
		observability.ObserveChatTurn(string(label), status, start)
	}()

	message := strings.TrimSpace(request.Message)
	if message == "" {
		return nil, coach.ErrEmptyMessage
	}

	release, err := cs.acquire(ctx, username)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	t, err := cs.dispatch(ctx, uow, profile, message)
	if t != nil {
		label = t.intent
	}
	if err != nil {
		cs.logger.WithContext(ctx).Warn("CHATBOT", "Chat turn failed", map[string]interface{}{
			"username": username,
			"intent":   label,
			"error":    err.Error(),
		})
		return nil, err
	}

	// Overwrite, never append: the newest token already references every earlier turn.
	if t.token != "" {
		if err := uow.UserProfileRepository().SetContinuationToken(ctx, profile.Id, t.token); err != nil {
			return nil, fmt.Errorf("store continuation token: %w", err)
		}
	}

	cs.logger.WithContext(ctx).Info("CHATBOT", "Chat turn completed", map[string]interface{}{
		"username":    username,
		"intent":      label,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return cs.toResponse(t), nil
}

// acquire waits at most lockWait for the account; the turn itself runs on ctx.
func (cs *chatbotService) acquire(ctx context.Context, username string) (func(), error) {
	if cs.lockWait <= 0 {
		return cs.locker.Acquire(ctx, username)
	}
	waitCtx, cancel := context.WithTimeout(ctx, cs.lockWait)
	defer cancel()
	return cs.locker.Acquire(waitCtx, username)
}

func (cs *chatbotService) dispatch(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (*turn, error) {
	// "yes" to an open proposal commits without asking the classifier.
	if state.Current(profile) == state.ProposalOffered && state.IsAffirmative(message) {
		return cs.handleLog(ctx, uow, profile, message)
	}

	label, err := cs.classifier.Classify(ctx, message, profile.Token())
	if err != nil {
		return nil, err
	}
	observability.RecordIntent(string(label))

	if label == intent.LogActivity {
		return cs.handleLog(ctx, uow, profile, message)
	}

	builder, ok := cs.registry.ForIntent(label)
	if !ok {
		return &turn{intent: label}, fmt.Errorf("%w: no builder for intent %s", coach.ErrClassificationFailed, label)
	}

	req, err := builder.Build(ctx, uow, profile, message)
	if err != nil {
		return &turn{intent: label}, fmt.Errorf("build context: %w", err)
	}

	resp, err := cs.llmProvider.Complete(ctx, req)
	if err != nil {
		return &turn{intent: label}, fmt.Errorf("%w: reply: %w", coach.ErrUpstreamGenerationFailed, err)
	}

	return &turn{intent: label, reply: resp.Text, token: resp.ContinuationToken}, nil
}

func (cs *chatbotService) handleLog(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (*turn, error) {
	out, err := cs.machine.Handle(ctx, uow, profile, message)
	if err != nil {
		return &turn{intent: intent.LogActivity}, err
	}
	observability.RecordTransition(string(out.Transition), string(out.Kind))
	return &turn{intent: intent.LogActivity, reply: out.Reply, token: out.Token, result: out}, nil
}

func (cs *chatbotService) ResetConversation(ctx context.Context, username string) (*dto.ResetConversationResponse, error) {
	release, err := cs.acquire(ctx, username)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	// Both fields go: a proposal without its conversation cannot be confirmed.
	if err := uow.UserProfileRepository().ClearConversation(ctx, profile.Id); err != nil {
		return nil, err
	}

	cs.logger.WithContext(ctx).Info("CHATBOT", "Conversation reset", map[string]interface{}{
		"username":    username,
		"had_pending": profile.PendingLog != nil,
	})

	return &dto.ResetConversationResponse{Cleared: true}, nil
}

func (cs *chatbotService) toResponse(t *turn) *dto.SendChatResponse {
	res := &dto.SendChatResponse{
		Reply:  t.reply,
		Intent: string(t.intent),
	}
	if t.result == nil {
		return res
	}

	res.Transition = string(t.result.Transition)
	if t.result.RecordID != uuid.Nil {
		res.RecordId = t.result.RecordID.String()
	}
	if p := t.result.Pending; p != nil {
		pending := &dto.PendingLogDTO{
			Kind:       string(p.Kind),
			Arguments:  p.Payload,
			ProposedAt: p.ProposedAt,
		}
		if decoded, err := proposal.FromPending(p); err == nil {
			pending.Summary = decoded.Summary()
		}
		res.PendingLog = pending
	}
	return res
}

// failureClass is the metric label of a failed turn.
func failureClass(err error) string {
	switch {
	case errors.Is(err, coach.ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, coach.ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, coach.ErrClassificationFailed):
		return "classification_failed"
	case errors.Is(err, coach.ErrExtractionValidationFailed):
		return "extraction_validation_failed"
	case errors.Is(err, coach.ErrUpstreamGenerationFailed):
		return "upstream_generation_failed"
	case errors.Is(err, lock.ErrNotAcquired):
		return "lock_timeout"
	default:
		return "internal"
	}
}
