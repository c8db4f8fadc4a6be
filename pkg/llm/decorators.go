package llm

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type timeoutProvider struct {
	next    LLMProvider
	timeout time.Duration
}

// WithTimeout bounds every Complete call. A non-positive timeout returns next unchanged.
func WithTimeout(next LLMProvider, timeout time.Duration) LLMProvider {
	if timeout <= 0 {
		return next
	}
	return &timeoutProvider{next: next, timeout: timeout}
}

func (p *timeoutProvider) Complete(ctx context.Context, req CompletionRequest, options ...Option) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.Complete(ctx, req, options...)
}

type freshStartProvider struct {
	next    LLMProvider
	onStale func(ctx context.Context, token string)
}

// WithFreshStart retries a turn once without its continuation token when the
// backend reports the token unknown (expired or lost on restart). Turns that
// answer tool calls are not retried since their call ids belong to the old chain.
func WithFreshStart(next LLMProvider, onStale func(ctx context.Context, token string)) LLMProvider {
	return &freshStartProvider{next: next, onStale: onStale}
}

func (p *freshStartProvider) Complete(ctx context.Context, req CompletionRequest, options ...Option) (*Completion, error) {
	resp, err := p.next.Complete(ctx, req, options...)
	if err == nil || !errors.Is(err, ErrUnknownContinuation) || req.ContinuationToken == "" || len(req.ToolOutputs) > 0 {
		return resp, err
	}
	if p.onStale != nil {
		p.onStale(ctx, req.ContinuationToken)
	}
	req.ContinuationToken = ""
	return p.next.Complete(ctx, req, options...)
}

type tracingProvider struct {
	next   LLMProvider
	tracer trace.Tracer
	name   string
}

// WithTracing opens one span per completion call on the global tracer provider.
func WithTracing(next LLMProvider, providerName string) LLMProvider {
	return &tracingProvider{
		next:   next,
		tracer: otel.Tracer("gymbro-be/pkg/llm"),
		name:   providerName,
	}
}

func (p *tracingProvider) Complete(ctx context.Context, req CompletionRequest, options ...Option) (*Completion, error) {
	ctx, span := p.tracer.Start(ctx, "llm.Complete", trace.WithAttributes(
		attribute.String("llm.provider", p.name),
		attribute.Bool("llm.continuation", req.ContinuationToken != ""),
		attribute.Int("llm.tools", len(req.Tools)),
		attribute.String("llm.tool_choice", string(req.ToolChoice)),
	))
	defer span.End()

	resp, err := p.next.Complete(ctx, req, options...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if resp.ToolCall != nil {
		span.SetAttributes(attribute.String("llm.tool_call", resp.ToolCall.Name))
	}
	return resp, nil
}
