package llm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbro-be/pkg/llm"
	"gymbro-be/pkg/llm/llmtest"
)

type slowProvider struct{}

func (slowProvider) Complete(ctx context.Context, _ llm.CompletionRequest, _ ...llm.Option) (*llm.Completion, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	p := llm.WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Complete(context.Background(), llm.CompletionRequest{Input: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeout_NonPositiveIsIdentity(t *testing.T) {
	fake := llmtest.NewFakeProvider()
	assert.Same(t, fake, llm.WithTimeout(fake, 0))
}

func TestWithTracing_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	fake := llmtest.NewFakeProvider(llmtest.Text("hi", "resp_1"), llmtest.Fail(boom))
	p := llm.WithTracing(fake, "fake")

	out, err := p.Complete(context.Background(), llm.CompletionRequest{Input: "a"}, llm.WithTemperature(0.2))
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Text)

	_, err = p.Complete(context.Background(), llm.CompletionRequest{Input: "b"})
	assert.ErrorIs(t, err, boom)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	require.NotNil(t, calls[0].Options.Temperature)
	assert.Equal(t, 0.2, *calls[0].Options.Temperature)
}

func TestWithFreshStart(t *testing.T) {
	stale := fmt.Errorf("backend: %w %q", llm.ErrUnknownContinuation, "resp_old")

	tests := []struct {
		name      string
		req       llm.CompletionRequest
		steps     []llmtest.Step
		wantErr   error
		wantCalls int
		wantStale []string
	}{
		{
			name:      "retries without the stale token",
			req:       llm.CompletionRequest{Input: "hi", ContinuationToken: "resp_old"},
			steps:     []llmtest.Step{llmtest.Fail(stale), llmtest.Text("hello", "resp_new")},
			wantCalls: 2,
			wantStale: []string{"resp_old"},
		},
		{
			name:      "other errors pass through",
			req:       llm.CompletionRequest{Input: "hi", ContinuationToken: "resp_1"},
			steps:     []llmtest.Step{llmtest.Fail(errors.New("boom"))},
			wantErr:   errors.New("boom"),
			wantCalls: 1,
		},
		{
			name:      "tool outputs are not replayed on a new chain",
			req:       llm.CompletionRequest{ContinuationToken: "resp_old", ToolOutputs: []llm.ToolOutput{{CallID: "c1", Output: "ok"}}},
			steps:     []llmtest.Step{llmtest.Fail(stale)},
			wantErr:   llm.ErrUnknownContinuation,
			wantCalls: 1,
		},
		{
			name:      "second failure is returned",
			req:       llm.CompletionRequest{Input: "hi", ContinuationToken: "resp_old"},
			steps:     []llmtest.Step{llmtest.Fail(stale), llmtest.Fail(stale)},
			wantErr:   llm.ErrUnknownContinuation,
			wantCalls: 2,
			wantStale: []string{"resp_old"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := llmtest.NewFakeProvider(tt.steps...)
			var seen []string
			p := llm.WithFreshStart(fake, func(_ context.Context, token string) { seen = append(seen, token) })

			out, err := p.Complete(context.Background(), tt.req)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, "resp_new", out.ContinuationToken)
			case errors.Is(tt.wantErr, llm.ErrUnknownContinuation):
				assert.ErrorIs(t, err, llm.ErrUnknownContinuation)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}

			calls := fake.Calls()
			require.Len(t, calls, tt.wantCalls)
			if tt.wantCalls == 2 {
				assert.Empty(t, calls[1].Request.ContinuationToken)
				assert.Equal(t, tt.req.Input, calls[1].Request.Input)
			}
			assert.Equal(t, tt.wantStale, seen)
		})
	}
}

func TestHTTPError_Retryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{400, false}, {401, false}, {429, true}, {500, true}, {503, true},
	}
	for _, tt := range tests {
		err := &llm.HTTPError{Provider: "x", StatusCode: tt.status}
		assert.Equal(t, tt.want, err.Retryable(), tt.status)
	}
}
