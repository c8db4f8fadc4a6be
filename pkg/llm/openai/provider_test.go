package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbro-be/pkg/llm"
)

func newTestServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		if seen != nil {
			require.NoError(t, json.Unmarshal(raw, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete_TextReply(t *testing.T) {
	var seen map[string]any
	srv := newTestServer(t, http.StatusOK, `{
		"id": "resp_2",
		"output": [
			{"type": "reasoning"},
			{"type": "message", "role": "assistant", "content": [
				{"type": "output_text", "text": "Eat more "},
				{"type": "output_text", "text": "protein."}
			]}
		]
	}`, &seen)

	p := NewOpenAIProvider(srv.URL+"/", "sk-test", "gpt-test")
	out, err := p.Complete(context.Background(), llm.CompletionRequest{
		Instructions:      "be a coach",
		Input:             "what should I eat",
		ContinuationToken: "resp_1",
	}, llm.WithTemperature(0))
	require.NoError(t, err)

	assert.Equal(t, "Eat more protein.", out.Text)
	assert.Equal(t, "resp_2", out.ContinuationToken)
	assert.Nil(t, out.ToolCall)

	assert.Equal(t, "gpt-test", seen["model"])
	assert.Equal(t, "be a coach", seen["instructions"])
	assert.Equal(t, "resp_1", seen["previous_response_id"])
	assert.Equal(t, true, seen["store"])
	assert.Equal(t, float64(0), seen["temperature"])
	assert.NotContains(t, seen, "tools")
	assert.NotContains(t, seen, "tool_choice")
	assert.NotContains(t, seen, "parallel_tool_calls")
}

func TestComplete_FunctionCall(t *testing.T) {
	var seen map[string]any
	srv := newTestServer(t, http.StatusOK, `{
		"id": "resp_9",
		"output": [
			{"type": "function_call", "call_id": "call_1", "name": "log_meal", "arguments": "{\"meal_type\":\"lunch\"}"}
		]
	}`, &seen)

	p := NewOpenAIProvider(srv.URL, "sk-test", "gpt-test")
	out, err := p.Complete(context.Background(), llm.CompletionRequest{
		Input:      "I had a salad",
		Tools:      []llm.ToolDefinition{{Name: "log_meal", Parameters: map[string]any{"type": "object"}}},
		ToolChoice: llm.ToolChoiceRequired,
	})
	require.NoError(t, err)
	require.NotNil(t, out.ToolCall)

	assert.Equal(t, "call_1", out.ToolCall.CallID)
	assert.Equal(t, "log_meal", out.ToolCall.Name)
	assert.JSONEq(t, `{"meal_type":"lunch"}`, string(out.ToolCall.Arguments))
	assert.Equal(t, "required", seen["tool_choice"])
	assert.Equal(t, false, seen["parallel_tool_calls"])

	tools, ok := seen["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	assert.Equal(t, "function", tools[0].(map[string]any)["type"])
	assert.NotContains(t, seen, "previous_response_id")
}

func TestComplete_ToolOutputsPrecedeInput(t *testing.T) {
	var seen map[string]any
	srv := newTestServer(t, http.StatusOK, `{"id":"resp_3","output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Shall I log it?"}]}]}`, &seen)

	p := NewOpenAIProvider(srv.URL, "sk-test", "gpt-test")
	_, err := p.Complete(context.Background(), llm.CompletionRequest{
		ContinuationToken: "resp_2",
		ToolOutputs:       []llm.ToolOutput{{CallID: "call_1", Output: "awaiting confirmation"}},
	})
	require.NoError(t, err)

	input, ok := seen["input"].([]any)
	require.True(t, ok)
	require.Len(t, input, 1)
	item := input[0].(map[string]any)
	assert.Equal(t, "function_call_output", item["type"])
	assert.Equal(t, "call_1", item["call_id"])
	assert.Equal(t, "awaiting confirmation", item["output"])
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		req    llm.CompletionRequest
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"slow down"}}`,
			check: func(t *testing.T, err error) {
				var httpErr *llm.HTTPError
				require.True(t, errors.As(err, &httpErr))
				assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
				assert.True(t, httpErr.Retryable())
			},
		},
		{
			name:   "expired previous response",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"previous_response_not_found","param":"previous_response_id","message":"Previous response with id 'resp_old' not found."}}`,
			req:    llm.CompletionRequest{Input: "hi", ContinuationToken: "resp_old"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, llm.ErrUnknownContinuation)
				var httpErr *llm.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
			},
		},
		{
			name:   "bad request is not a stale token",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"invalid_value","param":"model","message":"model not found"}}`,
			req:    llm.CompletionRequest{Input: "hi", ContinuationToken: "resp_1"},
			check: func(t *testing.T, err error) {
				assert.NotErrorIs(t, err, llm.ErrUnknownContinuation)
			},
		},
		{
			name:   "required tool missing",
			status: http.StatusOK,
			body:   `{"id":"resp_1","output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"hi"}]}]}`,
			req:    llm.CompletionRequest{Tools: []llm.ToolDefinition{{Name: "x"}}, ToolChoice: llm.ToolChoiceRequired},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, llm.ErrNoToolCall)
			},
		},
		{
			name:   "empty output",
			status: http.StatusOK,
			body:   `{"id":"resp_1","output":[]}`,
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name:   "embedded error",
			status: http.StatusOK,
			body:   `{"id":"resp_1","error":{"code":"server_error","message":"boom"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "boom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, nil)
			p := NewOpenAIProvider(srv.URL, "sk-test", "gpt-test")
			out, err := p.Complete(context.Background(), tt.req)
			assert.Nil(t, out)
			tt.check(t, err)
		})
	}
}
