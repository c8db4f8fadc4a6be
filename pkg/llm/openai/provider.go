package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gymbro-be/pkg/llm"
)

// OpenAIProvider talks to the Responses API. Turn history lives server-side:
// the response id is the continuation token and is sent back as previous_response_id.
type OpenAIProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(baseURL, apiKey, modelName string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &OpenAIProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type responsesInputItem struct {
	Type    string `json:"type,omitempty"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	CallID  string `json:"call_id,omitempty"`
	Output  string `json:"output,omitempty"`
}

type responsesTool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type responsesRequest struct {
	Model              string               `json:"model"`
	Instructions       string               `json:"instructions,omitempty"`
	Input              []responsesInputItem `json:"input"`
	PreviousResponseID string               `json:"previous_response_id,omitempty"`
	Tools              []responsesTool      `json:"tools,omitempty"`
	ToolChoice         string               `json:"tool_choice,omitempty"`
	ParallelToolCalls  *bool                `json:"parallel_tool_calls,omitempty"`
	Temperature        *float64             `json:"temperature,omitempty"`
	MaxOutputTokens    int                  `json:"max_output_tokens,omitempty"`
	Store              bool                 `json:"store"`
}

type responsesOutputItem struct {
	Type      string `json:"type"`
	Role      string `json:"role,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Content   []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content,omitempty"`
}

type responsesResponse struct {
	ID     string                `json:"id"`
	Status string                `json:"status"`
	Output []responsesOutputItem `json:"output"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// --- Interface Implementation ---

func (o *OpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest, opts ...llm.Option) (*llm.Completion, error) {
	options := llm.ApplyOptions(opts...)

	payload := o.buildRequest(req, options)
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/v1/responses"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &llm.HTTPError{Provider: "openai", StatusCode: resp.StatusCode, Body: string(bodyBytes)}
		if req.ContinuationToken != "" && staleContinuation(resp.StatusCode, bodyBytes) {
			return nil, fmt.Errorf("%w %q: %w", llm.ErrUnknownContinuation, req.ContinuationToken, httpErr)
		}
		return nil, httpErr
	}

	var parsed responsesResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return toCompletion(parsed, req.ToolChoice)
}

func (o *OpenAIProvider) buildRequest(req llm.CompletionRequest, options *llm.Options) responsesRequest {
	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	input := make([]responsesInputItem, 0, len(req.ToolOutputs)+1)
	for _, out := range req.ToolOutputs {
		input = append(input, responsesInputItem{
			Type:   "function_call_output",
			CallID: out.CallID,
			Output: out.Output,
		})
	}
	if req.Input != "" {
		input = append(input, responsesInputItem{Role: "user", Content: req.Input})
	}

	payload := responsesRequest{
		Model:              model,
		Instructions:       req.Instructions,
		Input:              input,
		PreviousResponseID: req.ContinuationToken,
		Temperature:        options.Temperature,
		MaxOutputTokens:    options.MaxTokens,
		Store:              true,
	}

	for _, t := range req.Tools {
		payload.Tools = append(payload.Tools, responsesTool{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	if len(payload.Tools) > 0 {
		payload.ToolChoice = string(req.ToolChoice)
		// Follow-ups answer a single call_id, so the model may only make one call.
		parallel := false
		payload.ParallelToolCalls = &parallel
	}

	return payload
}

// staleContinuation reports whether the API rejected previous_response_id as
// not found, which happens once stored responses expire.
func staleContinuation(status int, body []byte) bool {
	if status != http.StatusBadRequest && status != http.StatusNotFound {
		return false
	}
	var parsed struct {
		Error struct {
			Code    string `json:"code"`
			Param   string `json:"param"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	e := parsed.Error
	return e.Code == "previous_response_not_found" ||
		(e.Param == "previous_response_id" && strings.Contains(strings.ToLower(e.Message), "not found"))
}

func toCompletion(resp responsesResponse, choice llm.ToolChoice) (*llm.Completion, error) {
	if resp.Error != nil && resp.Error.Message != "" {
		return nil, fmt.Errorf("openai response error %s: %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("openai response missing id")
	}

	out := &llm.Completion{ContinuationToken: resp.ID}

	var text strings.Builder
	for _, item := range resp.Output {
		switch item.Type {
		case "message":
			if item.Role != "assistant" {
				continue
			}
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					text.WriteString(c.Text)
				}
			}
		case "function_call":
			// First call wins; the contracts used here never expect parallel calls.
			if out.ToolCall == nil {
				out.ToolCall = &llm.ToolCall{
					CallID:    item.CallID,
					Name:      item.Name,
					Arguments: json.RawMessage(item.Arguments),
				}
			}
		}
	}
	out.Text = text.String()

	if choice == llm.ToolChoiceRequired && out.ToolCall == nil {
		return nil, llm.ErrNoToolCall
	}
	if out.ToolCall == nil && strings.TrimSpace(out.Text) == "" {
		return nil, fmt.Errorf("no output_text found in response")
	}

	return out, nil
}
