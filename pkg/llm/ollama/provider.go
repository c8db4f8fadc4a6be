package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"gymbro-be/pkg/llm"
)

// OllamaProvider adapts the stateless /api/chat endpoint to the continuation
// contract. Each completed turn is stored under a fresh token, so any earlier
// token can still be continued from.
type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
	turns     *cache.Cache
}

// Ensure OllamaProvider implements LLMProvider
var _ llm.LLMProvider = &OllamaProvider{}

const turnTTL = 24 * time.Hour

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
		turns: cache.New(turnTTL, time.Hour),
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Tools    []ollamaTool    `json:"tools,omitempty"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

type ollamaToolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type ollamaTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type ollamaOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Complete(ctx context.Context, req llm.CompletionRequest, opts ...llm.Option) (*llm.Completion, error) {
	options := llm.ApplyOptions(opts...)

	history, err := o.history(req.ContinuationToken)
	if err != nil {
		return nil, err
	}

	// Instructions are per turn, so they are never replayed from history.
	messages := make([]ollamaMessage, 0, len(history)+len(req.ToolOutputs)+2)
	if req.Instructions != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: req.Instructions})
	}
	messages = append(messages, history...)

	turn := make([]ollamaMessage, 0, len(req.ToolOutputs)+1)
	for _, out := range req.ToolOutputs {
		turn = append(turn, ollamaMessage{Role: "tool", Content: out.Output})
	}
	if req.Input != "" {
		turn = append(turn, ollamaMessage{Role: "user", Content: req.Input})
	}
	messages = append(messages, turn...)

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
			NumPredict:  options.MaxTokens,
		},
	}
	if req.ToolChoice != llm.ToolChoiceNone {
		for _, t := range req.Tools {
			var tool ollamaTool
			tool.Type = "function"
			tool.Function.Name = t.Name
			tool.Function.Description = t.Description
			tool.Function.Parameters = t.Parameters
			reqPayload.Tools = append(reqPayload.Tools, tool)
		}
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &llm.HTTPError{Provider: "ollama", StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	out := &llm.Completion{Text: ollamaResp.Message.Content}
	if len(ollamaResp.Message.ToolCalls) > 0 {
		call := ollamaResp.Message.ToolCalls[0]
		out.ToolCall = &llm.ToolCall{
			CallID:    uuid.NewString(),
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}
	}

	// Ollama has no tool_choice; "required" is enforced here.
	if req.ToolChoice == llm.ToolChoiceRequired && out.ToolCall == nil {
		return nil, llm.ErrNoToolCall
	}

	next := make([]ollamaMessage, 0, len(history)+len(turn)+1)
	next = append(next, history...)
	next = append(next, turn...)
	next = append(next, ollamaResp.Message)

	out.ContinuationToken = uuid.NewString()
	o.turns.Set(out.ContinuationToken, next, cache.DefaultExpiration)

	return out, nil
}

func (o *OllamaProvider) history(token string) ([]ollamaMessage, error) {
	if token == "" {
		return nil, nil
	}
	v, found := o.turns.Get(token)
	if !found {
		return nil, fmt.Errorf("ollama: %w %q", llm.ErrUnknownContinuation, token)
	}
	return v.([]ollamaMessage), nil
}
