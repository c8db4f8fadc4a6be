package llm

import (
	"context"
	"encoding/json"
)

// ToolChoice controls whether the model may, must, or must not call a tool.
type ToolChoice string

const (
	ToolChoiceDefault  ToolChoice = ""
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceRequired ToolChoice = "required"
	ToolChoiceNone     ToolChoice = "none"
)

// ToolDefinition declares a function the model can call. Parameters is a JSON schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is the function invocation chosen by the model.
type ToolCall struct {
	CallID    string
	Name      string
	Arguments json.RawMessage
}

// ToolOutput answers a ToolCall from the previous turn.
type ToolOutput struct {
	CallID string
	Output string
}

// CompletionRequest is a single turn sent to the completion service.
// An empty ContinuationToken starts a new conversation.
type CompletionRequest struct {
	Instructions      string
	Input             string
	ContinuationToken string
	Tools             []ToolDefinition
	ToolChoice        ToolChoice
	ToolOutputs       []ToolOutput
}

// Completion is the result of a turn. ContinuationToken references this turn.
type Completion struct {
	Text              string
	ContinuationToken string
	ToolCall          *ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature *float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions folds opts over the zero Options.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// LLMProvider defines the contract for any stateful completion backend
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest, options ...Option) (*Completion, error)
}
