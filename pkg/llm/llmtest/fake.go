// Package llmtest provides a scripted LLMProvider for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"gymbro-be/pkg/llm"
)

// Step is one scripted answer. Exactly one of Completion or Err is used.
type Step struct {
	Completion *llm.Completion
	Err        error
}

// Call records what the caller sent.
type Call struct {
	Request llm.CompletionRequest
	Options llm.Options
}

type FakeProvider struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
}

var _ llm.LLMProvider = &FakeProvider{}

func NewFakeProvider(steps ...Step) *FakeProvider {
	return &FakeProvider{steps: steps}
}

// Push appends more scripted steps.
func (f *FakeProvider) Push(steps ...Step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, steps...)
}

func (f *FakeProvider) Complete(ctx context.Context, req llm.CompletionRequest, opts ...llm.Option) (*llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Request: req, Options: *llm.ApplyOptions(opts...)})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.steps) == 0 {
		return nil, fmt.Errorf("llmtest: no scripted step left for call %d", len(f.calls))
	}

	step := f.steps[0]
	f.steps = f.steps[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	out := *step.Completion
	return &out, nil
}

func (f *FakeProvider) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Remaining reports how many scripted steps were not consumed.
func (f *FakeProvider) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.steps)
}

func Text(text, token string) Step {
	return Step{Completion: &llm.Completion{Text: text, ContinuationToken: token}}
}

// Tool scripts a function call whose arguments are args marshalled to JSON.
func Tool(name string, args any, callID, token string) Step {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	return Step{Completion: &llm.Completion{
		ContinuationToken: token,
		ToolCall:          &llm.ToolCall{CallID: callID, Name: name, Arguments: raw},
	}}
}

// Intent scripts a classifier answer.
func Intent(label string) Step {
	return Tool("classify_intent", map[string]string{"intent": label}, "call_intent", "resp_classify")
}

func Fail(err error) Step {
	return Step{Err: err}
}
