package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gymbro-be/internal/pkg/logger"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/llm"
)

// Intent routes a message to a response strategy.
type Intent string

const (
	Nutrition   Intent = "nutrition"
	Workout     Intent = "workout"
	LogActivity Intent = "log_meal_or_workout"
	Other       Intent = "other"
)

// All lists every label in the order the classifier schema offers them.
var All = []Intent{Nutrition, Workout, LogActivity, Other}

func Parse(s string) (Intent, error) {
	label := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, i := range All {
		if i == label {
			return i, nil
		}
	}
	return "", fmt.Errorf("unknown intent %q", s)
}

func (i Intent) String() string { return string(i) }

const ToolName = "classify_intent"

// Tool is the structured-output contract: a single enum-typed field.
func Tool() llm.ToolDefinition {
	labels := make([]string, len(All))
	for i, l := range All {
		labels[i] = string(l)
	}
	return llm.ToolDefinition{
		Name:        ToolName,
		Description: "Record the category of the user's latest message.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"intent": map[string]any{
					"type": "string",
					"enum": labels,
				},
			},
			"required":             []string{"intent"},
			"additionalProperties": false,
		},
	}
}

type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewClassifier(llmProvider llm.LLMProvider, logger logger.ILogger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify labels message. The classification turn chains on token for context
// but its own response id is not meant to be persisted.
func (c *Classifier) Classify(ctx context.Context, message, token string) (Intent, error) {
	resp, err := c.llmProvider.Complete(ctx, llm.CompletionRequest{
		Instructions:      instructions(),
		Input:             message,
		ContinuationToken: token,
		Tools:             []llm.ToolDefinition{Tool()},
		ToolChoice:        llm.ToolChoiceRequired,
	}, llm.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("%w: %w", coach.ErrClassificationFailed, err)
	}

	if resp.ToolCall == nil || resp.ToolCall.Name != ToolName {
		return "", fmt.Errorf("%w: model did not call %s", coach.ErrClassificationFailed, ToolName)
	}

	var args struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal(resp.ToolCall.Arguments, &args); err != nil {
		return "", fmt.Errorf("%w: bad arguments: %v", coach.ErrClassificationFailed, err)
	}

	label, err := Parse(args.Intent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", coach.ErrClassificationFailed, err)
	}

	c.logger.WithContext(ctx).Debug("INTENT", "Classified message", map[string]interface{}{
		"intent":       label,
		"continuation": token != "",
	})
	return label, nil
}

func instructions() string {
	var b strings.Builder

	b.WriteString("You classify messages sent to a fitness coaching assistant.\n")
	b.WriteString("Call classify_intent exactly once with the label of the user's LATEST message.\n\n")

	b.WriteString("<labels>\n")
	b.WriteString("nutrition: questions about food, diet, meal plans, macros or hydration.\n")
	b.WriteString("workout: questions about training, exercises, routines, recovery or programming.\n")
	b.WriteString("log_meal_or_workout: the user reports a meal they ate or a workout they did and wants it recorded, ")
	b.WriteString("or is answering a pending confirmation or correcting a proposed log.\n")
	b.WriteString("other: greetings, small talk, and anything else.\n")
	b.WriteString("</labels>\n\n")

	b.WriteString("Use earlier turns only to resolve short replies such as \"yes\" or \"make it 4 sets\".")

	return b.String()
}
