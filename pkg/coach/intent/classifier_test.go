package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbro-be/internal/pkg/logger"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/llm"
	"gymbro-be/pkg/llm/llmtest"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Intent
		wantErr bool
	}{
		{in: "nutrition", want: Nutrition},
		{in: " Workout ", want: Workout},
		{in: "log_meal_or_workout", want: LogActivity},
		{in: "other", want: Other},
		{in: "diet", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_UsesConstrainedTool(t *testing.T) {
	fake := llmtest.NewFakeProvider(llmtest.Intent("workout"))
	c := NewClassifier(fake, logger.NewNopLogger())

	got, err := c.Classify(context.Background(), "What's a good leg day?", "resp_prev")
	require.NoError(t, err)
	assert.Equal(t, Workout, got)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	req := calls[0].Request
	assert.Equal(t, "What's a good leg day?", req.Input)
	assert.Equal(t, "resp_prev", req.ContinuationToken)
	assert.Equal(t, llm.ToolChoiceRequired, req.ToolChoice)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, ToolName, req.Tools[0].Name)

	props := req.Tools[0].Parameters["properties"].(map[string]any)
	enum := props["intent"].(map[string]any)["enum"].([]string)
	assert.Equal(t, []string{"nutrition", "workout", "log_meal_or_workout", "other"}, enum)

	require.NotNil(t, calls[0].Options.Temperature)
	assert.Zero(t, *calls[0].Options.Temperature)
}

func TestClassify_NoTokenOnFirstTurn(t *testing.T) {
	fake := llmtest.NewFakeProvider(llmtest.Intent("other"))
	c := NewClassifier(fake, logger.NewNopLogger())

	_, err := c.Classify(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Empty(t, fake.Calls()[0].Request.ContinuationToken)
}

func TestClassify_Failures(t *testing.T) {
	tests := []struct {
		name string
		step llmtest.Step
	}{
		{name: "upstream error", step: llmtest.Fail(errors.New("503"))},
		{name: "free text instead of tool", step: llmtest.Text("workout", "resp_1")},
		{name: "wrong tool", step: llmtest.Tool("log_user_meal", map[string]string{"intent": "workout"}, "c1", "resp_1")},
		{name: "label outside enum", step: llmtest.Tool(ToolName, map[string]string{"intent": "cardio"}, "c1", "resp_1")},
		{name: "malformed arguments", step: llmtest.Tool(ToolName, []int{1, 2}, "c1", "resp_1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(llmtest.NewFakeProvider(tt.step), logger.NewNopLogger())
			got, err := c.Classify(context.Background(), "hello", "")
			assert.Empty(t, got)
			assert.ErrorIs(t, err, coach.ErrClassificationFailed)
		})
	}
}
