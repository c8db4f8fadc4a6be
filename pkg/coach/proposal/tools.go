package proposal

import (
	"gymbro-be/internal/entity"
	"gymbro-be/pkg/llm"
)

const (
	MealToolName    = "log_user_meal"
	WorkoutToolName = "log_user_workout"
)

func LogMealTool() llm.ToolDefinition {
	mealTypes := make([]string, len(entity.MealTypes))
	for i, t := range entity.MealTypes {
		mealTypes[i] = string(t)
	}
	return llm.ToolDefinition{
		Name:        MealToolName,
		Description: "Propose a meal log entry for the user to confirm.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"date": map[string]any{
					"type":        "string",
					"description": "When the meal was eaten, ISO 8601 (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS).",
				},
				"meal_type": map[string]any{
					"type": "string",
					"enum": mealTypes,
				},
				"items": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 1,
				},
			},
			"required": []string{"date", "meal_type", "items"},
		},
	}
}

func LogWorkoutTool() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        WorkoutToolName,
		Description: "Propose a workout log entry for the user to confirm.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"date": map[string]any{
					"type":        "string",
					"description": "When the workout happened, ISO 8601 (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS).",
				},
				"workout_type": map[string]any{
					"type":        "string",
					"description": "Short label such as legs, push, cardio.",
				},
				"activities": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":     map[string]any{"type": "string"},
							"mode":     map[string]any{"type": "string", "enum": []string{"reps", "time"}},
							"sets":     map[string]any{"type": "integer", "minimum": 1},
							"reps":     map[string]any{"type": "integer", "minimum": 1},
							"duration": map[string]any{"type": "number", "description": "Minutes, for time mode."},
						},
						"required": []string{"name", "mode"},
					},
				},
				"notes": map[string]any{"type": "string"},
			},
			"required": []string{"date", "workout_type", "activities"},
		},
	}
}

// Tools is the extraction tool set; the model must pick exactly one.
func Tools() []llm.ToolDefinition {
	return []llm.ToolDefinition{LogMealTool(), LogWorkoutTool()}
}
