package dto

import (
	"time"

	"github.com/google/uuid"
)

type LogMealRequest struct {
	Date     string   `json:"date" validate:"required"`
	MealType string   `json:"meal_type" validate:"required"`
	Items    []string `json:"items" validate:"required,min=1,dive,required"`
}

type ExerciseDTO struct {
	Name     string   `json:"name" validate:"required"`
	Mode     string   `json:"mode" validate:"required"`
	Sets     *int     `json:"sets,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Duration *float64 `json:"duration,omitempty"` // minutes
}

type LogWorkoutRequest struct {
	Date        string        `json:"date" validate:"required"`
	WorkoutType string        `json:"workout_type" validate:"required"`
	Activities  []ExerciseDTO `json:"activities" validate:"required,min=1,dive"`
	Notes       string        `json:"notes,omitempty" validate:"max=2000"`
}

type MealResponse struct {
	Id         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	MealType   string    `json:"meal_type"`
	Items      []string  `json:"items"`
	CreatedAt  time.Time `json:"created_at"`
}

type WorkoutResponse struct {
	Id          uuid.UUID     `json:"id"`
	OccurredAt  time.Time     `json:"occurred_at"`
	WorkoutType string        `json:"workout_type"`
	Activities  []ExerciseDTO `json:"activities"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type LogsByDateResponse struct {
	Date     string             `json:"date"`
	Meals    []*MealResponse    `json:"meals"`
	Workouts []*WorkoutResponse `json:"workouts"`
}

type RecentActivityResponse struct {
	WindowDays int    `json:"window_days"`
	Meals      string `json:"meals"`
	Workouts   string `json:"workouts"`
}
