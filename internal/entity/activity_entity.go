package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LogKind string

const (
	LogKindMeal    LogKind = "meal"
	LogKindWorkout LogKind = "workout"
)

func ParseLogKind(s string) (LogKind, error) {
	switch LogKind(s) {
	case LogKindMeal, LogKindWorkout:
		return LogKind(s), nil
	default:
		return "", fmt.Errorf("unknown log kind %q", s)
	}
}

type TrackingMode string

const (
	TrackingModeReps TrackingMode = "reps"
	TrackingModeTime TrackingMode = "time"
)

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
	MealTypeOther     MealType = "other"
)

var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeOther}

type Meal struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	OccurredAt time.Time
	MealType   string
	Items      []string
	CreatedAt  time.Time
}

// Exercise quantities are optional on read; old or manually imported rows may lack them.
type Exercise struct {
	Name     string
	Mode     TrackingMode
	Sets     *int
	Reps     *int
	Duration *float64 // Minutes
}

type Workout struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	OccurredAt  time.Time
	WorkoutType string
	Activities  []Exercise
	Notes       string
	CreatedAt   time.Time
}
