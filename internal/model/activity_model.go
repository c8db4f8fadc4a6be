package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Meal struct {
	Id         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID                   `gorm:"type:uuid;not null;index:idx_meals_user_occurred"`
	OccurredAt time.Time                   `gorm:"not null;index:idx_meals_user_occurred"`
	MealType   string                      `gorm:"type:varchar(50);not null"`
	Items      datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime"`
}

func (Meal) TableName() string {
	return "meals"
}

// ExerciseRow is one element of the workouts.activities JSON column.
type ExerciseRow struct {
	Name     string   `json:"name"`
	Mode     string   `json:"mode"`
	Sets     *int     `json:"sets,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

type Workout struct {
	Id          uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID                        `gorm:"type:uuid;not null;index:idx_workouts_user_occurred"`
	OccurredAt  time.Time                        `gorm:"not null;index:idx_workouts_user_occurred"`
	WorkoutType string                           `gorm:"type:varchar(100);not null"`
	Activities  datatypes.JSONSlice[ExerciseRow] `gorm:"not null"`
	Notes       string                           `gorm:"type:text"`
	CreatedAt   time.Time                        `gorm:"autoCreateTime"`
}

func (Workout) TableName() string {
	return "workouts"
}
