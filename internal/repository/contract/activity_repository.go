package contract

import (
	"context"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/repository/specification"
)

// Activity records are append-only.

type MealRepository interface {
	Create(ctx context.Context, meal *entity.Meal) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meal, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type WorkoutRepository interface {
	Create(ctx context.Context, workout *entity.Workout) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Workout, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
