package unitofwork

import (
	"context"

	"gymbro-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserProfileRepository() contract.UserProfileRepository
	MealRepository() contract.MealRepository
	WorkoutRepository() contract.WorkoutRepository
}
