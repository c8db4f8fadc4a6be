package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/repository/contract"
	"gymbro-be/internal/repository/specification"
)

type MealRepository struct {
	store *Store
}

var _ contract.MealRepository = &MealRepository{}

func NewMealRepository(store *Store) *MealRepository {
	return &MealRepository{store: store}
}

func (r *MealRepository) Create(ctx context.Context, meal *entity.Meal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meal.Id == uuid.Nil {
		meal.Id = uuid.New()
	}
	meal.CreatedAt = time.Now()
	cp := *meal
	cp.Items = append([]string(nil), meal.Items...)
	r.store.put(r.store.meals, meal.Id.String(), &cp)
	return nil
}

func (r *MealRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meal, error) {
	values, err := query(ctx, r.store.meals, specs...)
	if err != nil {
		return nil, err
	}
	meals := make([]*entity.Meal, len(values))
	for i, v := range values {
		cp := *v.(*entity.Meal)
		cp.Items = append([]string(nil), cp.Items...)
		meals[i] = &cp
	}
	return meals, nil
}

func (r *MealRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	values, err := query(ctx, r.store.meals, specs...)
	return int64(len(values)), err
}

type WorkoutRepository struct {
	store *Store
}

var _ contract.WorkoutRepository = &WorkoutRepository{}

func NewWorkoutRepository(store *Store) *WorkoutRepository {
	return &WorkoutRepository{store: store}
}

func (r *WorkoutRepository) Create(ctx context.Context, workout *entity.Workout) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if workout.Id == uuid.Nil {
		workout.Id = uuid.New()
	}
	workout.CreatedAt = time.Now()
	cp := *workout
	cp.Activities = append([]entity.Exercise(nil), workout.Activities...)
	r.store.put(r.store.workouts, workout.Id.String(), &cp)
	return nil
}

func (r *WorkoutRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Workout, error) {
	values, err := query(ctx, r.store.workouts, specs...)
	if err != nil {
		return nil, err
	}
	workouts := make([]*entity.Workout, len(values))
	for i, v := range values {
		cp := *v.(*entity.Workout)
		cp.Activities = append([]entity.Exercise(nil), cp.Activities...)
		workouts[i] = &cp
	}
	return workouts, nil
}

func (r *WorkoutRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	values, err := query(ctx, r.store.workouts, specs...)
	return int64(len(values)), err
}
