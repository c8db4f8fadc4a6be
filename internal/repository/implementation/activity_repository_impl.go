package implementation

import (
	"context"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/mapper"
	"gymbro-be/internal/model"
	"gymbro-be/internal/repository/contract"
	"gymbro-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewMealRepository(db *gorm.DB) contract.MealRepository {
	return &MealRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *MealRepositoryImpl) Create(ctx context.Context, meal *entity.Meal) error {
	if meal.Id == uuid.Nil {
		meal.Id = uuid.New()
	}
	row := r.mapper.MealToModel(meal)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*meal = *r.mapper.MealToEntity(row)
	return nil
}

func (r *MealRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meal, error) {
	var rows []*model.Meal
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.MealsToEntities(rows), nil
}

func (r *MealRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Meal{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type WorkoutRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewWorkoutRepository(db *gorm.DB) contract.WorkoutRepository {
	return &WorkoutRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *WorkoutRepositoryImpl) Create(ctx context.Context, workout *entity.Workout) error {
	if workout.Id == uuid.Nil {
		workout.Id = uuid.New()
	}
	row := r.mapper.WorkoutToModel(workout)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*workout = *r.mapper.WorkoutToEntity(row)
	return nil
}

func (r *WorkoutRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Workout, error) {
	var rows []*model.Workout
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.WorkoutsToEntities(rows), nil
}

func (r *WorkoutRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Workout{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
