package mapper

import (
	"gymbro-be/internal/entity"
	"gymbro-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) MealToEntity(r *model.Meal) *entity.Meal {
	if r == nil {
		return nil
	}
	return &entity.Meal{
		Id:         r.Id,
		UserId:     r.UserId,
		OccurredAt: r.OccurredAt,
		MealType:   r.MealType,
		Items:      append([]string(nil), r.Items...),
		CreatedAt:  r.CreatedAt,
	}
}

func (m *ActivityMapper) MealToModel(e *entity.Meal) *model.Meal {
	if e == nil {
		return nil
	}
	return &model.Meal{
		Id:         e.Id,
		UserId:     e.UserId,
		OccurredAt: e.OccurredAt,
		MealType:   e.MealType,
		Items:      datatypes.NewJSONSlice(append([]string{}, e.Items...)),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ActivityMapper) MealsToEntities(rows []*model.Meal) []*entity.Meal {
	entities := make([]*entity.Meal, len(rows))
	for i, r := range rows {
		entities[i] = m.MealToEntity(r)
	}
	return entities
}

func (m *ActivityMapper) WorkoutToEntity(r *model.Workout) *entity.Workout {
	if r == nil {
		return nil
	}
	activities := make([]entity.Exercise, len(r.Activities))
	for i, a := range r.Activities {
		activities[i] = entity.Exercise{
			Name:     a.Name,
			Mode:     entity.TrackingMode(a.Mode),
			Sets:     a.Sets,
			Reps:     a.Reps,
			Duration: a.Duration,
		}
	}
	return &entity.Workout{
		Id:          r.Id,
		UserId:      r.UserId,
		OccurredAt:  r.OccurredAt,
		WorkoutType: r.WorkoutType,
		Activities:  activities,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *ActivityMapper) WorkoutToModel(e *entity.Workout) *model.Workout {
	if e == nil {
		return nil
	}
	rows := make([]model.ExerciseRow, len(e.Activities))
	for i, a := range e.Activities {
		rows[i] = model.ExerciseRow{
			Name:     a.Name,
			Mode:     string(a.Mode),
			Sets:     a.Sets,
			Reps:     a.Reps,
			Duration: a.Duration,
		}
	}
	return &model.Workout{
		Id:          e.Id,
		UserId:      e.UserId,
		OccurredAt:  e.OccurredAt,
		WorkoutType: e.WorkoutType,
		Activities:  datatypes.NewJSONSlice(rows),
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *ActivityMapper) WorkoutsToEntities(rows []*model.Workout) []*entity.Workout {
	entities := make([]*entity.Workout, len(rows))
	for i, r := range rows {
		entities[i] = m.WorkoutToEntity(r)
	}
	return entities
}
