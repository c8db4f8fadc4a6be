package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gymbro-be/internal/dto"
	"gymbro-be/internal/entity"
	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/repository/specification"
	"gymbro-be/internal/repository/unitofwork"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/coach/proposal"
	"gymbro-be/pkg/coach/summary"
	"gymbro-be/pkg/events"

	"github.com/google/uuid"
)

// ILogService records meals and workouts entered directly, outside the chat.
type ILogService interface {
	LogMeal(ctx context.Context, username string, request *dto.LogMealRequest) (*dto.MealResponse, error)
	LogWorkout(ctx context.Context, username string, request *dto.LogWorkoutRequest) (*dto.WorkoutResponse, error)
	ByDate(ctx context.Context, username string, date string) (*dto.LogsByDateResponse, error)
	Recent(ctx context.Context, username string) (*dto.RecentActivityResponse, error)
}

type logService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	summarizer *summary.Summarizer
	logger     logger.ILogger
	now        func() time.Time
}

func NewLogService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, summarizer *summary.Summarizer, logger logger.ILogger) ILogService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &logService{
		uowFactory: uowFactory,
		publisher:  publisher,
		summarizer: summarizer,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *logService) LogMeal(ctx context.Context, username string, request *dto.LogMealRequest) (*dto.MealResponse, error) {
	p, err := s.normalize(entity.LogKindMeal, request)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	meal, err := p.ToMeal(profile.Id)
	if err != nil {
		return nil, err
	}
	if err := uow.MealRepository().Create(ctx, meal); err != nil {
		return nil, err
	}
	s.announce(ctx, profile, entity.LogKindMeal, meal.Id, meal.OccurredAt)

	return toMealResponse(meal), nil
}

func (s *logService) LogWorkout(ctx context.Context, username string, request *dto.LogWorkoutRequest) (*dto.WorkoutResponse, error) {
	p, err := s.normalize(entity.LogKindWorkout, request)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	workout, err := p.ToWorkout(profile.Id)
	if err != nil {
		return nil, err
	}
	if err := uow.WorkoutRepository().Create(ctx, workout); err != nil {
		return nil, err
	}
	s.announce(ctx, profile, entity.LogKindWorkout, workout.Id, workout.OccurredAt)

	return toWorkoutResponse(workout), nil
}

// ByDate lists the records of one UTC calendar day; an empty date means today.
func (s *logService) ByDate(ctx context.Context, username string, date string) (*dto.LogsByDateResponse, error) {
	day := s.now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
		}
		day = parsed
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: profile.Id},
		specification.OnDay(day),
		specification.OrderBy{Field: "occurred_at"},
	}
	meals, err := uow.MealRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	workouts, err := uow.WorkoutRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.LogsByDateResponse{
		Date:     day.Format("2006-01-02"),
		Meals:    make([]*dto.MealResponse, 0, len(meals)),
		Workouts: make([]*dto.WorkoutResponse, 0, len(workouts)),
	}
	for _, m := range meals {
		res.Meals = append(res.Meals, toMealResponse(m))
	}
	for _, w := range workouts {
		res.Workouts = append(res.Workouts, toWorkoutResponse(w))
	}
	return res, nil
}

// Recent returns the same trailing-window history the coach sees.
func (s *logService) Recent(ctx context.Context, username string) (*dto.RecentActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	digest, err := s.summarizer.SummarizeAll(ctx, uow, profile.Id)
	if err != nil {
		return nil, err
	}
	return &dto.RecentActivityResponse{
		WindowDays: summary.WindowDays,
		Meals:      digest.Meals,
		Workouts:   digest.Workouts,
	}, nil
}

// normalize runs manual input through the same rules as extracted proposals.
func (s *logService) normalize(kind entity.LogKind, request any) (*proposal.Proposal, error) {
	raw, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	return proposal.Normalize(kind, raw)
}

func (s *logService) announce(ctx context.Context, profile *entity.UserProfile, kind entity.LogKind, id uuid.UUID, at time.Time) {
	s.logger.WithContext(ctx).Info("LOG", "Activity logged manually", map[string]interface{}{
		"username":  profile.Username,
		"kind":      kind,
		"record_id": id,
	})
	if err := s.publisher.Publish(ctx, events.NewActivityLogged(profile.Id, string(kind), id, at)); err != nil {
		s.logger.WithContext(ctx).Warn("LOG", "Failed to publish activity event", map[string]interface{}{
			"record_id": id,
			"error":     err.Error(),
		})
	}
}

func findProfile(ctx context.Context, uow unitofwork.UnitOfWork, username string) (*entity.UserProfile, error) {
	profile, err := uow.UserProfileRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, coach.ErrUnknownUser
	}
	return profile, nil
}

func toMealResponse(m *entity.Meal) *dto.MealResponse {
	return &dto.MealResponse{
		Id:         m.Id,
		OccurredAt: m.OccurredAt,
		MealType:   m.MealType,
		Items:      m.Items,
		CreatedAt:  m.CreatedAt,
	}
}

func toWorkoutResponse(w *entity.Workout) *dto.WorkoutResponse {
	activities := make([]dto.ExerciseDTO, 0, len(w.Activities))
	for _, a := range w.Activities {
		activities = append(activities, dto.ExerciseDTO{
			Name:     a.Name,
			Mode:     string(a.Mode),
			Sets:     a.Sets,
			Reps:     a.Reps,
			Duration: a.Duration,
		})
	}
	return &dto.WorkoutResponse{
		Id:          w.Id,
		OccurredAt:  w.OccurredAt,
		WorkoutType: w.WorkoutType,
		Activities:  activities,
		Notes:       w.Notes,
		CreatedAt:   w.CreatedAt,
	}
}
