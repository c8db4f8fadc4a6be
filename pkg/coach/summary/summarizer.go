package summary

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/repository/specification"
	"gymbro-be/internal/repository/unitofwork"
)

// WindowDays is the lookback used for prompt context.
const WindowDays = 7

const (
	NoMeals    = "- No meals logged."
	NoWorkouts = "- No workouts logged."
)

type Summarizer struct {
	now func() time.Time
}

func NewSummarizer() *Summarizer {
	return &Summarizer{now: time.Now}
}

// NewSummarizerWithClock pins "now" for tests.
func NewSummarizerWithClock(now func() time.Time) *Summarizer {
	return &Summarizer{now: now}
}

// Summarize renders the user's records of kind from the trailing window, in store order.
func (s *Summarizer) Summarize(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID, kind entity.LogKind) (string, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userID},
		specification.SinceDays(s.now(), WindowDays),
	}

	switch kind {
	case entity.LogKindMeal:
		meals, err := uow.MealRepository().FindAll(ctx, specs...)
		if err != nil {
			return "", fmt.Errorf("load meals: %w", err)
		}
		return RenderMeals(meals), nil
	case entity.LogKindWorkout:
		workouts, err := uow.WorkoutRepository().FindAll(ctx, specs...)
		if err != nil {
			return "", fmt.Errorf("load workouts: %w", err)
		}
		return RenderWorkouts(workouts), nil
	default:
		return "", fmt.Errorf("unknown log kind %q", kind)
	}
}

// Digest holds both rendered histories for one user.
type Digest struct {
	Meals    string
	Workouts string
}

func (s *Summarizer) SummarizeAll(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID) (*Digest, error) {
	meals, err := s.Summarize(ctx, uow, userID, entity.LogKindMeal)
	if err != nil {
		return nil, err
	}
	workouts, err := s.Summarize(ctx, uow, userID, entity.LogKindWorkout)
	if err != nil {
		return nil, err
	}
	return &Digest{Meals: meals, Workouts: workouts}, nil
}

func RenderMeals(meals []*entity.Meal) string {
	if len(meals) == 0 {
		return NoMeals
	}
	var b strings.Builder
	for _, m := range meals {
		writeHeader(&b, orDefault(m.MealType, "Meal"), m.OccurredAt)
		for _, item := range m.Items {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderWorkouts(workouts []*entity.Workout) string {
	if len(workouts) == 0 {
		return NoWorkouts
	}
	var b strings.Builder
	for _, w := range workouts {
		writeHeader(&b, orDefault(w.WorkoutType, "Workout"), w.OccurredAt)
		for _, ex := range w.Activities {
			name := orDefault(ex.Name, "Exercise")
			if ex.Mode == entity.TrackingModeReps {
				fmt.Fprintf(&b, "  - %s: %s sets of %s reps\n", name, intOrUnknown(ex.Sets), intOrUnknown(ex.Reps))
			} else {
				fmt.Fprintf(&b, "  - %s: %s minutes\n", name, floatOrUnknown(ex.Duration))
			}
		}
		if w.Notes != "" {
			fmt.Fprintf(&b, "  Notes: %s\n", w.Notes)
		}
	}
	return strings.TrimSpace(b.String())
}

func writeHeader(b *strings.Builder, label string, at time.Time) {
	date := "?"
	if !at.IsZero() {
		date = at.Format("2006-01-02")
	}
	fmt.Fprintf(b, "- %s on %s:\n", label, date)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func intOrUnknown(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func floatOrUnknown(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
