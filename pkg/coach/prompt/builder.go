package prompt

import (
	"context"
	"fmt"
	"strings"

	"gymbro-be/internal/constant"
	"gymbro-be/internal/entity"
	"gymbro-be/internal/repository/unitofwork"
	"gymbro-be/pkg/coach/intent"
	"gymbro-be/pkg/coach/summary"
	"gymbro-be/pkg/llm"
)

// Builder assembles the completion request for one conversational intent.
// The continuation token of the profile is attached when present.
type Builder interface {
	Build(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (llm.CompletionRequest, error)
}

func request(instructions string, profile *entity.UserProfile, message string) llm.CompletionRequest {
	return llm.CompletionRequest{
		Instructions:      instructions,
		Input:             message,
		ContinuationToken: profile.Token(),
	}
}

type NutritionBuilder struct {
	summarizer *summary.Summarizer
}

func NewNutritionBuilder(summarizer *summary.Summarizer) *NutritionBuilder {
	return &NutritionBuilder{summarizer: summarizer}
}

func (b *NutritionBuilder) Build(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (llm.CompletionRequest, error) {
	meals, err := b.summarizer.Summarize(ctx, uow, profile.Id, entity.LogKindMeal)
	if err != nil {
		return llm.CompletionRequest{}, err
	}

	var prompt strings.Builder
	prompt.WriteString(constant.CoachPersona)
	prompt.WriteString(" Right now you are advising on nutrition.\n\n")
	writeProfile(&prompt, profile)
	writeSection(&prompt, "recent_meals", fmt.Sprintf("Meals logged in the last %d days:\n%s", summary.WindowDays, meals))

	prompt.WriteString("<policy>\n")
	prompt.WriteString("- Build on what the user has actually been eating; avoid repeating the same meals they had recently.\n")
	prompt.WriteString("- Ensure variety across protein sources, vegetables and grains over the week.\n")
	prompt.WriteString("- Tie every suggestion back to the user's goal.\n")
	prompt.WriteString("- Give concrete foods and portions, not generic advice.\n")
	prompt.WriteString("</policy>")

	return request(prompt.String(), profile, message), nil
}

type WorkoutBuilder struct {
	summarizer *summary.Summarizer
}

func NewWorkoutBuilder(summarizer *summary.Summarizer) *WorkoutBuilder {
	return &WorkoutBuilder{summarizer: summarizer}
}

func (b *WorkoutBuilder) Build(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (llm.CompletionRequest, error) {
	workouts, err := b.summarizer.Summarize(ctx, uow, profile.Id, entity.LogKindWorkout)
	if err != nil {
		return llm.CompletionRequest{}, err
	}

	var prompt strings.Builder
	prompt.WriteString(constant.CoachPersona)
	prompt.WriteString(" Right now you are programming training.\n\n")
	writeProfile(&prompt, profile)
	writeSection(&prompt, "recent_workouts", fmt.Sprintf("Workouts logged in the last %d days:\n%s", summary.WindowDays, workouts))

	prompt.WriteString("<policy>\n")
	prompt.WriteString("- Do not overload muscle groups the user trained in the last 1-2 days; let them recover.\n")
	prompt.WriteString("- Prefer balanced structures such as push/pull or upper/lower splits.\n")
	prompt.WriteString("- Be concrete: name the exercises and give sets, reps or duration for each.\n")
	prompt.WriteString("- Tie the plan back to the user's goal.\n")
	prompt.WriteString("</policy>")

	return request(prompt.String(), profile, message), nil
}

// GeneralBuilder uses a fixed instruction and never reads history.
type GeneralBuilder struct{}

func NewGeneralBuilder() *GeneralBuilder {
	return &GeneralBuilder{}
}

func (b *GeneralBuilder) Build(_ context.Context, _ unitofwork.UnitOfWork, profile *entity.UserProfile, message string) (llm.CompletionRequest, error) {
	return request(constant.GeneralCoachPromptV1, profile, message), nil
}

func writeProfile(prompt *strings.Builder, profile *entity.UserProfile) {
	var b strings.Builder
	writeField(&b, "Name", profile.Name)
	writeField(&b, "Gender", profile.Gender)
	writeField(&b, "Age", profile.Age)
	writeField(&b, "Weight", profile.Weight)
	writeField(&b, "Height", profile.Height)
	writeField(&b, "Goal", profile.Goal)
	writeSection(prompt, "user_profile", strings.TrimRight(b.String(), "\n"))
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "not provided"
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func writeSection(prompt *strings.Builder, tag, body string) {
	fmt.Fprintf(prompt, "<%s>\n%s\n</%s>\n\n", tag, body, tag)
}

// Registry maps conversational intents to their builders.
type Registry struct {
	builders map[intent.Intent]Builder
}

func NewRegistry(summarizer *summary.Summarizer) *Registry {
	general := NewGeneralBuilder()
	return &Registry{builders: map[intent.Intent]Builder{
		intent.Nutrition: NewNutritionBuilder(summarizer),
		intent.Workout:   NewWorkoutBuilder(summarizer),
		intent.Other:     general,
	}}
}

// ForIntent returns false for intents handled outside the builders (logging).
func (r *Registry) ForIntent(i intent.Intent) (Builder, bool) {
	b, ok := r.builders[i]
	return b, ok
}
