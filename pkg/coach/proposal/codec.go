package proposal

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gymbro-be/internal/entity"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/llm"
)

type MealArgs struct {
	Date     string   `json:"date" validate:"required"`
	MealType string   `json:"meal_type" validate:"required"`
	Items    []string `json:"items" validate:"min=1,dive,required"`
}

type ActivityArgs struct {
	Name     string   `json:"name" validate:"required"`
	Mode     string   `json:"mode" validate:"oneof=reps time"`
	Sets     *int     `json:"sets,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

type WorkoutArgs struct {
	Date        string         `json:"date" validate:"required"`
	WorkoutType string         `json:"workout_type" validate:"required"`
	Activities  []ActivityArgs `json:"activities" validate:"min=1,dive"`
	Notes       string         `json:"notes,omitempty"`
}

// Proposal is a decoded, normalized log. Exactly one of Meal or Workout is set.
type Proposal struct {
	Kind    entity.LogKind
	Meal    *MealArgs
	Workout *WorkoutArgs
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode turns an extraction tool call into a validated proposal. Unreadable
// output is an upstream failure; readable but incomplete output fails validation.
func Decode(call *llm.ToolCall) (*Proposal, error) {
	if call == nil {
		return nil, fmt.Errorf("%w: no tool call", coach.ErrUpstreamGenerationFailed)
	}
	var kind entity.LogKind
	switch call.Name {
	case MealToolName:
		kind = entity.LogKindMeal
	case WorkoutToolName:
		kind = entity.LogKindWorkout
	default:
		return nil, fmt.Errorf("%w: unexpected tool %q", coach.ErrUpstreamGenerationFailed, call.Name)
	}
	return Normalize(kind, call.Arguments)
}

// FromPending rebuilds the proposal stored on a profile.
func FromPending(p *entity.PendingLogProposal) (*Proposal, error) {
	if p == nil {
		return nil, fmt.Errorf("no pending proposal")
	}
	return Normalize(p.Kind, p.Payload)
}

// Normalize parses raw arguments for kind, cleans them up and validates them.
func Normalize(kind entity.LogKind, raw json.RawMessage) (*Proposal, error) {
	switch kind {
	case entity.LogKindMeal:
		var args MealArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("%w: meal arguments: %v", coach.ErrUpstreamGenerationFailed, err)
		}
		normalizeMeal(&args)
		if err := checkMeal(&args); err != nil {
			return nil, err
		}
		return &Proposal{Kind: kind, Meal: &args}, nil
	case entity.LogKindWorkout:
		var args WorkoutArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("%w: workout arguments: %v", coach.ErrUpstreamGenerationFailed, err)
		}
		normalizeWorkout(&args)
		if err := checkWorkout(&args); err != nil {
			return nil, err
		}
		return &Proposal{Kind: kind, Workout: &args}, nil
	default:
		return nil, fmt.Errorf("%w: unknown log kind %q", coach.ErrExtractionValidationFailed, kind)
	}
}

func normalizeMeal(m *MealArgs) {
	m.Date = strings.TrimSpace(m.Date)
	m.MealType = strings.ToLower(strings.TrimSpace(m.MealType))
	if m.MealType != "" && !knownMealType(m.MealType) {
		m.MealType = string(entity.MealTypeOther)
	}
	items := m.Items[:0]
	for _, item := range m.Items {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	m.Items = items
}

func normalizeWorkout(w *WorkoutArgs) {
	w.Date = strings.TrimSpace(w.Date)
	w.WorkoutType = strings.TrimSpace(w.WorkoutType)
	w.Notes = strings.TrimSpace(w.Notes)
	for i := range w.Activities {
		a := &w.Activities[i]
		a.Name = strings.TrimSpace(a.Name)
		a.Mode = strings.ToLower(strings.TrimSpace(a.Mode))
		if a.Mode == "duration" {
			a.Mode = string(entity.TrackingModeTime)
		}
		// Quantities that do not belong to the mode are dropped.
		switch entity.TrackingMode(a.Mode) {
		case entity.TrackingModeReps:
			a.Duration = nil
		case entity.TrackingModeTime:
			a.Sets, a.Reps = nil, nil
		}
	}
}

func knownMealType(t string) bool {
	for _, known := range entity.MealTypes {
		if string(known) == t {
			return true
		}
	}
	return false
}

func checkMeal(m *MealArgs) error {
	problems := structProblems(m)
	if m.Date != "" {
		if _, err := ParseDate(m.Date); err != nil {
			problems = append(problems, "date: "+err.Error())
		}
	}
	return asValidationError(problems)
}

func checkWorkout(w *WorkoutArgs) error {
	problems := structProblems(w)
	if w.Date != "" {
		if _, err := ParseDate(w.Date); err != nil {
			problems = append(problems, "date: "+err.Error())
		}
	}
	for i, a := range w.Activities {
		field := fmt.Sprintf("activities[%d]", i)
		switch entity.TrackingMode(a.Mode) {
		case entity.TrackingModeReps:
			if a.Sets == nil || *a.Sets <= 0 {
				problems = append(problems, field+".sets: required for reps mode")
			}
			if a.Reps == nil || *a.Reps <= 0 {
				problems = append(problems, field+".reps: required for reps mode")
			}
		case entity.TrackingModeTime:
			if a.Duration == nil || *a.Duration <= 0 {
				problems = append(problems, field+".duration: required for time mode")
			}
		}
	}
	return asValidationError(problems)
}

func structProblems(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Drop the root struct name from the namespace.
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		problems = append(problems, fmt.Sprintf("%s: failed %s", path, fe.Tag()))
	}
	return problems
}

func asValidationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", coach.ErrExtractionValidationFailed, strings.Join(problems, "; "))
}

// Pending packs the normalized proposal for storage on the profile.
func (p *Proposal) Pending(now time.Time) (*entity.PendingLogProposal, error) {
	var payload any = p.Meal
	if p.Kind == entity.LogKindWorkout {
		payload = p.Workout
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &entity.PendingLogProposal{Kind: p.Kind, Payload: raw, ProposedAt: now}, nil
}

// Arguments returns the normalized tool arguments as JSON.
func (p *Proposal) Arguments() json.RawMessage {
	pending, err := p.Pending(time.Time{})
	if err != nil {
		return nil
	}
	return pending.Payload
}

// Summary renders the proposal for the confirmation prompt.
func (p *Proposal) Summary() string {
	var b strings.Builder
	switch p.Kind {
	case entity.LogKindMeal:
		m := p.Meal
		fmt.Fprintf(&b, "Meal: %s on %s\n", m.MealType, displayDate(m.Date))
		fmt.Fprintf(&b, "Items: %s", strings.Join(m.Items, ", "))
	case entity.LogKindWorkout:
		w := p.Workout
		fmt.Fprintf(&b, "Workout: %s on %s\n", w.WorkoutType, displayDate(w.Date))
		for _, a := range w.Activities {
			if entity.TrackingMode(a.Mode) == entity.TrackingModeReps {
				fmt.Fprintf(&b, "- %s: %d sets of %d reps\n", a.Name, deref(a.Sets), deref(a.Reps))
			} else {
				fmt.Fprintf(&b, "- %s: %s minutes\n", a.Name, strconv.FormatFloat(derefFloat(a.Duration), 'f', -1, 64))
			}
		}
		if w.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", w.Notes)
		}
	}
	return strings.TrimSpace(b.String())
}

func displayDate(raw string) string {
	t, err := ParseDate(raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (p *Proposal) ToMeal(userID uuid.UUID) (*entity.Meal, error) {
	if p.Kind != entity.LogKindMeal || p.Meal == nil {
		return nil, fmt.Errorf("proposal is a %s, not a meal", p.Kind)
	}
	at, err := ParseDate(p.Meal.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", coach.ErrExtractionValidationFailed, err)
	}
	return &entity.Meal{
		UserId:     userID,
		OccurredAt: at,
		MealType:   p.Meal.MealType,
		Items:      append([]string(nil), p.Meal.Items...),
	}, nil
}

func (p *Proposal) ToWorkout(userID uuid.UUID) (*entity.Workout, error) {
	if p.Kind != entity.LogKindWorkout || p.Workout == nil {
		return nil, fmt.Errorf("proposal is a %s, not a workout", p.Kind)
	}
	at, err := ParseDate(p.Workout.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", coach.ErrExtractionValidationFailed, err)
	}
	activities := make([]entity.Exercise, len(p.Workout.Activities))
	for i, a := range p.Workout.Activities {
		activities[i] = entity.Exercise{
			Name:     a.Name,
			Mode:     entity.TrackingMode(a.Mode),
			Sets:     a.Sets,
			Reps:     a.Reps,
			Duration: a.Duration,
		}
	}
	return &entity.Workout{
		UserId:      userID,
		OccurredAt:  at,
		WorkoutType: p.Workout.WorkoutType,
		Activities:  activities,
		Notes:       p.Workout.Notes,
	}, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339, a zone-less date-time (UTC assumed) or a bare date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
