package specification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"gymbro-be/internal/entity"
)

func TestOccurredBetween_Matches(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	day := OnDay(base)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "start of day", at: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), want: true},
		{name: "late evening", at: time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), want: true},
		{name: "next midnight excluded", at: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), want: false},
		{name: "previous day", at: time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, day.Matches(&entity.Meal{OccurredAt: tt.at}))
			assert.Equal(t, tt.want, day.Matches(&entity.Workout{OccurredAt: tt.at}))
		})
	}

	assert.False(t, day.Matches(&entity.UserProfile{}))
}

func TestSinceDays_OpenEnded(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	w := SinceDays(now, 7)

	assert.True(t, w.Matches(&entity.Meal{OccurredAt: now.AddDate(0, 0, -7)}))
	assert.True(t, w.Matches(&entity.Meal{OccurredAt: now.Add(time.Hour)}))
	assert.False(t, w.Matches(&entity.Meal{OccurredAt: now.AddDate(0, 0, -8)}))
}

func TestMatchAll(t *testing.T) {
	owner := uuid.New()
	meal := &entity.Meal{Id: uuid.New(), UserId: owner, OccurredAt: time.Now()}

	assert.True(t, MatchAll(meal, UserOwnedBy{UserID: owner}, OrderBy{Field: "occurred_at"}))
	assert.False(t, MatchAll(meal, UserOwnedBy{UserID: uuid.New()}))
	assert.True(t, MatchAll(meal, ByID{ID: meal.Id}))
	assert.False(t, MatchAll(&entity.UserProfile{Username: "a"}, ByUsername{Username: "b"}))
}

func TestOrderBy_Less(t *testing.T) {
	early := &entity.Workout{OccurredAt: time.Unix(100, 0)}
	late := &entity.Workout{OccurredAt: time.Unix(200, 0)}

	assert.True(t, OrderBy{Field: "occurred_at"}.Less(early, late))
	assert.True(t, OrderBy{Field: "occurred_at", Desc: true}.Less(late, early))
	assert.False(t, OrderBy{Field: "workout_type"}.Less(early, late))
}
