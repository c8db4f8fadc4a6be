package implementation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/model"
	"gymbro-be/internal/repository/specification"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestUserProfileRepository_FieldUpdates(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserProfileRepository(db)

	profile := &entity.UserProfile{Username: "alex", Name: "Alex", Age: "31", Goal: "lose 5kg"}
	require.NoError(t, repo.Create(ctx, profile))

	got, err := repo.FindOne(ctx, specification.ByUsername{Username: "alex"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.HasToken())
	assert.Nil(t, got.PendingLog)

	require.NoError(t, repo.SetContinuationToken(ctx, profile.Id, "resp_abc"))
	require.NoError(t, repo.SetPendingLog(ctx, profile.Id, &entity.PendingLogProposal{
		Kind:    entity.LogKindWorkout,
		Payload: json.RawMessage(`{"workout_type":"legs"}`),
	}))
	require.NoError(t, repo.UpdateGoal(ctx, profile.Id, "run a marathon"))

	got, err = repo.FindOne(ctx, specification.ByID{ID: profile.Id})
	require.NoError(t, err)
	assert.Equal(t, "resp_abc", got.Token())
	assert.Equal(t, "run a marathon", got.Goal)
	assert.Equal(t, "Alex", got.Name, "partial updates leave other columns alone")
	require.NotNil(t, got.PendingLog)
	assert.Equal(t, entity.LogKindWorkout, got.PendingLog.Kind)
	assert.JSONEq(t, `{"workout_type":"legs"}`, string(got.PendingLog.Payload))

	require.NoError(t, repo.ClearPendingLog(ctx, profile.Id))
	got, err = repo.FindOne(ctx, specification.ByID{ID: profile.Id})
	require.NoError(t, err)
	assert.Nil(t, got.PendingLog)
	assert.True(t, got.HasToken())

	require.NoError(t, repo.ClearConversation(ctx, profile.Id))
	got, err = repo.FindOne(ctx, specification.ByID{ID: profile.Id})
	require.NoError(t, err)
	assert.False(t, got.HasToken())

	missing, err := repo.FindOne(ctx, specification.ByUsername{Username: "nobody"})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestActivityRepositories_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	meals := NewMealRepository(db)
	workouts := NewWorkoutRepository(db)

	owner := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, meals.Create(ctx, &entity.Meal{UserId: owner, OccurredAt: now, MealType: "breakfast", Items: []string{"eggs", "toast"}}))
	require.NoError(t, meals.Create(ctx, &entity.Meal{UserId: owner, OccurredAt: now.AddDate(0, 0, -9), MealType: "lunch", Items: []string{"wrap"}}))

	sets, reps, minutes := 3, 8, 20.0
	require.NoError(t, workouts.Create(ctx, &entity.Workout{
		UserId:      owner,
		OccurredAt:  now,
		WorkoutType: "legs",
		Activities: []entity.Exercise{
			{Name: "squat", Mode: entity.TrackingModeReps, Sets: &sets, Reps: &reps},
			{Name: "bike", Mode: entity.TrackingModeTime, Duration: &minutes},
		},
		Notes: "felt strong",
	}))

	recent := []specification.Specification{specification.UserOwnedBy{UserID: owner}, specification.SinceDays(now, 7)}

	gotMeals, err := meals.FindAll(ctx, recent...)
	require.NoError(t, err)
	require.Len(t, gotMeals, 1)
	assert.Equal(t, []string{"eggs", "toast"}, gotMeals[0].Items)

	gotWorkouts, err := workouts.FindAll(ctx, recent...)
	require.NoError(t, err)
	require.Len(t, gotWorkouts, 1)
	w := gotWorkouts[0]
	assert.Equal(t, "felt strong", w.Notes)
	require.Len(t, w.Activities, 2)
	assert.Equal(t, 3, *w.Activities[0].Sets)
	assert.Nil(t, w.Activities[0].Duration)
	assert.Equal(t, 20.0, *w.Activities[1].Duration)

	total, err := meals.Count(ctx, specification.UserOwnedBy{UserID: owner})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
