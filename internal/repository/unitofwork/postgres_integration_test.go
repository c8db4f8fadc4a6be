//go:build integration

package unitofwork

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/model"
	"gymbro-be/internal/repository/specification"
	"gymbro-be/pkg/database"
)

func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("gymbro"),
		postgrescontainer.WithUsername("gymbro"),
		postgrescontainer.WithPassword("gymbro"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func TestUnitOfWork_Postgres(t *testing.T) {
	ctx := context.Background()
	factory := NewRepositoryFactory(newPostgres(t))

	profile := &entity.UserProfile{Username: "pg-user", Goal: "squat 140kg"}
	require.NoError(t, factory.NewUnitOfWork(ctx).UserProfileRepository().Create(ctx, profile))

	t.Run("rollback discards the record and keeps the proposal", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.UserProfileRepository().SetPendingLog(ctx, profile.Id, &entity.PendingLogProposal{
			Kind:       entity.LogKindMeal,
			Payload:    json.RawMessage(`{"meal_type":"lunch","items":["rice"]}`),
			ProposedAt: time.Now().UTC(),
		}))

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.MealRepository().Create(ctx, &entity.Meal{UserId: profile.Id, OccurredAt: time.Now().UTC(), MealType: "lunch", Items: []string{"rice"}}))
		require.NoError(t, uow.UserProfileRepository().ClearPendingLog(ctx, profile.Id))
		require.NoError(t, uow.Rollback())

		count, err := uow.MealRepository().Count(ctx, specification.UserOwnedBy{UserID: profile.Id})
		require.NoError(t, err)
		assert.Zero(t, count)

		stored, err := uow.UserProfileRepository().FindOne(ctx, specification.ByUsername{Username: "pg-user"})
		require.NoError(t, err)
		require.NotNil(t, stored.PendingLog)
		assert.Equal(t, entity.LogKindMeal, stored.PendingLog.Kind)
	})

	t.Run("commit persists workouts with exercises", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		sets, reps := 5, 5
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.WorkoutRepository().Create(ctx, &entity.Workout{
			UserId:      profile.Id,
			OccurredAt:  time.Now().UTC(),
			WorkoutType: "legs",
			Activities:  []entity.Exercise{{Name: "squat", Mode: entity.TrackingModeReps, Sets: &sets, Reps: &reps}},
		}))
		require.NoError(t, uow.UserProfileRepository().ClearPendingLog(ctx, profile.Id))
		require.NoError(t, uow.Commit())

		workouts, err := uow.WorkoutRepository().FindAll(ctx, specification.UserOwnedBy{UserID: profile.Id})
		require.NoError(t, err)
		require.Len(t, workouts, 1)
		require.Len(t, workouts[0].Activities, 1)
		assert.Equal(t, 5, *workouts[0].Activities[0].Sets)
		assert.NotEqual(t, uuid.Nil, workouts[0].Id)

		stored, err := uow.UserProfileRepository().FindOne(ctx, specification.ByID{ID: profile.Id})
		require.NoError(t, err)
		assert.Nil(t, stored.PendingLog)
	})
}
