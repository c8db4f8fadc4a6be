package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbro-be/internal/dto"
	"gymbro-be/internal/entity"
	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/repository/memory"
	"gymbro-be/pkg/coach"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory(memory.NewStore())
	uow := factory.NewUnitOfWork(ctx)
	profile := &entity.UserProfile{Username: "sam", Name: "Sam", Goal: "lose 5kg"}
	require.NoError(t, uow.UserProfileRepository().Create(ctx, profile))
	require.NoError(t, uow.UserProfileRepository().SetContinuationToken(ctx, profile.Id, "resp_secret"))

	svc := NewProfileService(factory, logger.NewNopLogger())

	got, err := svc.GetProfile(ctx, "sam")
	require.NoError(t, err)
	assert.Equal(t, "lose 5kg", got.Goal)
	assert.False(t, got.HasPendingLog)

	updated, err := svc.UpdateGoal(ctx, "sam", &dto.UpdateGoalRequest{Goal: "  run a 10k  "})
	require.NoError(t, err)
	assert.Equal(t, "run a 10k", updated.Goal)

	_, err = svc.UpdateGoal(ctx, "sam", &dto.UpdateGoalRequest{Goal: "   "})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, coach.ErrUnknownUser)
}
