package contract

import (
	"context"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/repository/specification"

	"github.com/google/uuid"
)

// UserProfileRepository updates individual columns; callers never write a whole row back.
type UserProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProfile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserProfile, error)

	UpdateGoal(ctx context.Context, id uuid.UUID, goal string) error

	// Conversation state
	SetContinuationToken(ctx context.Context, id uuid.UUID, token string) error
	SetPendingLog(ctx context.Context, id uuid.UUID, proposal *entity.PendingLogProposal) error
	ClearPendingLog(ctx context.Context, id uuid.UUID) error
	ClearConversation(ctx context.Context, id uuid.UUID) error // Token and pending proposal
}
