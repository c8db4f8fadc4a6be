package implementation

import (
	"context"
	"errors"
	"time"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/mapper"
	"gymbro-be/internal/model"
	"gymbro-be/internal/repository/contract"
	"gymbro-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserProfileMapper
}

func NewUserProfileRepository(db *gorm.DB) contract.UserProfileRepository {
	return &UserProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserProfileMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserProfileRepositoryImpl) Create(ctx context.Context, profile *entity.UserProfile) error {
	if profile.Id == uuid.Nil {
		profile.Id = uuid.New()
	}
	row := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(row)
	return nil
}

func (r *UserProfileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProfile, error) {
	var row model.UserProfile
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&row), nil
}

func (r *UserProfileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserProfile, error) {
	var rows []*model.UserProfile
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	profiles := make([]*entity.UserProfile, len(rows))
	for i, row := range rows {
		profiles[i] = r.mapper.ToEntity(row)
	}
	return profiles, nil
}

func (r *UserProfileRepositoryImpl) UpdateGoal(ctx context.Context, id uuid.UUID, goal string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"goal": goal})
}

func (r *UserProfileRepositoryImpl) SetContinuationToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"continuation_token": token})
}

func (r *UserProfileRepositoryImpl) SetPendingLog(ctx context.Context, id uuid.UUID, proposal *entity.PendingLogProposal) error {
	if proposal == nil {
		return r.ClearPendingLog(ctx, id)
	}
	at := proposal.ProposedAt
	if at.IsZero() {
		at = time.Now()
	}
	return r.updateColumns(ctx, id, map[string]interface{}{
		"pending_log_kind":    string(proposal.Kind),
		"pending_log_payload": datatypes.JSON(proposal.Payload),
		"pending_log_at":      at,
	})
}

func (r *UserProfileRepositoryImpl) ClearPendingLog(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"pending_log_kind":    nil,
		"pending_log_payload": nil,
		"pending_log_at":      nil,
	})
}

func (r *UserProfileRepositoryImpl) ClearConversation(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"continuation_token":  nil,
		"pending_log_kind":    nil,
		"pending_log_payload": nil,
		"pending_log_at":      nil,
	})
}

func (r *UserProfileRepositoryImpl) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("id = ?", id).
		Updates(columns).Error
}
