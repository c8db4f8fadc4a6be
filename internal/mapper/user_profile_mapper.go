package mapper

import (
	"encoding/json"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/model"

	"gorm.io/datatypes"
)

type UserProfileMapper struct{}

func NewUserProfileMapper() *UserProfileMapper {
	return &UserProfileMapper{}
}

func (m *UserProfileMapper) ToEntity(u *model.UserProfile) *entity.UserProfile {
	if u == nil {
		return nil
	}
	e := &entity.UserProfile{
		Id:                u.Id,
		Username:          u.Username,
		Name:              u.Name,
		Gender:            u.Gender,
		Age:               u.Age,
		Weight:            u.Weight,
		Height:            u.Height,
		Goal:              u.Goal,
		ContinuationToken: u.ContinuationToken,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	// A kind without a payload (or the reverse) is treated as no proposal.
	if u.PendingLogKind != nil && len(u.PendingLogPayload) > 0 {
		p := &entity.PendingLogProposal{
			Kind:    entity.LogKind(*u.PendingLogKind),
			Payload: json.RawMessage(u.PendingLogPayload),
		}
		if u.PendingLogAt != nil {
			p.ProposedAt = *u.PendingLogAt
		}
		e.PendingLog = p
	}
	return e
}

func (m *UserProfileMapper) ToModel(u *entity.UserProfile) *model.UserProfile {
	if u == nil {
		return nil
	}
	row := &model.UserProfile{
		Id:                u.Id,
		Username:          u.Username,
		Name:              u.Name,
		Gender:            u.Gender,
		Age:               u.Age,
		Weight:            u.Weight,
		Height:            u.Height,
		Goal:              u.Goal,
		ContinuationToken: u.ContinuationToken,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if u.PendingLog != nil {
		kind := string(u.PendingLog.Kind)
		at := u.PendingLog.ProposedAt
		row.PendingLogKind = &kind
		row.PendingLogPayload = datatypes.JSON(u.PendingLog.Payload)
		row.PendingLogAt = &at
	}
	return row
}
