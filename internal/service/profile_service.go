package service

import (
	"context"
	"errors"
	"strings"

	"gymbro-be/internal/dto"
	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/repository/unitofwork"
)

// ErrInvalidRequest marks client input the services reject before any work.
var ErrInvalidRequest = errors.New("invalid request")

type IProfileService interface {
	GetProfile(ctx context.Context, username string) (*dto.ProfileResponse, error)
	UpdateGoal(ctx context.Context, username string, request *dto.UpdateGoalRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IProfileService {
	return &profileService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	// The continuation token and proposal payload stay server-side.
	return &dto.ProfileResponse{
		Id:            profile.Id,
		Username:      profile.Username,
		Name:          profile.Name,
		Gender:        profile.Gender,
		Age:           profile.Age,
		Weight:        profile.Weight,
		Height:        profile.Height,
		Goal:          profile.Goal,
		HasPendingLog: profile.PendingLog != nil,
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
	}, nil
}

func (s *profileService) UpdateGoal(ctx context.Context, username string, request *dto.UpdateGoalRequest) (*dto.ProfileResponse, error) {
	goal := strings.TrimSpace(request.Goal)
	if goal == "" {
		return nil, errors.Join(ErrInvalidRequest, errors.New("goal is empty"))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := findProfile(ctx, uow, username)
	if err != nil {
		return nil, err
	}
	if err := uow.UserProfileRepository().UpdateGoal(ctx, profile.Id, goal); err != nil {
		return nil, err
	}

	s.logger.Info("PROFILE", "Goal updated", map[string]interface{}{
		"username": username,
	})
	return s.GetProfile(ctx, username)
}
