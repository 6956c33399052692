package app

import (
	"context"

	"heart-dimensions/internal/domain/entity"
	"heart-dimensions/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginMeasure(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingXray)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// SetResolution сохраняет PPI снимков пользователя.
func (s *UserService) SetResolution(ctx context.Context, userID, chatID int64, ppi float64) (*entity.User, error) {
	if err := entity.ValidateResolution(ppi); err != nil {
		return nil, err
	}

	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.ResolutionPPI = ppi
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
