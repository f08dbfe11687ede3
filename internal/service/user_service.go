package service

import (
	"context"

	"recipe-service/internal/entity"
)

type UserService struct {
	userRepo UserRepository
	notify   notifier
}

// NewUserService creates a new instance of UserService. cache may be nil.
func NewUserService(userRepo UserRepository, publisher EventPublisher, cache EntityCache) *UserService {
	return &UserService{
		userRepo: userRepo,
		notify:   notifier{kind: "user", publisher: publisher, cache: cache},
	}
}

func (s *UserService) CreateUser(ctx context.Context, user entity.User) (entity.User, error) {
	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error while creating the user")
		return nil, err
	}

	s.notify.publish(ctx, "created", entity.Document(created))
	return created, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	var cached entity.User
	if s.notify.lookup(ctx, id, &cached) {
		return cached, nil
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error while retrieving user %s", id)
		return nil, err
	}

	if user != nil {
		s.notify.fill(ctx, id, entity.Document(user))
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, user entity.User) (entity.User, error) {
	updated, err := s.userRepo.UpdateUser(ctx, id, user)
	if err != nil {
		logger.Error().Err(err).Msgf("Error while editing user %s", id)
		return nil, err
	}

	logger.Info().Msgf("User edited %s", id)
	s.notify.store(ctx, id, entity.Document(updated))
	s.notify.publish(ctx, "updated", entity.Document(updated))
	return updated, nil
}
