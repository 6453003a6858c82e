package service

import (
	"context"

	"blogify/internal/cache"
	"blogify/internal/models"
	"blogify/internal/repository"
)

type UserService struct {
	users repository.UserRepository
	cache *cache.Cache
}

func NewUserService(users repository.UserRepository, c *cache.Cache) *UserService {
	return &UserService{users: users, cache: c}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Profile returns the user's aggregate counters, cached for a short while.
func (s *UserService) Profile(ctx context.Context, id uint) (*models.Profile, error) {
	var profile *models.Profile
	err := s.cache.Aside(ctx, cache.ProfileKey(id), &profile, cache.ProfileTTL, func() error {
		var err error
		profile, err = s.users.Profile(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
