package service

import (
	"context"
	"strings"

	"simmr/internal/models"
	"simmr/internal/repository"
	"simmr/internal/validation"

	"gorm.io/datatypes"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CheckUsername reports whether the username could be registered. It reveals
// availability only; malformed names read as unavailable.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	username = validation.NormalizeUsername(username)
	if validation.Username(username) != nil {
		return false, nil
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns a public profile with post and like aggregates.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetProfile(ctx, username)
}

// SearchUsers finds users by username or display-name substring.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	users, err := s.userRepo.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UpdateAvatar replaces the acting user's avatar URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, avatarURL string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = strings.TrimSpace(avatarURL)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateKitchen replaces the acting user's kitchen inventory.
func (s *UserService) UpdateKitchen(ctx context.Context, userID uint, inventory models.KitchenInventory) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	kitchen := datatypes.NewJSONType(inventory)
	user.KitchenInventory = &kitchen
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
