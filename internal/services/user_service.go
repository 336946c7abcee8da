package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

// UserService exposes the user directory.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// DisplayName resolves username, then email, then "Anonymous".
func (s *UserService) DisplayName(id string) (string, error) {
	user, err := s.GetUser(id)
	if errors.Is(err, ErrUserNotFound) {
		return constants.AnonymousCommenterName, nil
	}
	if err != nil {
		return "", err
	}
	if name := user.DisplayName(); name != "" {
		return name, nil
	}
	return constants.AnonymousCommenterName, nil
}
