package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired          = errors.New("email is required")
	ErrUsernameTooLong        = errors.New("username too long")
	ErrUsernameTaken          = errors.New("username already exists")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrPasswordTooShort       = errors.New("password too short")
	ErrUserNotFound           = errors.New("user not found")
	ErrFailedToHashPassword   = errors.New("failed to hash password")
	ErrFailedToCreateUser     = errors.New("failed to create user")
	ErrFederatedLoginDisabled = errors.New("federated sign-in is not configured")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	verifier *IdentityTokenVerifier
}

// NewAuthService creates a new AuthService. verifier may be nil when federated sign-in is disabled.
func NewAuthService(userRepo repository.UserRepository, verifier *IdentityTokenVerifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		verifier: verifier,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email    string
	Password string
	Username string
}

// Signup creates a password account. A taken username is rejected before anything is written;
// the unique index on users.username catches registrations racing past that check.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	username := strings.TrimSpace(input.Username)
	if len(username) > constants.MaxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if username != "" {
		if _, err := s.userRepo.FindByUsername(username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Provider:     constants.ProviderPassword,
	}
	if username != "" {
		user.Username = &username
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, s.translateCreateError(user, err)
	}

	return user, nil
}

// translateCreateError works out which unique column a racing insert collided on.
func (s *AuthService) translateCreateError(user *models.User, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}
	if user.Username != nil {
		if _, findErr := s.userRepo.FindByUsername(*user.Username); findErr == nil {
			return ErrUsernameTaken
		}
	}
	return ErrEmailTaken
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// LoginWithIdentityToken exchanges a federated identity token for a local account,
// creating the account on first sign-in.
func (s *AuthService) LoginWithIdentityToken(idToken string) (*models.User, error) {
	if s.verifier == nil {
		return nil, ErrFederatedLoginDisabled
	}

	identity, err := s.verifier.Verify(idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user = &models.User{
		Email:    identity.Email,
		Provider: constants.ProviderGoogle,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another sign-in with the same identity won the race.
			return s.userRepo.FindByEmail(identity.Email)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
