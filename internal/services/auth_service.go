package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/event-management-api/internal/auth"
	"github.com/yukikurage/event-management-api/internal/constants"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name               string
	Email              string
	Password           string
	RegistrationNumber *string
	Role               models.Role
}

// Register creates a new user. Role defaults to participante; admin cannot be self-assigned.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleParticipant
	}
	if !role.Valid() || role == models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	if err := ensureEmailFree(ctx, s.userRepo, email, 0); err != nil {
		return nil, err
	}

	number := normalizeRegistrationNumber(input.RegistrationNumber)
	if number != nil {
		if err := ensureRegistrationNumberFree(ctx, s.userRepo, *number, 0); err != nil {
			return nil, err
		}
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:               name,
		Email:              email,
		PasswordHash:       hash,
		RegistrationNumber: number,
		Role:               role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUserError(ctx, s.userRepo, user)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a signed token with the user it belongs to.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// Authenticate validates a bearer token and loads its user.
// Bad tokens are Forbidden; valid tokens for deleted users are Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenUserMissing
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ensureEmailFree fails with ErrEmailTaken when email belongs to a user other than exceptID.
func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string, exceptID uint64) error {
	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != exceptID {
			return ErrEmailTaken
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}

func ensureRegistrationNumberFree(ctx context.Context, users repository.UserRepository, number string, exceptID uint64) error {
	existing, err := users.FindByRegistrationNumber(ctx, number)
	switch {
	case err == nil:
		if existing.ID != exceptID {
			return ErrRegistrationNumberTaken
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check registration number: %w", err)
	}
}

// duplicateUserError names the unique key a write collided with after the
// pre-checks passed, which happens when a concurrent request wins the race.
func duplicateUserError(ctx context.Context, users repository.UserRepository, user *models.User) error {
	if err := ensureEmailFree(ctx, users, user.Email, user.ID); err != nil {
		return err
	}
	if user.RegistrationNumber != nil {
		if err := ensureRegistrationNumberFree(ctx, users, *user.RegistrationNumber, user.ID); err != nil {
			return err
		}
	}
	return ErrEmailTaken
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeRegistrationNumber trims the value and treats blank as absent.
func normalizeRegistrationNumber(number *string) *string {
	if number == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*number)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
