package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/auth"
	"github.com/yigit/tam/internal/pkg/validation"
)

// UserStore is the user persistence used by AuthService
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	Promote(ctx context.Context, userID int64, role models.RoleType, passwordHash string) error
}

// AuthService handles admin console authentication
type AuthService struct {
	userRepo   UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters long", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain a letter and a digit", apperrors.ErrValidationFailed)
	}

	return nil
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Warn().Str("email", email).Msg("Login attempt for unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not update last login")
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: toAdminUserResponse(user),
	}, nil
}

// GetProfile returns the console user behind a token
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.AdminUserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toAdminUserResponse(user)
	return &resp, nil
}

// EnsureAdmin creates an admin account, or promotes the existing account with
// that email and resets its password. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, displayName string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validation.IsValidEmail(email) {
		return false, apperrors.ErrInvalidEmail
	}
	if err := validatePassword(password); err != nil {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.userRepo.Promote(ctx, existing.ID, models.RoleAdmin, hash); err != nil {
			return false, err
		}
		s.logger.Info().Int64("userID", existing.ID).Str("email", email).Msg("Existing user promoted to admin")
		return false, nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return false, fmt.Errorf("error loading user: %w", err)
	}

	if strings.TrimSpace(displayName) == "" {
		displayName = "TAM Admin"
	}
	user := &models.User{
		Email:       email,
		Password:    hash,
		DisplayName: strings.TrimSpace(displayName),
		RoleType:    models.RoleAdmin,
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", email).Msg("Admin user created")
	return true, nil
}

func toAdminUserResponse(user *models.User) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		RoleType:    string(user.RoleType),
	}
}
