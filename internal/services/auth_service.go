package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
	"github.com/rotaserra/tour-backend/pkg/jwt"
)

// ErrInvalidCredentials is returned for any login failure so callers cannot
// distinguish a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles operator authentication
type AuthService struct {
	adminRepo  *database.AdminUserRepository
	jwtService *jwt.Service
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo *database.AdminUserRepository, jwtService *jwt.Service, logger *logrus.Logger) *AuthService {
	return &AuthService{adminRepo: adminRepo, jwtService: jwtService, logger: logger}
}

// Login authenticates an operator and returns a token pair
func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.adminRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.logger.WithField("email", user.Email).Info("Operator logged in")

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

// Refresh issues a new access token from a valid refresh token
func (s *AuthService) Refresh(refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.adminRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, errors.New("account is inactive")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

// CreateOperator registers a back-office account with a bcrypt password hash
func (s *AuthService) CreateOperator(email, name, password string, roles []string) (*models.AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AdminUser{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        models.StringArray(roles),
		Active:       true,
	}
	if err := s.adminRepo.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithField("email", email).Info("Operator account created")

	return user, nil
}
