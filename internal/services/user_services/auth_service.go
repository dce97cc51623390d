// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/user"
	"github.com/HaswanthR-CIT/ECHO/internal/services"
)

const tokenTTL = time.Hour

// AuthService issues and validates the opaque tokens the HTTP surface
// trades in. The socket path never sees tokens; it receives the
// already-authenticated username on login and trusts it.
type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       services.Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger services.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Register creates a new user and returns a signed token.
func (s *AuthService) Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, string, error) {
	if username == "" || password == "" || confirmPassword == "" {
		return nil, "", errors.New("all fields are required")
	}
	if password != confirmPassword {
		return nil, "", errors.New("passwords do not match")
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		s.logger.Warn("registration failed - username already exists", "username", username)
		return nil, "", errors.New("username already exists")
	}

	u := &domain.User{Username: username}
	if err := u.IsValid(); err != nil {
		return nil, "", fmt.Errorf("validation failed: %w", err)
	}
	if err := u.HashPassword(password); err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u, err = s.userRepo.Create(ctx, u)
	if err != nil {
		s.logger.Error("registration persist failed", "username", username, "error", err)
		return nil, "", err
	}

	token, err := s.generateToken(u)
	if err != nil {
		s.logger.Error("JWT token generation failed", "user_id", u.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("registration successful", "username", username, "user_id", u.ID)
	return u, token, nil
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", errors.New("username and password are required")
	}

	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed - user not found", "username", username)
		return nil, "", errors.New("invalid credentials")
	}

	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "username", username, "user_id", u.ID)
		return nil, "", errors.New("invalid credentials")
	}

	token, err := s.generateToken(u)
	if err != nil {
		s.logger.Error("JWT token generation failed", "user_id", u.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "username", username, "user_id", u.ID)
	return u, token, nil
}

// ValidateToken checks the signature and expiry, returning the identity
// embedded in the token.
func (s *AuthService) ValidateToken(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", errors.New("invalid token")
	}
	username, _ := claims["username"].(string)
	return uint(sub), username, nil
}

func (s *AuthService) generateToken(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}
