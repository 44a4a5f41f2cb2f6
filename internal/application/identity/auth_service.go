package identity

import (
	"context"
	"errors"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles login and logout for the HTTP adapter
type AuthService struct {
	users      *UserService
	jwtService *auth.JWTService
	revoked    *auth.RevocationList
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users *UserService, jwtService *auth.JWTService, revoked *auth.RevocationList, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, jwtService: jwtService, revoked: revoked, logger: logger}
}

// Login authenticates a user and returns a signed token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	scope, err := s.users.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			s.logger.Warn("Login failed", zap.String("username", input.Username), zap.String("ip", input.IP))
		}
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(scope)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("User logged in",
		zap.String("username", scope.Username),
		zap.Int64("user_id", scope.UserID),
		zap.String("role", string(scope.Role)))
	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User: UserInfo{
			ID:         scope.UserID,
			Username:   scope.Username,
			Role:       scope.Role,
			LocationID: scope.LocationID,
		},
	}, nil
}

// Logout revokes the token described by claims until it would have expired
func (s *AuthService) Logout(_ context.Context, claims *auth.Claims) {
	s.revoked.Revoke(claims.ID, claims.ExpiresAtTime())
	s.logger.Info("User logged out", zap.String("username", claims.Username))
}

// Verify validates a bearer token and rejects revoked ones
func (s *AuthService) Verify(token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if s.revoked.IsRevoked(claims.ID) {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}
