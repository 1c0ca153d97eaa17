package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/auth"
	"github.com/kutluay/electivehub/internal/pkg/logger"
)

// userStore is the slice of UserRepository the auth flow needs.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// tokenStore is the slice of TokenRepository the auth flow needs.
type tokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenValue string) error
	DeleteExpired(ctx context.Context, cutoff time.Time) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   userStore
	tokenRepo  tokenStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo userStore, tokenRepo tokenStore, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
	}
}

// Login authenticates a user and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userId", user.ID).Int64("institutionId", user.InstitutionID).Msg("User logged in")

	return &dto.AuthResponse{
		Token: *tokens,
		User: dto.UserResponse{
			ID:            user.ID,
			InstitutionID: user.InstitutionID,
			Email:         user.Email,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			Role:          string(user.RoleType),
		},
	}, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and
// a fresh pair is issued. A revoked or expired token is rejected.
func (s *authServiceImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error getting refresh token: %w", err)
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if err := s.tokenRepo.Revoke(ctx, req.RefreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	// Opportunistic housekeeping; failure is not fatal to the refresh.
	if err := s.tokenRepo.DeleteExpired(ctx, time.Now()); err != nil {
		logger.Warn().Err(err).Msg("Failed to prune expired refresh tokens")
	}

	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	err = s.tokenRepo.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	})
	if err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
