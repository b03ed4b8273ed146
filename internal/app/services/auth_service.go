package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/auth"
	"github.com/courseport/courseport/internal/pkg/notify"
)

const resetCodeTTL = 10 * time.Minute

// AuthService handles authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	resetRepo  *repositories.PasswordResetRepository
	jwtService *auth.JWTService
	notifier   notify.Notifier
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	resetRepo *repositories.PasswordResetRepository,
	jwtService *auth.JWTService,
	notifier notify.Notifier,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		resetRepo:  resetRepo,
		jwtService: jwtService,
		notifier:   notifier,
		logger:     logger,
	}
}

// Register creates a new candidate account and signs it in.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleCandidate,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Publish(notify.Event{
			Type:          notify.EventWelcome,
			ToEmail:       user.Email,
			RecipientName: user.FullName(),
		})
	}

	return s.generateTokenResponse(ctx, user)
}

// Login authenticates a user by email and password.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the account exists
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	return s.generateTokenResponse(ctx, user)
}

// RefreshToken rotates a refresh token: the old token is revoked and a
// fresh pair is issued.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, expiryDate, isRevoked, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if expiryDate.Before(time.Now()) {
		_ = s.tokenRepo.RevokeToken(ctx, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}
	if isRevoked {
		return nil, apperrors.ErrTokenRevoked
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to revoke rotated refresh token")
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.RevokeToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// Profile returns the authenticated user's account record.
func (s *authService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ForgotPassword issues a six-digit single-use reset code. The response
// is identical whether or not the email exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("email", email).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("error generating reset code: %w", err)
	}

	if err := s.resetRepo.CreateCode(ctx, user.ID, code, time.Now().Add(resetCodeTTL)); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Publish(notify.Event{
			Type:          notify.EventPasswordResetCode,
			ToEmail:       user.Email,
			RecipientName: user.FullName(),
			ResetCode:     code,
		})
	}
	return nil
}

// ResetPassword checks the OTP and replaces the password. The code must
// be unexpired and unused, and is consumed on success.
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInvalidResetCode
		}
		return err
	}

	expiryDate, used, err := s.resetRepo.GetCodeInfo(ctx, user.ID, req.Code)
	if err != nil {
		return err
	}
	if used {
		return apperrors.ErrResetCodeUsed
	}
	if expiryDate.Before(time.Now()) {
		return apperrors.ErrInvalidResetCode
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	if err := s.resetRepo.MarkCodeAsUsed(ctx, user.ID, req.Code); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to mark reset code as used")
	}

	return nil
}

func (s *authService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error persisting refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}

// generateResetCode returns a uniformly random six-digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
