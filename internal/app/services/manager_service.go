package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/auth"
)

// ManagerService administers manager accounts
type ManagerService interface {
	Create(ctx context.Context, req *dto.CreateManagerRequest) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdatePermission(ctx context.Context, managerID int64, canManageEnrollments bool) (*models.User, error)
	Delete(ctx context.Context, actorID, managerID int64) error
}

type managerService struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewManagerService creates a new ManagerService
func NewManagerService(userRepo *repositories.UserRepository, logger zerolog.Logger) ManagerService {
	return &managerService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create provisions a manager account.
func (s *managerService) Create(ctx context.Context, req *dto.CreateManagerRequest) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	manager := &models.User{
		Email:                req.Email,
		Password:             hashedPassword,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Role:                 models.RoleManager,
		CanManageEnrollments: req.CanManageEnrollments,
		IsActive:             true,
	}

	if err := s.userRepo.Create(ctx, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

// List returns every manager account.
func (s *managerService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListManagers(ctx)
}

// UpdatePermission flips the enrollment-management flag on a manager.
func (s *managerService) UpdatePermission(ctx context.Context, managerID int64, canManageEnrollments bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if !user.IsManager() {
		return nil, apperrors.NewBadRequestError("user is not a manager")
	}

	if err := s.userRepo.UpdateManagerPermission(ctx, managerID, canManageEnrollments); err != nil {
		return nil, err
	}
	user.CanManageEnrollments = canManageEnrollments
	return user, nil
}

// Delete removes a manager account. Managers cannot remove themselves.
func (s *managerService) Delete(ctx context.Context, actorID, managerID int64) error {
	if actorID == managerID {
		return apperrors.NewConflictError("managers cannot delete their own account")
	}

	user, err := s.userRepo.GetByID(ctx, managerID)
	if err != nil {
		return err
	}
	if !user.IsManager() {
		return apperrors.NewBadRequestError("user is not a manager")
	}

	return s.userRepo.Delete(ctx, managerID)
}
