package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
)

// InternshipService manages internship listings
type InternshipService interface {
	Create(ctx context.Context, req *dto.CreateInternshipRequest) (*models.Internship, error)
	GetByID(ctx context.Context, id int64) (*models.Internship, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Internship, error)
	Update(ctx context.Context, id int64, req *dto.CreateInternshipRequest) (*models.Internship, error)
	Delete(ctx context.Context, id int64) error
}

type internshipService struct {
	internshipRepo *repositories.InternshipRepository
	logger         zerolog.Logger
}

// NewInternshipService creates a new InternshipService
func NewInternshipService(internshipRepo *repositories.InternshipRepository, logger zerolog.Logger) InternshipService {
	return &internshipService{
		internshipRepo: internshipRepo,
		logger:         logger,
	}
}

// Create adds an internship listing.
func (s *internshipService) Create(ctx context.Context, req *dto.CreateInternshipRequest) (*models.Internship, error) {
	internship := &models.Internship{
		Title:         req.Title,
		Company:       req.Company,
		Description:   req.Description,
		Location:      req.Location,
		Stipend:       req.Stipend,
		DurationWeeks: req.DurationWeeks,
		ApplyDeadline: req.ApplyDeadline,
		IsActive:      true,
	}

	if err := s.internshipRepo.Create(ctx, internship); err != nil {
		return nil, err
	}
	return internship, nil
}

// GetByID retrieves an internship listing.
func (s *internshipService) GetByID(ctx context.Context, id int64) (*models.Internship, error) {
	return s.internshipRepo.GetByID(ctx, id)
}

// List retrieves internship listings.
func (s *internshipService) List(ctx context.Context, activeOnly bool) ([]*models.Internship, error) {
	return s.internshipRepo.List(ctx, activeOnly)
}

// Update replaces the mutable fields of an internship.
func (s *internshipService) Update(ctx context.Context, id int64, req *dto.CreateInternshipRequest) (*models.Internship, error) {
	internship, err := s.internshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	internship.Title = req.Title
	internship.Company = req.Company
	internship.Description = req.Description
	internship.Location = req.Location
	internship.Stipend = req.Stipend
	internship.DurationWeeks = req.DurationWeeks
	internship.ApplyDeadline = req.ApplyDeadline
	internship.UpdatedAt = time.Now()

	if err := s.internshipRepo.Update(ctx, internship); err != nil {
		return nil, err
	}
	return internship, nil
}

// Delete removes an internship listing.
func (s *internshipService) Delete(ctx context.Context, id int64) error {
	return s.internshipRepo.Delete(ctx, id)
}
