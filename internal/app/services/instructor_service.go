package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
)

// InstructorService manages catalog instructors
type InstructorService interface {
	Create(ctx context.Context, req *dto.CreateInstructorRequest) (*models.Instructor, error)
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
	GetAll(ctx context.Context) ([]*models.Instructor, error)
	Update(ctx context.Context, id int64, req *dto.CreateInstructorRequest) (*models.Instructor, error)
	Delete(ctx context.Context, id int64) error
}

type instructorService struct {
	instructorRepo *repositories.InstructorRepository
	logger         zerolog.Logger
}

// NewInstructorService creates a new InstructorService
func NewInstructorService(instructorRepo *repositories.InstructorRepository, logger zerolog.Logger) InstructorService {
	return &instructorService{
		instructorRepo: instructorRepo,
		logger:         logger,
	}
}

func (s *instructorService) Create(ctx context.Context, req *dto.CreateInstructorRequest) (*models.Instructor, error) {
	instructor := &models.Instructor{
		Name:            req.Name,
		Bio:             req.Bio,
		ImageURL:        req.ImageURL,
		ExperienceYears: req.ExperienceYears,
		Rating:          req.Rating,
	}

	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		return nil, err
	}
	return instructor, nil
}

func (s *instructorService) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	return s.instructorRepo.GetByID(ctx, id)
}

func (s *instructorService) GetAll(ctx context.Context) ([]*models.Instructor, error) {
	return s.instructorRepo.GetAll(ctx)
}

func (s *instructorService) Update(ctx context.Context, id int64, req *dto.CreateInstructorRequest) (*models.Instructor, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	instructor.Name = req.Name
	instructor.Bio = req.Bio
	instructor.ImageURL = req.ImageURL
	instructor.ExperienceYears = req.ExperienceYears
	instructor.Rating = req.Rating

	if err := s.instructorRepo.Update(ctx, instructor); err != nil {
		return nil, err
	}
	return instructor, nil
}

func (s *instructorService) Delete(ctx context.Context, id int64) error {
	return s.instructorRepo.Delete(ctx, id)
}
