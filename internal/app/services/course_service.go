package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/pkg/apperrors"
)

// CourseService manages the course catalog
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	courseRepo     *repositories.CourseRepository
	instructorRepo *repositories.InstructorRepository
	logger         zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	instructorRepo *repositories.InstructorRepository,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courseRepo:     courseRepo,
		instructorRepo: instructorRepo,
		logger:         logger,
	}
}

// Create adds a course to the catalog. A referenced instructor must
// exist; an inline instructor is validated structurally only.
func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	instructor, err := s.resolveInstructorRef(ctx, req.Instructor)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		StartDate:   req.StartDate,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		Instructor:  instructor,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetByID retrieves a course, resolving a referenced instructor into
// its catalog entity.
func (s *courseService) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachInstructor(ctx, course)
	return course, nil
}

// List retrieves courses matching the filter.
func (s *courseService) List(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error) {
	courses, total, err := s.courseRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for _, course := range courses {
		s.attachInstructor(ctx, course)
	}
	return courses, total, nil
}

// Update replaces the mutable fields of a course.
func (s *courseService) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	instructor, err := s.resolveInstructorRef(ctx, req.Instructor)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Price = req.Price
	course.Capacity = req.Capacity
	course.StartDate = req.StartDate
	course.ImageURL = req.ImageURL
	course.Instructor = instructor
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	course.UpdatedAt = time.Now()

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course from the catalog.
func (s *courseService) Delete(ctx context.Context, id int64) error {
	return s.courseRepo.Delete(ctx, id)
}

func (s *courseService) resolveInstructorRef(ctx context.Context, ref *models.InstructorRef) (models.InstructorRef, error) {
	if ref == nil {
		return models.InstructorRef{}, nil
	}
	if err := ref.Validate(); err != nil {
		return models.InstructorRef{}, apperrors.NewBadRequestError(err.Error())
	}
	if ref.Kind == models.InstructorRefReferenced {
		if _, err := s.instructorRepo.GetByID(ctx, *ref.InstructorID); err != nil {
			return models.InstructorRef{}, err
		}
	}
	return *ref, nil
}

func (s *courseService) attachInstructor(ctx context.Context, course *models.Course) {
	if course.Instructor.Kind != models.InstructorRefReferenced {
		return
	}
	entity, err := s.instructorRepo.GetByID(ctx, *course.Instructor.InstructorID)
	if err != nil {
		s.logger.Warn().Err(err).
			Int64("courseID", course.ID).
			Int64("instructorID", *course.Instructor.InstructorID).
			Msg("Failed to resolve course instructor")
		return
	}
	course.InstructorEntity = entity
}
