package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/pkg/apperrors"
)

// ReviewService manages course reviews
type ReviewService interface {
	Create(ctx context.Context, candidateID, courseID int64, req *dto.CreateReviewRequest) (*models.Review, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Review, error)
	Delete(ctx context.Context, actorID, reviewID int64, isManager bool) error
}

type reviewService struct {
	reviewRepo *repositories.ReviewRepository
	courseRepo *repositories.CourseRepository
	logger     zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo *repositories.ReviewRepository,
	courseRepo *repositories.CourseRepository,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// Create adds a review to an existing course. The unique pair index
// rejects a second review from the same candidate.
func (s *reviewService) Create(ctx context.Context, candidateID, courseID int64, req *dto.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	review := &models.Review{
		CourseID:    courseID,
		CandidateID: candidateID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByCourse lists a course's reviews, newest first.
func (s *reviewService) ListByCourse(ctx context.Context, courseID int64) ([]*models.Review, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByCourse(ctx, courseID)
}

// Delete removes a review. Candidates may only delete their own;
// managers may delete any.
func (s *reviewService) Delete(ctx context.Context, actorID, reviewID int64, isManager bool) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isManager && review.CandidateID != actorID {
		return apperrors.ErrPermissionDenied
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
