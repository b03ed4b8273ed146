package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/notify"
)

// ApplicationStore is the persistence surface the application service needs.
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Application, error)
	List(ctx context.Context, filter repositories.ApplicationFilter) ([]*models.Application, int64, error)
	Update(ctx context.Context, a *models.Application) error
	Delete(ctx context.Context, id int64) error
}

// InternshipGetter resolves internships for application checks.
type InternshipGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Internship, error)
}

// ApplicationService manages internship and course applications
type ApplicationService interface {
	Apply(ctx context.Context, candidateID int64, req *dto.CreateApplicationRequest) (*models.Application, error)
	Withdraw(ctx context.Context, candidateID, applicationID int64) error
	ListMine(ctx context.Context, candidateID int64) ([]*models.Application, error)

	List(ctx context.Context, filter repositories.ApplicationFilter) ([]*models.Application, int64, error)
	Get(ctx context.Context, applicationID int64) (*models.Application, error)
	Review(ctx context.Context, managerID, applicationID int64, accept bool, message string) (*models.Application, error)
}

type applicationService struct {
	applications ApplicationStore
	internships  InternshipGetter
	courses      CourseGetter
	users        UserGetter
	notifier     notify.Notifier
	logger       zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applications ApplicationStore,
	internships InternshipGetter,
	courses CourseGetter,
	users UserGetter,
	notifier notify.Notifier,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationService{
		applications: applications,
		internships:  internships,
		courses:      courses,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

// Apply files a new application after checking the target exists and is
// still open.
func (s *applicationService) Apply(ctx context.Context, candidateID int64, req *dto.CreateApplicationRequest) (*models.Application, error) {
	targetType := models.ApplicationTarget(req.TargetType)

	title, err := s.resolveTarget(ctx, targetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	application := &models.Application{
		CandidateID: candidateID,
		TargetType:  targetType,
		TargetID:    req.TargetID,
		Status:      models.ApplicationPending,
		AppliedAt:   time.Now(),
	}
	if req.Message != nil && *req.Message != "" {
		application.Message = req.Message
	}

	if err := s.applications.Create(ctx, application); err != nil {
		return nil, err
	}

	s.publish(ctx, application, title, notify.EventApplicationReceived)
	return application, nil
}

// Withdraw removes the candidate's own pending application.
func (s *applicationService) Withdraw(ctx context.Context, candidateID, applicationID int64) error {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if application.CandidateID != candidateID {
		return apperrors.ErrPermissionDenied
	}
	if !application.CanWithdraw() {
		return apperrors.NewConflictError("only pending applications can be withdrawn")
	}

	return s.applications.Delete(ctx, applicationID)
}

// ListMine lists the candidate's applications.
func (s *applicationService) ListMine(ctx context.Context, candidateID int64) ([]*models.Application, error) {
	return s.applications.ListByCandidate(ctx, candidateID)
}

// List retrieves applications for manager review.
func (s *applicationService) List(ctx context.Context, filter repositories.ApplicationFilter) ([]*models.Application, int64, error) {
	applications, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	for _, a := range applications {
		if candidate, err := s.users.GetByID(ctx, a.CandidateID); err == nil {
			a.Candidate = candidate
		}
	}
	return applications, total, nil
}

// Get retrieves a single application for manager review.
func (s *applicationService) Get(ctx context.Context, applicationID int64) (*models.Application, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if candidate, err := s.users.GetByID(ctx, application.CandidateID); err == nil {
		application.Candidate = candidate
	}
	return application, nil
}

// Review decides a pending application.
func (s *applicationService) Review(ctx context.Context, managerID, applicationID int64, accept bool, message string) (*models.Application, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !application.CanReview() {
		return nil, apperrors.NewConflictError("application has already been reviewed")
	}

	now := time.Now()
	if accept {
		application.Status = models.ApplicationAccepted
	} else {
		application.Status = models.ApplicationRejected
	}
	application.ReviewedAt = &now
	application.ReviewedBy = &managerID
	if message != "" {
		application.Message = &message
	}

	if err := s.applications.Update(ctx, application); err != nil {
		return nil, err
	}

	title, terr := s.resolveTarget(ctx, application.TargetType, application.TargetID)
	if terr != nil {
		title = ""
	}
	s.publish(ctx, application, title, notify.EventApplicationReviewed)
	return application, nil
}

// resolveTarget checks the application target and returns its title.
func (s *applicationService) resolveTarget(ctx context.Context, targetType models.ApplicationTarget, targetID int64) (string, error) {
	switch targetType {
	case models.TargetInternship:
		internship, err := s.internships.GetByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		if !internship.IsActive {
			return "", apperrors.NewConflictError("internship is no longer accepting applications")
		}
		if internship.ApplyDeadline != nil && internship.ApplyDeadline.Before(time.Now()) {
			return "", apperrors.NewConflictError("internship application deadline has passed")
		}
		return internship.Title, nil
	case models.TargetCourse:
		course, err := s.courses.GetByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		if !course.IsActive {
			return "", apperrors.NewConflictError("course is no longer accepting applications")
		}
		return course.Title, nil
	}
	return "", apperrors.NewBadRequestError("unknown application target type")
}

func (s *applicationService) publish(ctx context.Context, a *models.Application, title string, evType notify.EventType) {
	if s.notifier == nil {
		return
	}

	candidate, err := s.users.GetByID(ctx, a.CandidateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Warn().Err(err).Int64("candidateID", a.CandidateID).Msg("Failed to resolve notification recipient")
		}
		return
	}

	s.notifier.Publish(notify.Event{
		Type:          evType,
		ToEmail:       candidate.Email,
		RecipientName: candidate.FullName(),
		TargetTitle:   title,
		Status:        string(a.Status),
	})
}

var _ ApplicationStore = (*repositories.ApplicationRepository)(nil)
