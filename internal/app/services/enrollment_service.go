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
	"github.com/courseport/courseport/internal/pkg/metrics"
	"github.com/courseport/courseport/internal/pkg/notify"
)

// EnrollmentStore is the persistence surface the enrollment service needs.
type EnrollmentStore interface {
	Create(ctx context.Context, e *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetByCandidateAndCourse(ctx context.Context, candidateID, courseID int64) (*models.Enrollment, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Enrollment, error)
	List(ctx context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, int64, error)
	Update(ctx context.Context, e *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

// CourseGetter resolves courses for enrollment checks.
type CourseGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// UserGetter resolves users for notification addressing.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// PassGenerator renders the QR pass handed out on acceptance.
type PassGenerator interface {
	Generate(ctx context.Context, enrollmentID, candidateID, courseID int64) (string, error)
}

// EnrollmentService manages the enrollment lifecycle
type EnrollmentService interface {
	Enroll(ctx context.Context, candidateID int64, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error)
	SubmitPayment(ctx context.Context, candidateID, enrollmentID int64, req *dto.SubmitPaymentRequest) (*models.Enrollment, error)
	Cancel(ctx context.Context, candidateID, enrollmentID int64) error
	ListMine(ctx context.Context, candidateID int64) ([]*models.Enrollment, error)
	StatusForCourse(ctx context.Context, candidateID, courseID int64) (*dto.EnrollmentStatusResponse, error)

	List(ctx context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, int64, error)
	Get(ctx context.Context, enrollmentID int64) (*models.Enrollment, error)
	Approve(ctx context.Context, managerID, enrollmentID int64) (*models.Enrollment, error)
	Accept(ctx context.Context, managerID, enrollmentID int64) (*models.Enrollment, error)
	Reject(ctx context.Context, managerID, enrollmentID int64, message string) (*models.Enrollment, error)
	Unenroll(ctx context.Context, managerID, enrollmentID int64) error
}

type enrollmentService struct {
	enrollments EnrollmentStore
	courses     CourseGetter
	users       UserGetter
	passes      PassGenerator
	notifier    notify.Notifier
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollments EnrollmentStore,
	courses CourseGetter,
	users UserGetter,
	passes PassGenerator,
	notifier notify.Notifier,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		passes:      passes,
		notifier:    notifier,
		logger:      logger,
	}
}

// Enroll creates a new enrollment request, or revives a rejected one in
// place. A payment proof attached up front marks the payment completed
// immediately.
func (s *enrollmentService) Enroll(ctx context.Context, candidateID int64, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, apperrors.NewConflictError("course is not open for enrollment")
	}

	existing, err := s.enrollments.GetByCandidateAndCourse(ctx, candidateID, req.CourseID)
	if err != nil && !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.Status != models.EnrollmentRejected {
			return nil, apperrors.ErrAlreadyRequested
		}

		// Revive the rejected row so the unique (candidate, course)
		// slot is reused instead of inserting a second one.
		existing.ResetForResubmission()
		existing.PaymentAmount = course.Price
		applyEnrollmentPayment(existing, req.PaymentMethod, req.TransactionID, req.PaymentScreenshot)

		if err := s.enrollments.Update(ctx, existing); err != nil {
			return nil, err
		}

		metrics.EnrollmentTransitions.WithLabelValues(string(models.EnrollmentPending)).Inc()
		s.publish(ctx, existing, course, notify.EventEnrollmentReceived, "")
		return existing, nil
	}

	enrollment := &models.Enrollment{
		CandidateID:   candidateID,
		CourseID:      req.CourseID,
		Status:        models.EnrollmentPending,
		PaymentStatus: models.PaymentPending,
		PaymentAmount: course.Price,
		AppliedAt:     time.Now(),
	}
	applyEnrollmentPayment(enrollment, req.PaymentMethod, req.TransactionID, req.PaymentScreenshot)

	// A concurrent duplicate insert loses on the unique index and
	// surfaces as ErrAlreadyRequested.
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	metrics.EnrollmentTransitions.WithLabelValues(string(models.EnrollmentPending)).Inc()
	s.publish(ctx, enrollment, course, notify.EventEnrollmentReceived, "")
	return enrollment, nil
}

// applyEnrollmentPayment copies optional payment details onto the
// enrollment. A non-empty screenshot completes the payment.
func applyEnrollmentPayment(e *models.Enrollment, method, transactionID, screenshot *string) {
	if method != nil && *method != "" {
		e.PaymentMethod = method
	}
	if transactionID != nil && *transactionID != "" {
		e.TransactionID = transactionID
	}
	if screenshot != nil && *screenshot != "" {
		e.PaymentScreenshot = screenshot
		e.PaymentStatus = models.PaymentCompleted
		now := time.Now()
		e.PaidAt = &now
	}
}

// SubmitPayment attaches payment proof to the candidate's own
// enrollment. Allowed while the request is pending or awaiting payment.
// Paying an approved request completes the enrollment in one step.
func (s *enrollmentService) SubmitPayment(ctx context.Context, candidateID, enrollmentID int64, req *dto.SubmitPaymentRequest) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.CandidateID != candidateID {
		return nil, apperrors.ErrPermissionDenied
	}
	if enrollment.Status != models.EnrollmentPending && enrollment.Status != models.EnrollmentPaymentPending {
		return nil, apperrors.ErrInvalidTransition
	}

	enrollment.PaymentMethod = &req.PaymentMethod
	enrollment.TransactionID = &req.TransactionID
	enrollment.PaymentScreenshot = &req.PaymentScreenshot
	enrollment.PaymentStatus = models.PaymentCompleted
	now := time.Now()
	enrollment.PaidAt = &now

	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	completed := enrollment.Status == models.EnrollmentPaymentPending
	if completed {
		s.stampAcceptance(ctx, enrollment, course)
	}

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	s.publish(ctx, enrollment, course, notify.EventPaymentReceived, "")
	if completed {
		metrics.EnrollmentTransitions.WithLabelValues(string(models.EnrollmentAccepted)).Inc()
		s.publish(ctx, enrollment, course, notify.EventEnrollmentAccepted, "")
	}
	return enrollment, nil
}

// Cancel withdraws the candidate's own pending request.
func (s *enrollmentService) Cancel(ctx context.Context, candidateID, enrollmentID int64) error {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment.CandidateID != candidateID {
		return apperrors.ErrPermissionDenied
	}
	if !enrollment.CanCancel() {
		return apperrors.ErrInvalidTransition
	}

	return s.enrollments.Delete(ctx, enrollmentID)
}

// ListMine lists the candidate's enrollments with course details attached.
func (s *enrollmentService) ListMine(ctx context.Context, candidateID int64) ([]*models.Enrollment, error) {
	enrollments, err := s.enrollments.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	for _, e := range enrollments {
		course, err := s.courses.GetByID(ctx, e.CourseID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("courseID", e.CourseID).Msg("Failed to attach course to enrollment")
			continue
		}
		e.Course = course
	}
	return enrollments, nil
}

// StatusForCourse answers the per-course status check without erroring
// on absence.
func (s *enrollmentService) StatusForCourse(ctx context.Context, candidateID, courseID int64) (*dto.EnrollmentStatusResponse, error) {
	enrollment, err := s.enrollments.GetByCandidateAndCourse(ctx, candidateID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
			return &dto.EnrollmentStatusResponse{Enrolled: false}, nil
		}
		return nil, err
	}

	return &dto.EnrollmentStatusResponse{
		Enrolled: true,
		Status:   string(enrollment.Status),
	}, nil
}

// List retrieves enrollments for manager review.
func (s *enrollmentService) List(ctx context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, int64, error) {
	enrollments, total, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	for _, e := range enrollments {
		if candidate, err := s.users.GetByID(ctx, e.CandidateID); err == nil {
			e.Candidate = candidate
		}
	}
	return enrollments, total, nil
}

// Get retrieves a single enrollment for manager review.
func (s *enrollmentService) Get(ctx context.Context, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if candidate, err := s.users.GetByID(ctx, enrollment.CandidateID); err == nil {
		enrollment.Candidate = candidate
	}
	if course, err := s.courses.GetByID(ctx, enrollment.CourseID); err == nil {
		enrollment.Course = course
	}
	return enrollment, nil
}

// Approve moves a pending request to payment_pending, asking the
// candidate to pay.
func (s *enrollmentService) Approve(ctx context.Context, managerID, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(enrollment.Status, models.EnrollmentPaymentPending) {
		return nil, apperrors.ErrInvalidTransition
	}

	s.respond(enrollment, managerID, models.EnrollmentPaymentPending)
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	metrics.EnrollmentTransitions.WithLabelValues(string(models.EnrollmentPaymentPending)).Inc()
	course, _ := s.courses.GetByID(ctx, enrollment.CourseID)
	s.publish(ctx, enrollment, course, notify.EventPaymentRequested, "")
	return enrollment, nil
}

// Accept finalizes an enrollment. The payment guard requires a
// screenshot on file and a completed payment; without proof the call
// fails and the record is left untouched.
func (s *enrollmentService) Accept(ctx context.Context, managerID, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(enrollment.Status, models.EnrollmentAccepted) {
		return nil, apperrors.ErrInvalidTransition
	}
	if enrollment.PaymentScreenshot == nil || *enrollment.PaymentScreenshot == "" {
		return nil, apperrors.ErrPaymentProofRequired
	}
	if !enrollment.AcceptGuard() {
		return nil, apperrors.ErrPaymentIncomplete
	}

	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	s.respond(enrollment, managerID, models.EnrollmentAccepted)
	s.stampAcceptance(ctx, enrollment, course)

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	metrics.EnrollmentTransitions.WithLabelValues(string(models.EnrollmentAccepted)).Inc()
	s.publish(ctx, enrollment, course, notify.EventEnrollmentAccepted, "")
	return enrollment, nil
}

// Reject declines a pending request with an optional note.
func (s *enrollmentService) Reject(ctx context.Context, managerID, enrollmentID int64, message string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(enrollment.Status, models.EnrollmentRejected) {
		return nil, apperrors.ErrInvalidTransition
	}

	s.respond(enrollment, managerID, models.EnrollmentRejected)
	if message != "" {
		enrollment.Message = &message
	}

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	metrics.EnrollmentTransitions.WithLabelValues(string(models.EnrollmentRejected)).Inc()
	course, _ := s.courses.GetByID(ctx, enrollment.CourseID)
	s.publish(ctx, enrollment, course, notify.EventEnrollmentRejected, message)
	return enrollment, nil
}

// Unenroll removes an accepted enrollment entirely.
func (s *enrollmentService) Unenroll(ctx context.Context, managerID, enrollmentID int64) error {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if !enrollment.CanUnenroll() {
		return apperrors.ErrInvalidTransition
	}

	if err := s.enrollments.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("enrollmentID", enrollmentID).
		Int64("managerID", managerID).
		Msg("Enrollment removed by manager")

	course, _ := s.courses.GetByID(ctx, enrollment.CourseID)
	s.publish(ctx, enrollment, course, notify.EventUnenrolled, "")
	return nil
}

// stampAcceptance finalizes an accepted enrollment: status, course
// start date and the entry pass. Courses without a published start date
// begin at acceptance time, so an accepted enrollment always carries a
// start date.
func (s *enrollmentService) stampAcceptance(ctx context.Context, e *models.Enrollment, course *models.Course) {
	e.Status = models.EnrollmentAccepted
	if course != nil && course.StartDate != nil {
		e.CourseStartDate = course.StartDate
	} else {
		now := time.Now()
		e.CourseStartDate = &now
	}

	// The pass is a nicety; acceptance must not fail on pass trouble.
	if s.passes != nil {
		passURL, err := s.passes.Generate(ctx, e.ID, e.CandidateID, e.CourseID)
		if err != nil {
			s.logger.Error().Err(err).Int64("enrollmentID", e.ID).Msg("Failed to generate enrollment pass")
		} else {
			e.PassURL = &passURL
		}
	}
}

func (s *enrollmentService) respond(e *models.Enrollment, managerID int64, status models.EnrollmentStatus) {
	now := time.Now()
	e.Status = status
	e.RespondedAt = &now
	e.RespondedBy = &managerID
}

// publish addresses and enqueues a notification event. Failures to
// resolve the recipient are logged and swallowed; notifications never
// fail the triggering write.
func (s *enrollmentService) publish(ctx context.Context, e *models.Enrollment, course *models.Course, evType notify.EventType, message string) {
	if s.notifier == nil {
		return
	}

	candidate, err := s.users.GetByID(ctx, e.CandidateID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("candidateID", e.CandidateID).Msg("Failed to resolve notification recipient")
		return
	}

	ev := notify.Event{
		Type:          evType,
		ToEmail:       candidate.Email,
		RecipientName: candidate.FullName(),
		Status:        string(e.Status),
		Message:       message,
	}
	if course != nil {
		ev.CourseTitle = course.Title
	}
	if e.PassURL != nil {
		ev.PassURL = *e.PassURL
	}
	if e.CourseStartDate != nil {
		ev.StartDate = e.CourseStartDate.Format("Jan 2, 2006")
	}

	metrics.NotificationsSent.WithLabelValues(string(evType)).Inc()
	s.notifier.Publish(ev)
}

// ensure the concrete repository satisfies the narrow store interface
var _ EnrollmentStore = (*repositories.EnrollmentRepository)(nil)
