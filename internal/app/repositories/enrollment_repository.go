package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/dberrors"
)

// Constraint names from migrations/001_init.sql. The unique pair index is
// what resolves the concurrent-create race: the loser's insert surfaces as
// ErrAlreadyRequested instead of a generic failure.
const (
	enrollmentPairConstraint = "uq_enrollments_candidate_course"
	transactionIDConstraint  = "uq_enrollments_transaction_id"
)

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnrollmentFilter narrows manager enrollment listings.
type EnrollmentFilter struct {
	Status      models.EnrollmentStatus
	CourseID    int64
	CandidateID int64
	Page        int
	PageSize    int
}

var enrollmentColumns = []string{
	"id", "candidate_id", "course_id", "status",
	"payment_status", "payment_amount", "payment_method", "transaction_id", "payment_screenshot",
	"message", "applied_at", "responded_at", "responded_by", "paid_at",
	"course_start_date", "pass_url",
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(
		&e.ID,
		&e.CandidateID,
		&e.CourseID,
		&e.Status,
		&e.PaymentStatus,
		&e.PaymentAmount,
		&e.PaymentMethod,
		&e.TransactionID,
		&e.PaymentScreenshot,
		&e.Message,
		&e.AppliedAt,
		&e.RespondedAt,
		&e.RespondedBy,
		&e.PaidAt,
		&e.CourseStartDate,
		&e.PassURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error scanning enrollment: %w", err)
	}
	return &e, nil
}

func mapEnrollmentWriteError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, enrollmentPairConstraint) {
		return apperrors.ErrAlreadyRequested
	}
	if dberrors.IsDuplicateConstraintError(err, transactionIDConstraint) {
		return apperrors.ErrTransactionIDInUse
	}
	return err
}

// Create inserts a new enrollment row
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (
			candidate_id, course_id, status,
			payment_status, payment_amount, payment_method, transaction_id, payment_screenshot,
			applied_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		e.CandidateID, e.CourseID, e.Status,
		e.PaymentStatus, e.PaymentAmount, e.PaymentMethod, e.TransactionID, e.PaymentScreenshot,
		e.AppliedAt,
	).Scan(&e.ID)
	if err != nil {
		if mapped := mapEnrollmentWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}
	return scanEnrollment(r.db.QueryRow(ctx, sql, args...))
}

// GetByCandidateAndCourse retrieves the single enrollment for a
// (candidate, course) pair
func (r *EnrollmentRepository) GetByCandidateAndCourse(ctx context.Context, candidateID, courseID int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"candidate_id": candidateID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}
	return scanEnrollment(r.db.QueryRow(ctx, sql, args...))
}

// ListByCandidate retrieves a candidate's enrollments, newest first
func (r *EnrollmentRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"candidate_id": candidateID}).
		OrderBy("applied_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// List retrieves enrollments matching the filter with a total count
func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]*models.Enrollment, int64, error) {
	baseSelect := r.sb.Select(enrollmentColumns...).From("enrollments")
	countSelect := r.sb.Select("COUNT(*)").From("enrollments")

	whereCondition := squirrel.And{}
	if filter.Status != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"status": filter.Status})
	}
	if filter.CourseID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"course_id": filter.CourseID})
	}
	if filter.CandidateID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"candidate_id": filter.CandidateID})
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
		countSelect = countSelect.Where(whereCondition)
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count enrollments query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting enrollments: %w", err)
	}

	if filter.PageSize > 0 {
		offset := uint64((filter.Page - 1) * filter.PageSize)
		baseSelect = baseSelect.Limit(uint64(filter.PageSize)).Offset(offset)
	}
	baseSelect = baseSelect.OrderBy("applied_at DESC")

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, 0, err
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

// ListAcceptedStartingBetween retrieves accepted enrollments whose course
// start date falls in [from, to). Used by the start-date reminder job.
func (r *EnrollmentRepository) ListAcceptedStartingBetween(ctx context.Context, from, to time.Time) ([]*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"status": models.EnrollmentAccepted}).
		Where(squirrel.GtOrEq{"course_start_date": from}).
		Where(squirrel.Lt{"course_start_date": to}).
		OrderBy("course_start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reminder query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing upcoming enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// Update rewrites every mutable field of an enrollment. Each lifecycle
// transition is a single document-level write.
func (r *EnrollmentRepository) Update(ctx context.Context, e *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET status = $1, payment_status = $2, payment_amount = $3,
			payment_method = $4, transaction_id = $5, payment_screenshot = $6,
			message = $7, applied_at = $8, responded_at = $9, responded_by = $10,
			paid_at = $11, course_start_date = $12, pass_url = $13
		WHERE id = $14
	`

	cmdTag, err := r.db.Exec(ctx, query,
		e.Status, e.PaymentStatus, e.PaymentAmount,
		e.PaymentMethod, e.TransactionID, e.PaymentScreenshot,
		e.Message, e.AppliedAt, e.RespondedAt, e.RespondedBy,
		e.PaidAt, e.CourseStartDate, e.PassURL,
		e.ID,
	)
	if err != nil {
		if mapped := mapEnrollmentWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// Delete removes an enrollment row (candidate cancel, manager unenroll)
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}
