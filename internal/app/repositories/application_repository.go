package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/dberrors"
)

const applicationPairConstraint = "uq_applications_candidate_target"

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ApplicationFilter narrows manager application listings.
type ApplicationFilter struct {
	Status     models.ApplicationStatus
	TargetType models.ApplicationTarget
	TargetID   int64
	Page       int
	PageSize   int
}

var applicationColumns = []string{
	"id", "candidate_id", "target_type", "target_id", "status",
	"message", "applied_at", "reviewed_at", "reviewed_by",
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID,
		&a.CandidateID,
		&a.TargetType,
		&a.TargetID,
		&a.Status,
		&a.Message,
		&a.AppliedAt,
		&a.ReviewedAt,
		&a.ReviewedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error scanning application: %w", err)
	}
	return &a, nil
}

// Create inserts a new application row
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	query := `
		INSERT INTO applications (candidate_id, target_type, target_id, status, message, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		a.CandidateID, a.TargetType, a.TargetID, a.Status, a.Message, a.AppliedAt,
	).Scan(&a.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, applicationPairConstraint) {
			return apperrors.ErrAlreadyApplied
		}
		return fmt.Errorf("error creating application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}
	return scanApplication(r.db.QueryRow(ctx, sql, args...))
}

// ListByCandidate retrieves a candidate's applications, newest first
func (r *ApplicationRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"candidate_id": candidateID}).
		OrderBy("applied_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var applications []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

// List retrieves applications matching the filter with a total count
func (r *ApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, int64, error) {
	baseSelect := r.sb.Select(applicationColumns...).From("applications")
	countSelect := r.sb.Select("COUNT(*)").From("applications")

	whereCondition := squirrel.And{}
	if filter.Status != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"status": filter.Status})
	}
	if filter.TargetType != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"target_type": filter.TargetType})
	}
	if filter.TargetID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"target_id": filter.TargetID})
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
		countSelect = countSelect.Where(whereCondition)
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count applications query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}

	if filter.PageSize > 0 {
		offset := uint64((filter.Page - 1) * filter.PageSize)
		baseSelect = baseSelect.Limit(uint64(filter.PageSize)).Offset(offset)
	}
	baseSelect = baseSelect.OrderBy("applied_at DESC")

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var applications []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		applications = append(applications, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// Update rewrites the review fields of an application
func (r *ApplicationRepository) Update(ctx context.Context, a *models.Application) error {
	query := `
		UPDATE applications
		SET status = $1, message = $2, reviewed_at = $3, reviewed_by = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query, a.Status, a.Message, a.ReviewedAt, a.ReviewedBy, a.ID)
	if err != nil {
		return fmt.Errorf("error updating application: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// Delete removes an application row (candidate withdraw)
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
