package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/pkg/apperrors"
)

// InternshipRepository handles database operations for internships
type InternshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInternshipRepository creates a new internship repository
func NewInternshipRepository(db *pgxpool.Pool) *InternshipRepository {
	return &InternshipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var internshipColumns = []string{
	"id", "title", "company", "description", "location", "stipend",
	"duration_weeks", "apply_deadline", "is_active", "created_at", "updated_at",
}

func scanInternship(row pgx.Row) (*models.Internship, error) {
	var internship models.Internship
	err := row.Scan(
		&internship.ID,
		&internship.Title,
		&internship.Company,
		&internship.Description,
		&internship.Location,
		&internship.Stipend,
		&internship.DurationWeeks,
		&internship.ApplyDeadline,
		&internship.IsActive,
		&internship.CreatedAt,
		&internship.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInternshipNotFound
		}
		return nil, fmt.Errorf("error scanning internship: %w", err)
	}
	return &internship, nil
}

// Create inserts a new internship
func (r *InternshipRepository) Create(ctx context.Context, internship *models.Internship) error {
	query := `
		INSERT INTO internships (title, company, description, location, stipend, duration_weeks, apply_deadline, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		internship.Title, internship.Company, internship.Description,
		internship.Location, internship.Stipend, internship.DurationWeeks,
		internship.ApplyDeadline, internship.IsActive,
	).Scan(&internship.ID, &internship.CreatedAt, &internship.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating internship: %w", err)
	}

	return nil
}

// GetByID retrieves an internship by ID
func (r *InternshipRepository) GetByID(ctx context.Context, id int64) (*models.Internship, error) {
	query := `SELECT ` + strings.Join(internshipColumns, ", ") + ` FROM internships WHERE id = $1`
	return scanInternship(r.db.QueryRow(ctx, query, id))
}

// List retrieves internships, optionally only active listings
func (r *InternshipRepository) List(ctx context.Context, activeOnly bool) ([]*models.Internship, error) {
	baseSelect := r.sb.Select(internshipColumns...).From("internships").OrderBy("id")
	if activeOnly {
		baseSelect = baseSelect.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list internships query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing internships: %w", err)
	}
	defer rows.Close()

	var internships []*models.Internship
	for rows.Next() {
		internship, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		internships = append(internships, internship)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return internships, nil
}

// Update replaces the mutable fields of an internship
func (r *InternshipRepository) Update(ctx context.Context, internship *models.Internship) error {
	query := `
		UPDATE internships
		SET title = $1, company = $2, description = $3, location = $4,
			stipend = $5, duration_weeks = $6, apply_deadline = $7,
			is_active = $8, updated_at = $9
		WHERE id = $10
	`

	cmdTag, err := r.db.Exec(ctx, query,
		internship.Title, internship.Company, internship.Description,
		internship.Location, internship.Stipend, internship.DurationWeeks,
		internship.ApplyDeadline, internship.IsActive, time.Now(), internship.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating internship: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}

	return nil
}

// Delete removes an internship by ID
func (r *InternshipRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM internships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting internship: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}
	return nil
}
