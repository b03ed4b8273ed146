package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/pkg/apperrors"
)

// InstructorRepository handles database operations for catalog instructors
type InstructorRepository struct {
	db *pgxpool.Pool
}

// NewInstructorRepository creates a new instructor repository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
	}
}

const instructorColumns = `id, name, bio, image_url, experience_years, rating, created_at`

func scanInstructor(row pgx.Row) (*models.Instructor, error) {
	var instructor models.Instructor
	err := row.Scan(
		&instructor.ID,
		&instructor.Name,
		&instructor.Bio,
		&instructor.ImageURL,
		&instructor.ExperienceYears,
		&instructor.Rating,
		&instructor.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error scanning instructor: %w", err)
	}
	return &instructor, nil
}

// Create inserts a new instructor
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	query := `
		INSERT INTO instructors (name, bio, image_url, experience_years, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		instructor.Name, instructor.Bio, instructor.ImageURL,
		instructor.ExperienceYears, instructor.Rating,
	).Scan(&instructor.ID, &instructor.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating instructor: %w", err)
	}

	return nil
}

// GetByID retrieves an instructor by ID
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors WHERE id = $1`
	return scanInstructor(r.db.QueryRow(ctx, query, id))
}

// GetAll retrieves all instructors
func (r *InstructorRepository) GetAll(ctx context.Context) ([]*models.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*models.Instructor
	for rows.Next() {
		instructor, err := scanInstructor(rows)
		if err != nil {
			return nil, err
		}
		instructors = append(instructors, instructor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instructors, nil
}

// Update replaces the mutable fields of an instructor
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	query := `
		UPDATE instructors
		SET name = $1, bio = $2, image_url = $3, experience_years = $4, rating = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		instructor.Name, instructor.Bio, instructor.ImageURL,
		instructor.ExperienceYears, instructor.Rating, instructor.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating instructor: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}

	return nil
}

// Delete removes an instructor by ID
func (r *InstructorRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM instructors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting instructor: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}
