package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/dberrors"
)

// ReviewRepository handles database operations for course reviews
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		db: db,
	}
}

// Create inserts a new review; at most one per (course, candidate)
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (course_id, candidate_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		review.CourseID, review.CandidateID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_reviews_course_candidate") {
			return apperrors.ErrReviewExists
		}
		return fmt.Errorf("error creating review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	query := `
		SELECT id, course_id, candidate_id, rating, comment, created_at
		FROM reviews
		WHERE id = $1
	`

	var review models.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.CourseID,
		&review.CandidateID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error retrieving review: %w", err)
	}

	return &review, nil
}

// ListByCourse retrieves all reviews for a course, newest first, with the
// reviewer's display name attached
func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Review, error) {
	query := `
		SELECT r.id, r.course_id, r.candidate_id, r.rating, r.comment, r.created_at,
			u.first_name, u.last_name
		FROM reviews r
		JOIN users u ON r.candidate_id = u.id
		WHERE r.course_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var review models.Review
		var candidate models.User
		if err := rows.Scan(
			&review.ID,
			&review.CourseID,
			&review.CandidateID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&candidate.FirstName,
			&candidate.LastName,
		); err != nil {
			return nil, fmt.Errorf("error scanning review: %w", err)
		}
		candidate.ID = review.CandidateID
		review.Candidate = &candidate
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

// Delete removes a review by ID
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}
