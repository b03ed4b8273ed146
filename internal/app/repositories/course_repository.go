package repositories

import (
	"context"
	"encoding/json"
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

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	Title      string
	ActiveOnly bool
	Page       int
	PageSize   int
}

var courseColumns = []string{
	"id", "title", "description", "price", "capacity", "start_date",
	"image_url", "is_active", "instructor_id", "instructor_details",
	"created_at", "updated_at",
}

// instructorRefToColumns splits the tagged union into the two nullable
// columns used by the courses table. A CHECK constraint keeps them
// mutually exclusive at the storage layer as well.
func instructorRefToColumns(ref models.InstructorRef) (*int64, []byte, error) {
	switch ref.Kind {
	case models.InstructorRefNone:
		return nil, nil, nil
	case models.InstructorRefReferenced:
		return ref.InstructorID, nil, nil
	case models.InstructorRefInline:
		raw, err := json.Marshal(ref.Inline)
		if err != nil {
			return nil, nil, fmt.Errorf("error encoding inline instructor: %w", err)
		}
		return nil, raw, nil
	}
	return nil, nil, fmt.Errorf("unknown instructor ref kind %q", ref.Kind)
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var instructorID *int64
	var detailsRaw []byte

	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Price,
		&course.Capacity,
		&course.StartDate,
		&course.ImageURL,
		&course.IsActive,
		&instructorID,
		&detailsRaw,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error scanning course: %w", err)
	}

	switch {
	case instructorID != nil:
		course.Instructor = models.NewReferencedInstructor(*instructorID)
	case len(detailsRaw) > 0:
		var details models.InstructorDetails
		if err := json.Unmarshal(detailsRaw, &details); err != nil {
			return nil, fmt.Errorf("error decoding inline instructor: %w", err)
		}
		course.Instructor = models.NewInlineInstructor(details)
	}

	return &course, nil
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	instructorID, detailsRaw, err := instructorRefToColumns(course.Instructor)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO courses (title, description, price, capacity, start_date, image_url, is_active, instructor_id, instructor_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		course.Title, course.Description, course.Price, course.Capacity,
		course.StartDate, course.ImageURL, course.IsActive,
		instructorID, detailsRaw,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT ` + strings.Join(courseColumns, ", ") + ` FROM courses WHERE id = $1`
	return scanCourse(r.db.QueryRow(ctx, query, id))
}

// List retrieves courses matching the filter, with a total count
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, int64, error) {
	baseSelect := r.sb.Select(courseColumns...).From("courses")
	countSelect := r.sb.Select("COUNT(*)").From("courses")

	whereCondition := squirrel.And{}
	if filter.ActiveOnly {
		whereCondition = append(whereCondition, squirrel.Eq{"is_active": true})
	}
	if filter.Title != "" {
		whereCondition = append(whereCondition, squirrel.ILike{"title": "%" + strings.TrimSpace(filter.Title) + "%"})
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
		countSelect = countSelect.Where(whereCondition)
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	if filter.PageSize > 0 {
		offset := uint64((filter.Page - 1) * filter.PageSize)
		baseSelect = baseSelect.Limit(uint64(filter.PageSize)).Offset(offset)
	}
	baseSelect = baseSelect.OrderBy("id")

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// Update replaces the mutable fields of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	instructorID, detailsRaw, err := instructorRefToColumns(course.Instructor)
	if err != nil {
		return err
	}

	query := `
		UPDATE courses
		SET title = $1, description = $2, price = $3, capacity = $4,
			start_date = $5, image_url = $6, is_active = $7,
			instructor_id = $8, instructor_details = $9, updated_at = $10
		WHERE id = $11
	`

	cmdTag, err := r.db.Exec(ctx, query,
		course.Title, course.Description, course.Price, course.Capacity,
		course.StartDate, course.ImageURL, course.IsActive,
		instructorID, detailsRaw, time.Now(), course.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course by ID
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
