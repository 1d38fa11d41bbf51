package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/db"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/dberrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/logger"
)

// ICourseRepository defines the interface for course database operations.
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetWithFaculty(ctx context.Context, id int64) (*models.Course, error)
	GetAllWithFaculty(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	DeleteWithRelations(ctx context.Context, id int64) (feedbackDeleted int64, err error)
	Count(ctx context.Context) (int64, error)
}

// CourseRepository handles course database operations.
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("code", "name", "description", "semester", "faculty_id").
		Values(course.Code, course.Name, course.Description, course.Semester, course.FacultyID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrCourseCodeExists
		}
		logger.Error().Err(err).Str("code", course.Code).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}
	return id, nil
}

// GetByID retrieves a course without its faculty relation.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name", "description", "semester", "faculty_id", "created_at", "updated_at").
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course := &models.Course{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&course.ID, &course.Code, &course.Name, &course.Description,
		&course.Semester, &course.FacultyID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error scanning course row: %w", err)
	}
	return course, nil
}

// courseWithFacultySelect joins courses to their assigned faculty. The inner
// join drops courses whose faculty row is gone, which callers treat the same
// as a missing course.
func (r *CourseRepository) courseWithFacultySelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.code", "c.name", "c.description", "c.semester", "c.faculty_id", "c.created_at", "c.updated_at",
		"f.id", "f.full_name", "f.email", "f.department", "f.designation", "f.created_at", "f.updated_at").
		From("courses c").
		Join("faculty f ON f.id = c.faculty_id")
}

func scanCourseWithFaculty(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	faculty := &models.Faculty{}
	err := row.Scan(
		&course.ID, &course.Code, &course.Name, &course.Description,
		&course.Semester, &course.FacultyID, &course.CreatedAt, &course.UpdatedAt,
		&faculty.ID, &faculty.FullName, &faculty.Email, &faculty.Department,
		&faculty.Designation, &faculty.CreatedAt, &faculty.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error scanning course row: %w", err)
	}
	course.Faculty = faculty
	return course, nil
}

// GetWithFaculty retrieves a course together with its assigned faculty.
// A course with no resolvable faculty is reported as not found.
func (r *CourseRepository) GetWithFaculty(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.courseWithFacultySelect().
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course with faculty query: %w", err)
	}
	return scanCourseWithFaculty(r.db.QueryRow(ctx, sql, args...))
}

// GetAllWithFaculty retrieves all courses with their faculty, ordered by
// course name. An empty slice is a valid result.
func (r *CourseRepository) GetAllWithFaculty(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.courseWithFacultySelect().
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourseWithFaculty(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// Update updates an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"code":        course.Code,
			"name":        course.Name,
			"description": course.Description,
			"semester":    course.Semester,
			"faculty_id":  course.FacultyID,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCourseCodeExists
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DeleteWithRelations removes a course and all feedback referencing it in
// one transaction.
func (r *CourseRepository) DeleteWithRelations(ctx context.Context, id int64) (int64, error) {
	var feedbackDeleted int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("error checking course existence: %w", err)
		}
		if !exists {
			return apperrors.ErrCourseNotFound
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM feedback WHERE course_id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting course feedback: %w", err)
		}
		feedbackDeleted = cmdTag.RowsAffected()

		if _, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
			return fmt.Errorf("error deleting course: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return 0, err
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Course cascade delete rolled back")
		return 0, fmt.Errorf("%w: %v", apperrors.ErrDeleteFailed, err)
	}

	return feedbackDeleted, nil
}

// Count returns the number of courses.
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}
