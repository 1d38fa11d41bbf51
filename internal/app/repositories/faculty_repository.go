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

// IFacultyRepository defines the interface for faculty database operations.
type IFacultyRepository interface {
	Create(ctx context.Context, faculty *models.Faculty) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	GetAll(ctx context.Context) ([]*models.Faculty, error)
	Update(ctx context.Context, faculty *models.Faculty) error
	DeleteWithRelations(ctx context.Context, id int64) (coursesDeleted, feedbackDeleted int64, err error)
	Count(ctx context.Context) (int64, error)
}

// FacultyRepository handles faculty database operations.
type FacultyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository creates a new FacultyRepository.
func NewFacultyRepository(db *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const facultyColumns = "id, full_name, email, department, designation, created_at, updated_at"

func scanFaculty(row pgx.Row) (*models.Faculty, error) {
	faculty := &models.Faculty{}
	err := row.Scan(&faculty.ID, &faculty.FullName, &faculty.Email,
		&faculty.Department, &faculty.Designation, &faculty.CreatedAt, &faculty.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, fmt.Errorf("error scanning faculty row: %w", err)
	}
	return faculty, nil
}

// Create inserts a new faculty member.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) (int64, error) {
	sql, args, err := r.sb.Insert("faculty").
		Columns("full_name", "email", "department", "designation").
		Values(faculty.FullName, faculty.Email, faculty.Department, faculty.Designation).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create faculty query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrFacultyEmailExists
		}
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return 0, fmt.Errorf("error creating faculty: %w", err)
	}
	return id, nil
}

// GetByID retrieves a faculty member by ID.
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	sql, args, err := r.sb.Select(facultyColumns).
		From("faculty").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get faculty query: %w", err)
	}
	return scanFaculty(r.db.QueryRow(ctx, sql, args...))
}

// GetAll retrieves all faculty members ordered by name.
func (r *FacultyRepository) GetAll(ctx context.Context) ([]*models.Faculty, error) {
	sql, args, err := r.sb.Select(facultyColumns).
		From("faculty").
		OrderBy("full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all faculty query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying faculty: %w", err)
	}
	defer rows.Close()

	faculty := []*models.Faculty{}
	for rows.Next() {
		f, err := scanFaculty(rows)
		if err != nil {
			return nil, err
		}
		faculty = append(faculty, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}
	return faculty, nil
}

// Update updates an existing faculty member.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	sql, args, err := r.sb.Update("faculty").
		SetMap(map[string]interface{}{
			"full_name":   faculty.FullName,
			"email":       faculty.Email,
			"department":  faculty.Department,
			"designation": faculty.Designation,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": faculty.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update faculty query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrFacultyEmailExists
		}
		logger.Error().Err(err).Int64("facultyID", faculty.ID).Msg("Error executing update faculty query")
		return fmt.Errorf("error updating faculty: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFacultyNotFound
	}
	return nil
}

// DeleteWithRelations removes a faculty member together with all courses
// assigned to them and all feedback referencing those, in one transaction.
// Either every row goes or none do.
func (r *FacultyRepository) DeleteWithRelations(ctx context.Context, id int64) (int64, int64, error) {
	var coursesDeleted, feedbackDeleted int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM faculty WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("error checking faculty existence: %w", err)
		}
		if !exists {
			return apperrors.ErrFacultyNotFound
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM feedback WHERE faculty_id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting faculty feedback: %w", err)
		}
		feedbackDeleted = cmdTag.RowsAffected()

		cmdTag, err = tx.Exec(ctx, `DELETE FROM courses WHERE faculty_id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting faculty courses: %w", err)
		}
		coursesDeleted = cmdTag.RowsAffected()

		if _, err := tx.Exec(ctx, `DELETE FROM faculty WHERE id = $1`, id); err != nil {
			return fmt.Errorf("error deleting faculty: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrFacultyNotFound) {
			return 0, 0, err
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Faculty cascade delete rolled back")
		return 0, 0, fmt.Errorf("%w: %v", apperrors.ErrDeleteFailed, err)
	}

	return coursesDeleted, feedbackDeleted, nil
}

// Count returns the number of faculty members.
func (r *FacultyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM faculty`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting faculty: %w", err)
	}
	return count, nil
}
