package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/logger"
)

// IFeedbackRepository defines the interface for feedback database operations.
// Owner-scoped lookups fold the owner into the filter predicate, so absent
// and not-owned rows are indistinguishable to callers.
type IFeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Feedback, error)
	ListAll(ctx context.Context) ([]*models.Feedback, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*models.Feedback, error)
	UpdateOwned(ctx context.Context, id, ownerID int64, ratings models.Ratings, suggestions *string) error
	DeleteOwned(ctx context.Context, id, ownerID int64) error
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit uint64) ([]*models.RecentFeedback, error)
}

// FeedbackRepository handles feedback database operations.
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new feedback row and returns its id.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) (int64, error) {
	sql, args, err := r.sb.Insert("feedback").
		Columns("user_id", "course_id", "faculty_id", "q1", "q2", "q3", "suggestions").
		Values(feedback.UserID, feedback.CourseID, feedback.FacultyID,
			feedback.Q1, feedback.Q2, feedback.Q3, feedback.Suggestions).
		Suffix("RETURNING id, submitted_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create feedback query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&feedback.ID, &feedback.SubmittedAt); err != nil {
		logger.Error().Err(err).Int64("userID", feedback.UserID).Msg("Error executing create feedback query")
		return 0, fmt.Errorf("error creating feedback: %w", err)
	}
	return feedback.ID, nil
}

// feedbackSelect joins feedback rows to their course and faculty.
func (r *FeedbackRepository) feedbackSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"fb.id", "fb.user_id", "fb.course_id", "fb.faculty_id",
		"fb.q1", "fb.q2", "fb.q3", "fb.suggestions", "fb.submitted_at", "fb.updated_at",
		"c.code", "c.name",
		"f.full_name", "f.department").
		From("feedback fb").
		Join("courses c ON c.id = fb.course_id").
		Join("faculty f ON f.id = fb.faculty_id")
}

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	feedback := &models.Feedback{
		Course:  &models.Course{},
		Faculty: &models.Faculty{},
	}
	err := row.Scan(
		&feedback.ID, &feedback.UserID, &feedback.CourseID, &feedback.FacultyID,
		&feedback.Q1, &feedback.Q2, &feedback.Q3, &feedback.Suggestions,
		&feedback.SubmittedAt, &feedback.UpdatedAt,
		&feedback.Course.Code, &feedback.Course.Name,
		&feedback.Faculty.FullName, &feedback.Faculty.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("error scanning feedback row: %w", err)
	}
	feedback.Course.ID = feedback.CourseID
	feedback.Faculty.ID = feedback.FacultyID
	return feedback, nil
}

func (r *FeedbackRepository) queryFeedback(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Feedback, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	feedback := []*models.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		feedback = append(feedback, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return feedback, nil
}

// ListByUser returns a user's feedback, most recent first.
func (r *FeedbackRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Feedback, error) {
	return r.queryFeedback(ctx, r.feedbackSelect().
		Where(squirrel.Eq{"fb.user_id": userID}).
		OrderBy("fb.submitted_at DESC"))
}

// ListAll returns every feedback row with the submitting user's identity
// attached, most recent first.
func (r *FeedbackRepository) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	sql, args, err := r.sb.Select(
		"fb.id", "fb.user_id", "fb.course_id", "fb.faculty_id",
		"fb.q1", "fb.q2", "fb.q3", "fb.suggestions", "fb.submitted_at", "fb.updated_at",
		"c.code", "c.name",
		"f.full_name", "f.department",
		"u.full_name", "u.email").
		From("feedback fb").
		Join("courses c ON c.id = fb.course_id").
		Join("faculty f ON f.id = fb.faculty_id").
		Join("users u ON u.id = fb.user_id").
		OrderBy("fb.submitted_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list all feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	feedback := []*models.Feedback{}
	for rows.Next() {
		fb := &models.Feedback{
			Course:  &models.Course{},
			Faculty: &models.Faculty{},
			User:    &models.User{},
		}
		err := rows.Scan(
			&fb.ID, &fb.UserID, &fb.CourseID, &fb.FacultyID,
			&fb.Q1, &fb.Q2, &fb.Q3, &fb.Suggestions, &fb.SubmittedAt, &fb.UpdatedAt,
			&fb.Course.Code, &fb.Course.Name,
			&fb.Faculty.FullName, &fb.Faculty.Department,
			&fb.User.FullName, &fb.User.Email)
		if err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		fb.Course.ID = fb.CourseID
		fb.Faculty.ID = fb.FacultyID
		fb.User.ID = fb.UserID
		feedback = append(feedback, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return feedback, nil
}

// GetOwned retrieves a feedback row only when it belongs to ownerID.
func (r *FeedbackRepository) GetOwned(ctx context.Context, id, ownerID int64) (*models.Feedback, error) {
	sql, args, err := r.feedbackSelect().
		Where(squirrel.Eq{"fb.id": id, "fb.user_id": ownerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get feedback query: %w", err)
	}
	return scanFeedback(r.db.QueryRow(ctx, sql, args...))
}

// UpdateOwned rewrites the ratings and suggestion of an owned feedback row.
func (r *FeedbackRepository) UpdateOwned(ctx context.Context, id, ownerID int64, ratings models.Ratings, suggestions *string) error {
	sql, args, err := r.sb.Update("feedback").
		SetMap(map[string]interface{}{
			"q1":          ratings[0],
			"q2":          ratings[1],
			"q3":          ratings[2],
			"suggestions": suggestions,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update feedback query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("feedbackID", id).Msg("Error executing update feedback query")
		return fmt.Errorf("error updating feedback: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeedbackNotFound
	}
	return nil
}

// DeleteOwned removes an owned feedback row.
func (r *FeedbackRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	sql, args, err := r.sb.Delete("feedback").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete feedback query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("feedbackID", id).Msg("Error executing delete feedback query")
		return fmt.Errorf("error deleting feedback: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeedbackNotFound
	}
	return nil
}

// Count returns the number of feedback rows.
func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting feedback: %w", err)
	}
	return count, nil
}

// Recent returns the latest feedback entries with course and faculty names
// for the admin dashboard.
func (r *FeedbackRepository) Recent(ctx context.Context, limit uint64) ([]*models.RecentFeedback, error) {
	sql, args, err := r.sb.Select("c.name", "f.full_name", "fb.submitted_at").
		From("feedback fb").
		Join("courses c ON c.id = fb.course_id").
		Join("faculty f ON f.id = fb.faculty_id").
		OrderBy("fb.submitted_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying recent feedback: %w", err)
	}
	defer rows.Close()

	recent := []*models.RecentFeedback{}
	for rows.Next() {
		entry := &models.RecentFeedback{}
		if err := rows.Scan(&entry.CourseName, &entry.FacultyName, &entry.SubmittedAt); err != nil {
			return nil, fmt.Errorf("error scanning recent feedback row: %w", err)
		}
		recent = append(recent, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent feedback rows: %w", err)
	}
	return recent, nil
}
