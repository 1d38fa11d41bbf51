package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/dberrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/logger"
)

// IUserRepository defines the interface for user and student profile
// database operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	SetOTP(ctx context.Context, userID int64, otp string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userID int64) error
	CreateStudentProfile(ctx context.Context, student *models.Student) error
	StudentProfileExists(ctx context.Context, userID int64) (bool, error)
}

// UserRepository handles user database operations.
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = "id, full_name, email, password, role, otp, otp_expires_at, is_verified, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.FullName, &user.Email, &user.Password, &user.Role,
		&user.OTP, &user.OTPExpiresAt, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user row: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user row and returns its id.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("full_name", "email", "password", "role", "otp", "otp_expires_at", "is_verified").
		Values(user.FullName, user.Email, user.Password, user.Role, user.OTP, user.OTPExpiresAt, user.IsVerified).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetUserByID retrieves a user by ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// EmailExists checks if an email is already registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// UserExists checks if a user row still exists. Session resolution uses
// this to discard sessions referencing deleted users.
func (r *UserRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return exists, nil
}

// SetOTP stores a fresh OTP and its expiry on an unverified user.
func (r *UserRepository) SetOTP(ctx context.Context, userID int64, otp string, expiresAt time.Time) error {
	sql, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"otp":            otp,
			"otp_expires_at": expiresAt,
			"updated_at":     time.Now(),
		}).
		Where(squirrel.Eq{"id": userID, "is_verified": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set OTP query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing set OTP query")
		return fmt.Errorf("error setting OTP: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// MarkVerified flips is_verified and clears the OTP and its expiry.
func (r *UserRepository) MarkVerified(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"is_verified":    true,
			"otp":            nil,
			"otp_expires_at": nil,
			"updated_at":     time.Now(),
		}).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark verified query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing mark verified query")
		return fmt.Errorf("error marking user verified: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CreateStudentProfile inserts the student profile row linked to a user.
// The unique constraint on user_id keeps the profile singular even if two
// verifications race.
func (r *UserRepository) CreateStudentProfile(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("full_name", "email", "user_id").
		Values(student.FullName, student.Email, student.UserID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			// Profile already present; verification stays idempotent.
			return nil
		}
		logger.Error().Err(err).Int64("userID", student.UserID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student profile: %w", err)
	}
	return nil
}

// StudentProfileExists checks if a student profile exists for a user.
func (r *UserRepository) StudentProfileExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student profile: %w", err)
	}
	return exists, nil
}
