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

// ISessionRepository defines the interface for persisted session records.
type ISessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionRepository stores login sessions in the database so that active
// logins survive a process restart.
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new session record.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("token", "user_id", "full_name", "email", "role", "created_at", "expires_at").
		Values(session.Token, session.UserID, session.FullName, session.Email,
			session.Role, session.CreatedAt, session.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", session.UserID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// GetByToken retrieves a session record by its opaque token.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	sql, args, err := r.sb.Select("token", "user_id", "full_name", "email", "role", "created_at", "expires_at").
		From("sessions").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	session := &models.Session{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&session.Token, &session.UserID, &session.FullName, &session.Email,
		&session.Role, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionInvalid
		}
		logger.Error().Err(err).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return session, nil
}

// Delete removes a session record. Deleting an absent token is not an
// error; destroy is idempotent.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing delete session query")
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Expr("expires_at < NOW()")).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete expired sessions query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}

	deleted := cmdTag.RowsAffected()
	if deleted > 0 {
		logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired sessions")
	}
	return deleted, nil
}
