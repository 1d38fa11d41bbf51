package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/repositories"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/auth"
)

// SessionService issues and resolves opaque login session tokens persisted in
// the database, so sessions survive process restarts.
type SessionService struct {
	sessionRepo repositories.ISessionRepository
	userRepo    repositories.IUserRepository
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo repositories.ISessionRepository, userRepo repositories.IUserRepository, ttl time.Duration, logger zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		ttl:         ttl,
		logger:      logger,
	}
}

// TTL returns the absolute session lifetime, used for the cookie max-age.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session for the identity and returns its token.
func (s *SessionService) Create(ctx context.Context, identity *models.Identity) (string, error) {
	now := time.Now()
	session := &models.Session{
		Token:     auth.NewSessionToken(),
		UserID:    identity.UserID,
		FullName:  identity.FullName,
		Email:     identity.Email,
		Role:      identity.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("error creating session: %w", err)
	}
	return session.Token, nil
}

// Resolve maps a token back to an identity. Expired sessions, and sessions
// whose user row no longer exists, are destroyed on sight and reported as
// ErrSessionInvalid.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, apperrors.ErrSessionInvalid
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionInvalid) {
			return nil, apperrors.ErrSessionInvalid
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if session.Expired(time.Now()) {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to delete expired session")
		}
		return nil, apperrors.ErrSessionInvalid
	}

	exists, err := s.userRepo.UserExists(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("error checking session user: %w", err)
	}
	if !exists {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to delete orphaned session")
		}
		return nil, apperrors.ErrSessionInvalid
	}

	identity := session.Identity()
	return &identity, nil
}

// Destroy removes a session. Destroying an unknown or already-destroyed token
// is not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// PurgeExpired removes all expired sessions, used as startup housekeeping.
func (s *SessionService) PurgeExpired(ctx context.Context) error {
	count, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("error purging expired sessions: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int64("count", count).Msg("Purged expired sessions")
	}
	return nil
}
