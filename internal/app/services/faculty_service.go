package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/repositories"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
)

// FacultyService handles faculty member management.
type FacultyService struct {
	facultyRepo repositories.IFacultyRepository
	logger      zerolog.Logger
}

// NewFacultyService creates a new FacultyService.
func NewFacultyService(facultyRepo repositories.IFacultyRepository, logger zerolog.Logger) *FacultyService {
	return &FacultyService{
		facultyRepo: facultyRepo,
		logger:      logger,
	}
}

func validateFaculty(faculty *models.Faculty) error {
	if strings.TrimSpace(faculty.FullName) == "" {
		return fmt.Errorf("%w: full name cannot be empty", apperrors.ErrValidationFailed)
	}
	if !emailRegex.MatchString(faculty.Email) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(faculty.Department) == "" {
		return fmt.Errorf("%w: department cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// GetAll lists faculty members ordered by full name.
func (s *FacultyService) GetAll(ctx context.Context) ([]*models.Faculty, error) {
	return s.facultyRepo.GetAll(ctx)
}

// GetByID retrieves a single faculty member.
func (s *FacultyService) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	return s.facultyRepo.GetByID(ctx, id)
}

// Create adds a faculty member.
func (s *FacultyService) Create(ctx context.Context, faculty *models.Faculty) error {
	faculty.Email = strings.ToLower(strings.TrimSpace(faculty.Email))
	if err := validateFaculty(faculty); err != nil {
		return err
	}
	id, err := s.facultyRepo.Create(ctx, faculty)
	if err != nil {
		return err
	}
	faculty.ID = id
	s.logger.Info().Int64("facultyID", faculty.ID).Msg("Faculty member created")
	return nil
}

// Update modifies a faculty member.
func (s *FacultyService) Update(ctx context.Context, faculty *models.Faculty) error {
	faculty.Email = strings.ToLower(strings.TrimSpace(faculty.Email))
	if err := validateFaculty(faculty); err != nil {
		return err
	}
	return s.facultyRepo.Update(ctx, faculty)
}

// Delete removes a faculty member together with their courses and all
// feedback on those courses, in a single transaction. A failure anywhere in
// the cascade leaves everything in place.
func (s *FacultyService) Delete(ctx context.Context, id int64) error {
	coursesDeleted, feedbackDeleted, err := s.facultyRepo.DeleteWithRelations(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info().
		Int64("facultyID", id).
		Int64("coursesDeleted", coursesDeleted).
		Int64("feedbackDeleted", feedbackDeleted).
		Msg("Faculty member deleted")
	return nil
}
