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

// CourseService handles course management.
type CourseService struct {
	courseRepo  repositories.ICourseRepository
	facultyRepo repositories.IFacultyRepository
	logger      zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo repositories.ICourseRepository, facultyRepo repositories.IFacultyRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		facultyRepo: facultyRepo,
		logger:      logger,
	}
}

func (s *CourseService) validateCourse(ctx context.Context, course *models.Course) error {
	if strings.TrimSpace(course.Code) == "" {
		return fmt.Errorf("%w: course code cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(course.Name) == "" {
		return fmt.Errorf("%w: course name cannot be empty", apperrors.ErrValidationFailed)
	}
	// The assigned faculty member must exist before the course references it.
	if _, err := s.facultyRepo.GetByID(ctx, course.FacultyID); err != nil {
		return err
	}
	return nil
}

// GetAll lists courses with their assigned faculty, ordered by course name.
func (s *CourseService) GetAll(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAllWithFaculty(ctx)
}

// GetByID retrieves a single course.
func (s *CourseService) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// Create adds a course assigned to an existing faculty member.
func (s *CourseService) Create(ctx context.Context, course *models.Course) error {
	course.Code = strings.ToUpper(strings.TrimSpace(course.Code))
	if err := s.validateCourse(ctx, course); err != nil {
		return err
	}
	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return err
	}
	course.ID = id
	s.logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Msg("Course created")
	return nil
}

// Update modifies a course, re-validating the faculty assignment.
func (s *CourseService) Update(ctx context.Context, course *models.Course) error {
	course.Code = strings.ToUpper(strings.TrimSpace(course.Code))
	if err := s.validateCourse(ctx, course); err != nil {
		return err
	}
	return s.courseRepo.Update(ctx, course)
}

// Delete removes a course and all of its feedback in a single transaction.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	feedbackDeleted, err := s.courseRepo.DeleteWithRelations(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", id).Int64("feedbackDeleted", feedbackDeleted).Msg("Course deleted")
	return nil
}
