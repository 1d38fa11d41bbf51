package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/repositories"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
)

// FeedbackService handles submission and retrieval of course feedback.
type FeedbackService struct {
	feedbackRepo repositories.IFeedbackRepository
	courseRepo   repositories.ICourseRepository
	logger       zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(feedbackRepo repositories.IFeedbackRepository, courseRepo repositories.ICourseRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		courseRepo:   courseRepo,
		logger:       logger,
	}
}

// ListEligibleCourses returns the courses a student may rate, ordered by
// name. Only courses with an assigned faculty member qualify; an empty campus
// is a valid state, not an error.
func (s *FeedbackService) ListEligibleCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAllWithFaculty(ctx)
}

// Submit records feedback for a course. The faculty is snapshotted from the
// course at submission time, so later reassignment does not rewrite history.
func (s *FeedbackService) Submit(ctx context.Context, userID, courseID int64, ratings models.Ratings, suggestions *string) (*models.Feedback, error) {
	if !ratings.Valid() {
		return nil, fmt.Errorf("%w: ratings must be between %d and %d", apperrors.ErrInvalidRating, models.RatingMin, models.RatingMax)
	}

	course, err := s.courseRepo.GetWithFaculty(ctx, courseID)
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		UserID:      userID,
		CourseID:    course.ID,
		FacultyID:   course.FacultyID,
		Q1:          ratings[0],
		Q2:          ratings[1],
		Q3:          ratings[2],
		Suggestions: suggestions,
		Course:      course,
		Faculty:     course.Faculty,
	}
	if _, err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("Feedback submitted")
	return feedback, nil
}

// ListForUser returns the user's own feedback, newest first.
func (s *FeedbackService) ListForUser(ctx context.Context, userID int64) ([]*models.Feedback, error) {
	return s.feedbackRepo.ListByUser(ctx, userID)
}

// ListAll returns every feedback entry with submitter identity, newest first.
func (s *FeedbackService) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	return s.feedbackRepo.ListAll(ctx)
}

// GetForUser retrieves one of the user's own feedback entries. Entries that
// do not exist and entries owned by someone else are both ErrFeedbackNotFound.
func (s *FeedbackService) GetForUser(ctx context.Context, feedbackID, ownerID int64) (*models.Feedback, error) {
	return s.feedbackRepo.GetOwned(ctx, feedbackID, ownerID)
}

// Update rewrites the ratings and suggestion of one of the user's own
// entries, with the same not-found semantics as GetForUser.
func (s *FeedbackService) Update(ctx context.Context, feedbackID, ownerID int64, ratings models.Ratings, suggestions *string) error {
	if !ratings.Valid() {
		return fmt.Errorf("%w: ratings must be between %d and %d", apperrors.ErrInvalidRating, models.RatingMin, models.RatingMax)
	}
	return s.feedbackRepo.UpdateOwned(ctx, feedbackID, ownerID, ratings, suggestions)
}

// Delete removes one of the user's own entries, with the same not-found
// semantics as GetForUser.
func (s *FeedbackService) Delete(ctx context.Context, feedbackID, ownerID int64) error {
	return s.feedbackRepo.DeleteOwned(ctx, feedbackID, ownerID)
}
