package services

import (
	"context"
	"fmt"

	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/repositories"
)

const recentFeedbackLimit = 5

// DashboardStats aggregates the numbers shown on the admin home page.
type DashboardStats struct {
	TotalFeedback  int64                    `json:"totalFeedback"`
	TotalFaculty   int64                    `json:"totalFaculty"`
	TotalCourses   int64                    `json:"totalCourses"`
	RecentFeedback []*models.RecentFeedback `json:"recentFeedback"`
}

// DashboardService assembles admin overview statistics.
type DashboardService struct {
	feedbackRepo repositories.IFeedbackRepository
	facultyRepo  repositories.IFacultyRepository
	courseRepo   repositories.ICourseRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(feedbackRepo repositories.IFeedbackRepository, facultyRepo repositories.IFacultyRepository, courseRepo repositories.ICourseRepository) *DashboardService {
	return &DashboardService{
		feedbackRepo: feedbackRepo,
		facultyRepo:  facultyRepo,
		courseRepo:   courseRepo,
	}
}

// Stats gathers totals and the most recent feedback entries.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalFeedback, err = s.feedbackRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting feedback: %w", err)
	}
	if stats.TotalFaculty, err = s.facultyRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting faculty: %w", err)
	}
	if stats.TotalCourses, err = s.courseRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting courses: %w", err)
	}
	if stats.RecentFeedback, err = s.feedbackRepo.Recent(ctx, recentFeedbackLimit); err != nil {
		return nil, fmt.Errorf("error loading recent feedback: %w", err)
	}
	return stats, nil
}
