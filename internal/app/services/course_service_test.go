package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
)

func newTestCourseService(t *testing.T) (*CourseService, *fakeCourseRepo, *fakeFacultyRepo) {
	t.Helper()
	courseRepo := newFakeCourseRepo()
	facultyRepo := newFakeFacultyRepo()
	return NewCourseService(courseRepo, facultyRepo, zerolog.Nop()), courseRepo, facultyRepo
}

func TestCourseCreate(t *testing.T) {
	ctx := context.Background()
	svc, _, facultyRepo := newTestCourseService(t)

	facultyID, err := facultyRepo.Create(ctx, &models.Faculty{FullName: "Karma", Email: "karma@sherubtse.edu.bt", Department: "CS"})
	if err != nil {
		t.Fatalf("faculty Create() error = %v", err)
	}

	course := &models.Course{Code: "csc101", Name: "Intro to Programming", FacultyID: facultyID}
	if err := svc.Create(ctx, course); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if course.Code != "CSC101" {
		t.Errorf("code not normalized: %q", course.Code)
	}
	if course.ID == 0 {
		t.Error("Create() did not set the id")
	}

	dup := &models.Course{Code: "CSC101", Name: "Duplicate", FacultyID: facultyID}
	if err := svc.Create(ctx, dup); !errors.Is(err, apperrors.ErrCourseCodeExists) {
		t.Errorf("duplicate Create() error = %v, want ErrCourseCodeExists", err)
	}

	ghost := &models.Course{Code: "CSC999", Name: "Ghost Course", FacultyID: 404}
	if err := svc.Create(ctx, ghost); !errors.Is(err, apperrors.ErrFacultyNotFound) {
		t.Errorf("Create() with unknown faculty error = %v, want ErrFacultyNotFound", err)
	}
}

func TestCourseUpdateRevalidatesFaculty(t *testing.T) {
	ctx := context.Background()
	svc, _, facultyRepo := newTestCourseService(t)

	facultyID, err := facultyRepo.Create(ctx, &models.Faculty{FullName: "Karma", Email: "karma@sherubtse.edu.bt", Department: "CS"})
	if err != nil {
		t.Fatalf("faculty Create() error = %v", err)
	}
	course := &models.Course{Code: "CSC101", Name: "Intro", FacultyID: facultyID}
	if err := svc.Create(ctx, course); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	course.FacultyID = 404
	if err := svc.Update(ctx, course); !errors.Is(err, apperrors.ErrFacultyNotFound) {
		t.Errorf("Update() with unknown faculty error = %v, want ErrFacultyNotFound", err)
	}
}
