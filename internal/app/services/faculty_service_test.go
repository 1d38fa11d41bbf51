package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
)

func newTestFacultyService(t *testing.T) (*FacultyService, *fakeFacultyRepo) {
	t.Helper()
	repo := newFakeFacultyRepo()
	return NewFacultyService(repo, zerolog.Nop()), repo
}

func TestFacultyCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestFacultyService(t)

	member := &models.Faculty{FullName: "Karma Dorji", Email: "Karma@Sherubtse.edu.bt", Department: "CS"}
	if err := svc.Create(ctx, member); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if member.Email != "karma@sherubtse.edu.bt" {
		t.Errorf("email not normalized: %q", member.Email)
	}
	if member.ID == 0 {
		t.Error("Create() did not set the id")
	}

	dup := &models.Faculty{FullName: "Other", Email: "karma@sherubtse.edu.bt", Department: "CS"}
	if err := svc.Create(ctx, dup); !errors.Is(err, apperrors.ErrFacultyEmailExists) {
		t.Errorf("duplicate Create() error = %v, want ErrFacultyEmailExists", err)
	}

	invalid := &models.Faculty{FullName: "", Email: "x@y.tld", Department: "CS"}
	if err := svc.Create(ctx, invalid); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("invalid Create() error = %v, want ErrValidationFailed", err)
	}
}

func TestFacultyDeleteCascade(t *testing.T) {
	ctx := context.Background()

	t.Run("successful cascade removes the member", func(t *testing.T) {
		svc, repo := newTestFacultyService(t)
		member := &models.Faculty{FullName: "Karma", Email: "karma@sherubtse.edu.bt", Department: "CS"}
		if err := svc.Create(ctx, member); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		repo.coursesDeleted, repo.feedbackDeleted = 2, 9

		if err := svc.Delete(ctx, member.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if len(repo.members) != 0 {
			t.Error("Delete() left the faculty member in place")
		}
	})

	t.Run("mid-cascade failure surfaces ErrDeleteFailed and leaves the member", func(t *testing.T) {
		svc, repo := newTestFacultyService(t)
		member := &models.Faculty{FullName: "Karma", Email: "karma@sherubtse.edu.bt", Department: "CS"}
		if err := svc.Create(ctx, member); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		repo.deleteErr = fmt.Errorf("%w: feedback delete aborted", apperrors.ErrDeleteFailed)

		if err := svc.Delete(ctx, member.ID); !errors.Is(err, apperrors.ErrDeleteFailed) {
			t.Fatalf("Delete() error = %v, want ErrDeleteFailed", err)
		}
		if len(repo.members) != 1 {
			t.Error("failed cascade still removed the faculty member")
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		svc, _ := newTestFacultyService(t)
		if err := svc.Delete(ctx, 404); !errors.Is(err, apperrors.ErrFacultyNotFound) {
			t.Errorf("Delete() error = %v, want ErrFacultyNotFound", err)
		}
	})
}
