package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/sherubtse/feedback-portal/internal/app/models"
	appRepos "github.com/sherubtse/feedback-portal/internal/app/repositories"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/auth"
)

type sampleFaculty struct {
	fullName    string
	email       string
	department  string
	designation string
}

type sampleCourse struct {
	code         string
	name         string
	description  string
	semester     int
	facultyEmail string
}

var sampleFacultyMembers = []sampleFaculty{
	{"Karma Dorji", "karma.dorji@sherubtse.edu.bt", "Computer Science", "Associate Professor"},
	{"Tshering Pem", "tshering.pem@sherubtse.edu.bt", "Mathematics", "Lecturer"},
	{"Sonam Wangchuk", "sonam.wangchuk@sherubtse.edu.bt", "Physics", "Assistant Professor"},
}

var sampleCourses = []sampleCourse{
	{"CSC101", "Introduction to Programming", "Fundamentals of programming with Python.", 1, "karma.dorji@sherubtse.edu.bt"},
	{"CSC205", "Data Structures and Algorithms", "Core data structures with complexity analysis.", 3, "karma.dorji@sherubtse.edu.bt"},
	{"MAT102", "Calculus I", "Limits, derivatives and integration.", 1, "tshering.pem@sherubtse.edu.bt"},
	{"PHY201", "Classical Mechanics", "Newtonian mechanics and oscillations.", 2, "sonam.wangchuk@sherubtse.edu.bt"},
}

// CreateDefaultData seeds the default admin account and, when the tables are
// still empty, a handful of faculty members and courses so a fresh install
// has something to rate.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, adminEmail, adminPassword string, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	facultyRepo := appRepos.NewFacultyRepository(dbPool)
	courseRepo := appRepos.NewCourseRepository(dbPool)

	var finalErr error

	// --- Default admin account --- //
	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		hashedPassword, err := auth.HashPassword(adminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				FullName:   "Administrator",
				Email:      adminEmail,
				Password:   hashedPassword,
				Role:       appModels.RoleAdmin,
				IsVerified: true,
			}
			adminID, err := userRepo.CreateUser(ctx, admin)
			if err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			} else if err == nil {
				lgr.Info().Int64("adminID", adminID).Msg("Default admin user created")
			}
		}
	}

	// --- Sample faculty and courses --- //
	facultyCount, err := facultyRepo.Count(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting faculty")
		return errors.Join(finalErr, err)
	}
	if facultyCount > 0 {
		return finalErr
	}

	facultyIDs := map[string]int64{}
	for _, f := range sampleFacultyMembers {
		designation := f.designation
		member := &appModels.Faculty{
			FullName:    f.fullName,
			Email:       f.email,
			Department:  f.department,
			Designation: &designation,
		}
		id, err := facultyRepo.Create(ctx, member)
		if err != nil {
			if errors.Is(err, apperrors.ErrFacultyEmailExists) {
				continue
			}
			lgr.Error().Err(err).Str("email", f.email).Msg("Error seeding faculty member")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		facultyIDs[f.email] = id
	}

	for _, c := range sampleCourses {
		facultyID, ok := facultyIDs[c.facultyEmail]
		if !ok {
			continue
		}
		description := c.description
		semester := c.semester
		course := &appModels.Course{
			Code:        c.code,
			Name:        c.name,
			Description: &description,
			Semester:    &semester,
			FacultyID:   facultyID,
		}
		if _, err := courseRepo.Create(ctx, course); err != nil && !errors.Is(err, apperrors.ErrCourseCodeExists) {
			lgr.Error().Err(err).Str("code", c.code).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Sample faculty and courses seeded")
	return finalErr
}
