// Package repositories contains the data access layer. Every query is built
// explicitly; related rows are fetched through typed join queries rather than
// ORM-style association magic.
package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories combines all repository instances.
type Repositories struct {
	Users    *UserRepository
	Sessions *SessionRepository
	Faculty  *FacultyRepository
	Courses  *CourseRepository
	Feedback *FeedbackRepository
}

// NewRepositories creates all repositories sharing one connection pool.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Sessions: NewSessionRepository(db),
		Faculty:  NewFacultyRepository(db),
		Courses:  NewCourseRepository(db),
		Feedback: NewFeedbackRepository(db),
	}
}
