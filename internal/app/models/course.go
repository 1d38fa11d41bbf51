package models

import "time"

// Course represents a course taught by exactly one faculty member.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Semester    *int      `json:"semester,omitempty" db:"semester"`
	FacultyID   int64     `json:"facultyId" db:"faculty_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Faculty is populated by explicit join queries, never lazily.
	Faculty *Faculty `json:"faculty,omitempty"`
}
