package models

import "time"

// RatingMin and RatingMax bound the answer scale for the three fixed
// feedback questions.
const (
	RatingMin = 1
	RatingMax = 5
)

// Feedback is a rated submission for a course. FacultyID is snapshotted from
// the course's assigned faculty at submission time and never re-derived.
type Feedback struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	FacultyID   int64     `json:"facultyId" db:"faculty_id"`
	Q1          int       `json:"q1" db:"q1"`
	Q2          int       `json:"q2" db:"q2"`
	Q3          int       `json:"q3" db:"q3"`
	Suggestions *string   `json:"suggestions,omitempty" db:"suggestions"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Populated by explicit join queries.
	Course  *Course  `json:"course,omitempty"`
	Faculty *Faculty `json:"faculty,omitempty"`
	User    *User    `json:"user,omitempty"`
}

// RecentFeedback is a dashboard line item for a freshly submitted entry.
type RecentFeedback struct {
	CourseName  string    `json:"courseName"`
	FacultyName string    `json:"facultyName"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Ratings groups the three question answers as submitted.
type Ratings [3]int

// Valid reports whether every rating is inside [RatingMin, RatingMax].
func (r Ratings) Valid() bool {
	for _, v := range r {
		if v < RatingMin || v > RatingMax {
			return false
		}
	}
	return true
}
