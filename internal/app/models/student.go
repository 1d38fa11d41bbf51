package models

import "time"

// Student is the denormalized profile row created exactly once, when a
// student-role user completes OTP verification. Its lifetime is tied to the
// owning user (ON DELETE CASCADE).
type Student struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
