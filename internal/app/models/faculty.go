package models

import "time"

// Faculty represents a faculty member courses are assigned to. Deleting a
// faculty member cascades to their courses and all feedback on them.
type Faculty struct {
	ID          int64     `json:"id" db:"id"`
	FullName    string    `json:"fullName" db:"full_name"`
	Email       string    `json:"email" db:"email"`
	Department  string    `json:"department" db:"department"`
	Designation *string   `json:"designation,omitempty" db:"designation"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
