package models

import (
	"time"
)

// User defines the identity record backing the 'users' table. The row is
// created at signup (unverified, with a pending OTP) and mutated once on OTP
// verification; logins never mutate it.
type User struct {
	ID           int64      `json:"id" db:"id"`
	FullName     string     `json:"fullName" db:"full_name"`
	Email        string     `json:"email" db:"email"`
	Password     string     `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Role         Role       `json:"role" db:"role"`
	OTP          *string    `json:"-" db:"otp"`
	OTPExpiresAt *time.Time `json:"-" db:"otp_expires_at"`
	IsVerified   bool       `json:"isVerified" db:"is_verified"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Identity is the snapshot of an authenticated user carried by a session.
type Identity struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IdentityOf builds the session snapshot for a user row.
func IdentityOf(u *User) Identity {
	return Identity{
		UserID:   u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}
