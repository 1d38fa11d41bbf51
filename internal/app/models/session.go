package models

import "time"

// Session is a server-side login record keyed by an opaque token. The token
// reaches the client only as a cookie; the identity snapshot and expiry live
// here so active logins survive process restarts.
type Session struct {
	Token     string    `json:"-" db:"token"`
	UserID    int64     `json:"userId" db:"user_id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// Expired reports whether the session's absolute TTL has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Identity rebuilds the identity snapshot stored with the session.
func (s *Session) Identity() Identity {
	return Identity{
		UserID:   s.UserID,
		FullName: s.FullName,
		Email:    s.Email,
		Role:     s.Role,
	}
}
