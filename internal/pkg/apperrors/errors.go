// Package apperrors holds the application error taxonomy. Services return
// these sentinels; the HTTP layer maps them to user-facing responses.
package apperrors

import "errors"

// Validation errors. Recoverable: re-render the form with a message.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidRating    = errors.New("ratings must be whole numbers between 1 and 5")
)

// Not-found errors. Ownership-folded lookups return these for rows that are
// absent or not owned by the requester, so the two cases are indistinguishable.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrFacultyNotFound  = errors.New("faculty member not found")
	ErrCourseNotFound   = errors.New("course not found or has no assigned faculty")
	ErrFeedbackNotFound = errors.New("feedback not found")
)

// Conflict errors.
var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrFacultyEmailExists = errors.New("faculty member with this email already exists")
	ErrCourseCodeExists   = errors.New("course with this code already exists")
)

// Authentication errors. ErrInvalidCredentials deliberately covers unknown
// email, wrong password, wrong role and unverified accounts alike, so a
// failed login never reveals which check tripped.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownPending     = errors.New("no pending registration")
	ErrOTPMismatch        = errors.New("OTP does not match")
	ErrOTPExpired         = errors.New("OTP has expired")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
	ErrPermissionDenied   = errors.New("access denied")
)

// Integrity errors. A failed cascade rolls back fully and surfaces this.
var ErrDeleteFailed = errors.New("delete failed")

// Dependency errors. Non-fatal: callers degrade to an alternate path.
var ErrNotificationFailed = errors.New("notification delivery failed")

// Is reports whether err matches target or any error in errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
