package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/repositories"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/auth"
	"github.com/sherubtse/feedback-portal/internal/pkg/email"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthService handles registration, OTP verification and credential checks.
type AuthService struct {
	userRepo repositories.IUserRepository
	sender   email.Sender
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.IUserRepository, sender email.Sender, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sender:   sender,
		logger:   logger,
	}
}

func (s *AuthService) validateRegistration(fullName, emailAddr, password string, role models.Role) error {
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("%w: full name cannot be empty", apperrors.ErrValidationFailed)
	}
	if !emailRegex.MatchString(emailAddr) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrValidationFailed)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters long", apperrors.ErrValidationFailed)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, role)
	}
	return nil
}

// Register creates an unverified user and sends a one-time code to its email.
// Delivery failure does not undo the registration; emailSent reports whether
// the code actually went out so the caller can fall back to showing it in-band.
func (s *AuthService) Register(ctx context.Context, fullName, emailAddr, password string, role models.Role) (userID int64, otp string, emailSent bool, err error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if err := s.validateRegistration(fullName, emailAddr, password, role); err != nil {
		return 0, "", false, err
	}

	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return 0, "", false, fmt.Errorf("error checking email existence: %w", err)
	}
	if exists {
		return 0, "", false, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return 0, "", false, fmt.Errorf("error hashing password: %w", err)
	}

	otp, err = auth.GenerateOTP()
	if err != nil {
		return 0, "", false, fmt.Errorf("error generating OTP: %w", err)
	}
	expiresAt := time.Now().Add(auth.OTPTTL)

	user := &models.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        emailAddr,
		Password:     hashedPassword,
		Role:         role,
		OTP:          &otp,
		OTPExpiresAt: &expiresAt,
		IsVerified:   false,
	}

	userID, err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return 0, "", false, apperrors.ErrEmailAlreadyExists
		}
		return 0, "", false, fmt.Errorf("error creating user: %w", err)
	}

	emailSent = true
	if err := s.sender.Send(ctx, emailAddr, email.OTPSubject, email.OTPBody(otp)); err != nil {
		s.logger.Warn().Err(err).Str("email", emailAddr).Msg("Failed to send OTP email")
		emailSent = false
	}

	s.logger.Info().Int64("userID", userID).Str("role", string(role)).Msg("User registered, awaiting OTP verification")
	return userID, otp, emailSent, nil
}

// VerifyOTP checks the submitted code against the pending user's stored OTP.
// On success the user is marked verified and, for student accounts, a Student
// profile row is created. Re-verification never duplicates the profile.
func (s *AuthService) VerifyOTP(ctx context.Context, pendingUserID int64, submittedOTP string) error {
	if pendingUserID <= 0 {
		return apperrors.ErrUnknownPending
	}

	user, err := s.userRepo.GetUserByID(ctx, pendingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error loading pending user: %w", err)
	}

	if !user.IsVerified {
		if user.OTP == nil || *user.OTP != strings.TrimSpace(submittedOTP) {
			return apperrors.ErrOTPMismatch
		}
		if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
			return apperrors.ErrOTPExpired
		}
		if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
			return fmt.Errorf("error marking user verified: %w", err)
		}
	}

	if user.Role == models.RoleStudent {
		student := &models.Student{
			FullName: user.FullName,
			Email:    user.Email,
			UserID:   user.ID,
		}
		if err := s.userRepo.CreateStudentProfile(ctx, student); err != nil {
			return fmt.Errorf("error creating student profile: %w", err)
		}
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User verified")
	return nil
}

// ResendOTP regenerates the one-time code for a still-unverified user and
// attempts delivery again.
func (s *AuthService) ResendOTP(ctx context.Context, pendingUserID int64) (otp string, emailSent bool, err error) {
	if pendingUserID <= 0 {
		return "", false, apperrors.ErrUnknownPending
	}

	user, err := s.userRepo.GetUserByID(ctx, pendingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", false, apperrors.ErrUserNotFound
		}
		return "", false, fmt.Errorf("error loading pending user: %w", err)
	}
	if user.IsVerified {
		return "", false, apperrors.ErrUnknownPending
	}

	otp, err = auth.GenerateOTP()
	if err != nil {
		return "", false, fmt.Errorf("error generating OTP: %w", err)
	}
	if err := s.userRepo.SetOTP(ctx, user.ID, otp, time.Now().Add(auth.OTPTTL)); err != nil {
		return "", false, fmt.Errorf("error storing OTP: %w", err)
	}

	emailSent = true
	if err := s.sender.Send(ctx, user.Email, email.OTPSubject, email.OTPBody(otp)); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to resend OTP email")
		emailSent = false
	}
	return otp, emailSent, nil
}

// Authenticate validates a login attempt. Unknown email, unverified account,
// wrong password and role mismatch all collapse to ErrInvalidCredentials so
// the login page never reveals which check failed. claimedRole is the role
// picked on the login form; it is double-checked against the stored role but
// the stored role alone decides what the session may access.
func (s *AuthService) Authenticate(ctx context.Context, emailAddr, password string, claimedRole models.Role) (*models.Identity, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := s.userRepo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsVerified {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Role != claimedRole {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User authenticated")
	identity := models.IdentityOf(user)
	return &identity, nil
}
