package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeSender) {
	t.Helper()
	repo := newFakeUserRepo()
	sender := &fakeSender{}
	return NewAuthService(repo, sender, zerolog.Nop()), repo, sender
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unverified user with a pending OTP", func(t *testing.T) {
		svc, repo, sender := newTestAuthService(t)

		userID, otp, emailSent, err := svc.Register(ctx, "Pema Choden", "pema@sherubtse.edu.bt", "secret123", models.RoleStudent)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if !emailSent {
			t.Error("Register() emailSent = false, want true")
		}
		if len(otp) != auth.OTPLength {
			t.Errorf("Register() otp length = %d, want %d", len(otp), auth.OTPLength)
		}

		user := repo.users[userID]
		if user == nil {
			t.Fatal("Register() did not store the user")
		}
		if user.IsVerified {
			t.Error("new user should not be verified")
		}
		if user.Password == "secret123" {
			t.Error("password stored in plaintext")
		}
		if user.OTP == nil || *user.OTP != otp {
			t.Error("stored OTP does not match the returned one")
		}
		if user.OTPExpiresAt == nil || !user.OTPExpiresAt.After(time.Now()) {
			t.Error("OTP expiry missing or already passed")
		}
		if len(sender.sent) != 1 || sender.sent[0] != "pema@sherubtse.edu.bt" {
			t.Errorf("OTP email sent to %v, want [pema@sherubtse.edu.bt]", sender.sent)
		}
	})

	t.Run("rejects a duplicate email regardless of verification state", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)

		if _, _, _, err := svc.Register(ctx, "First", "same@sherubtse.edu.bt", "secret123", models.RoleStudent); err != nil {
			t.Fatalf("first Register() error = %v", err)
		}
		_, _, _, err := svc.Register(ctx, "Second", "same@sherubtse.edu.bt", "other456", models.RoleStudent)
		if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			t.Errorf("second Register() error = %v, want ErrEmailAlreadyExists", err)
		}
	})

	t.Run("completes even when the email cannot be delivered", func(t *testing.T) {
		svc, repo, sender := newTestAuthService(t)
		sender.fail = true

		userID, otp, emailSent, err := svc.Register(ctx, "Pema", "pema@sherubtse.edu.bt", "secret123", models.RoleStudent)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if emailSent {
			t.Error("Register() emailSent = true despite delivery failure")
		}
		if otp == "" {
			t.Error("Register() did not return the OTP for in-band display")
		}
		if repo.users[userID] == nil {
			t.Error("delivery failure rolled back the registration")
		}
	})

	t.Run("validates inputs", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		cases := []struct {
			name, fullName, email, password string
		}{
			{"empty name", "", "a@b.tld", "secret123"},
			{"bad email", "Name", "not-an-email", "secret123"},
			{"short password", "Name", "a@b.tld", "abc"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, _, _, err := svc.Register(ctx, tc.fullName, tc.email, tc.password, models.RoleStudent)
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Errorf("Register() error = %v, want ErrValidationFailed", err)
				}
			})
		}
	})
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc *AuthService) (int64, string) {
		t.Helper()
		userID, otp, _, err := svc.Register(ctx, "Pema", "pema@sherubtse.edu.bt", "secret123", models.RoleStudent)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		return userID, otp
	}

	t.Run("mismatched code changes nothing", func(t *testing.T) {
		svc, repo, _ := newTestAuthService(t)
		userID, otp := register(t, svc)

		wrong := "000000"
		if wrong == otp {
			wrong = "000001"
		}
		if err := svc.VerifyOTP(ctx, userID, wrong); !errors.Is(err, apperrors.ErrOTPMismatch) {
			t.Fatalf("VerifyOTP() error = %v, want ErrOTPMismatch", err)
		}

		user := repo.users[userID]
		if user.IsVerified {
			t.Error("mismatched OTP marked the user verified")
		}
		if user.OTP == nil || *user.OTP != otp {
			t.Error("mismatched OTP cleared the stored code")
		}
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		svc, repo, _ := newTestAuthService(t)
		userID, otp := register(t, svc)

		past := time.Now().Add(-time.Minute)
		repo.users[userID].OTPExpiresAt = &past

		if err := svc.VerifyOTP(ctx, userID, otp); !errors.Is(err, apperrors.ErrOTPExpired) {
			t.Errorf("VerifyOTP() error = %v, want ErrOTPExpired", err)
		}
		if repo.users[userID].IsVerified {
			t.Error("expired OTP marked the user verified")
		}
	})

	t.Run("student verification creates exactly one profile", func(t *testing.T) {
		svc, repo, _ := newTestAuthService(t)
		userID, otp := register(t, svc)

		if err := svc.VerifyOTP(ctx, userID, otp); err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		user := repo.users[userID]
		if !user.IsVerified {
			t.Error("user not marked verified")
		}
		if user.OTP != nil {
			t.Error("OTP not cleared after verification")
		}
		if len(repo.students) != 1 {
			t.Fatalf("student profiles = %d, want 1", len(repo.students))
		}

		// Re-verifying must not duplicate the profile.
		if err := svc.VerifyOTP(ctx, userID, otp); err != nil {
			t.Fatalf("repeat VerifyOTP() error = %v", err)
		}
		if len(repo.students) != 1 {
			t.Errorf("student profiles after repeat = %d, want 1", len(repo.students))
		}
	})

	t.Run("unknown pending id", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		if err := svc.VerifyOTP(ctx, 0, "123456"); !errors.Is(err, apperrors.ErrUnknownPending) {
			t.Errorf("VerifyOTP(0) error = %v, want ErrUnknownPending", err)
		}
		if err := svc.VerifyOTP(ctx, 99, "123456"); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("VerifyOTP(99) error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, int64) {
		t.Helper()
		svc, _, _ := newTestAuthService(t)
		userID, otp, _, err := svc.Register(ctx, "Pema", "pema@sherubtse.edu.bt", "secret123", models.RoleStudent)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if err := svc.VerifyOTP(ctx, userID, otp); err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		return svc, userID
	}

	t.Run("full signup round trip", func(t *testing.T) {
		svc, userID := setup(t)
		identity, err := svc.Authenticate(ctx, "pema@sherubtse.edu.bt", "secret123", models.RoleStudent)
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if identity.UserID != userID || identity.Role != models.RoleStudent {
			t.Errorf("Authenticate() identity = %+v", identity)
		}
	})

	t.Run("all failure modes collapse to invalid credentials", func(t *testing.T) {
		svc, _ := setup(t)
		cases := []struct {
			name, email, password string
			role                  models.Role
		}{
			{"unknown email", "ghost@sherubtse.edu.bt", "secret123", models.RoleStudent},
			{"wrong password", "pema@sherubtse.edu.bt", "nope", models.RoleStudent},
			{"role mismatch", "pema@sherubtse.edu.bt", "secret123", models.RoleAdmin},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Authenticate(ctx, tc.email, tc.password, tc.role)
				if !errors.Is(err, apperrors.ErrInvalidCredentials) {
					t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
				}
			})
		}
	})

	t.Run("unverified user cannot log in with the correct password", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		if _, _, _, err := svc.Register(ctx, "Pema", "pema@sherubtse.edu.bt", "secret123", models.RoleStudent); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		_, err := svc.Authenticate(ctx, "pema@sherubtse.edu.bt", "secret123", models.RoleStudent)
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestResendOTP(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestAuthService(t)

	userID, first, _, err := svc.Register(ctx, "Pema", "pema@sherubtse.edu.bt", "secret123", models.RoleStudent)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	second, emailSent, err := svc.ResendOTP(ctx, userID)
	if err != nil {
		t.Fatalf("ResendOTP() error = %v", err)
	}
	if !emailSent {
		t.Error("ResendOTP() emailSent = false")
	}
	stored := repo.users[userID].OTP
	if stored == nil || *stored != second {
		t.Error("ResendOTP() did not store the new code")
	}
	_ = first // the old code may incidentally equal the new one

	// A verified user has nothing pending to resend.
	if err := svc.VerifyOTP(ctx, userID, second); err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if _, _, err := svc.ResendOTP(ctx, userID); !errors.Is(err, apperrors.ErrUnknownPending) {
		t.Errorf("ResendOTP() after verification error = %v, want ErrUnknownPending", err)
	}
}
