package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPLength is the number of digits in a generated one-time password.
const OTPLength = 6

// OTPTTL is how long a generated OTP stays valid. The verification email
// advertises the same window, and VerifyOTP enforces it.
const OTPTTL = 5 * time.Minute

// GenerateOTP returns a random 6-digit numeric code, zero-padded.
func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("error generating OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
