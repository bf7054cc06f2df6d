package cache

import (
	"context"
	"time"

	"github.com/aph138/phoneuser/pkg/otp"
)

// Both implementations report the errors of pkg/otp.
var (
	ErrOTPStillValid = otp.ErrOTPStillValid
	ErrInvalidCode   = otp.ErrInvalidCode
	ErrRateLimit     = otp.ErrRateLimit
)

const (
	// attempts older than this are forgotten
	verifyWindow = 10 * time.Minute
	// verifications allowed per phone number within verifyWindow
	maxVerifyAttempts = 3
)

type Cache interface {
	// Close closes all connections and releases resources, if any exists.
	// Calling it ends the operations gracefully.
	// It uses context if it is possible.
	Close(context.Context) error

	// NewOTPCode takes a phone number and generate an OTP code if one doesn't exist.
	// It returns ErrOTPStillValid if a valid key still exist.
	NewOTPCode(context.Context, string) (string, error)

	// VerifyOTPCode gets a phone number and an OTP code in order to verify the code.
	// It returns ErrRateLimit if user exceeds rate limit.
	// It returns ErrInvalidCode if the code doesn't exist or is wrong.
	VerifyOTPCode(context.Context, string, string) error
}
