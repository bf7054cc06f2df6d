package cache

import (
	"context"
	"time"

	"github.com/aph138/phoneuser/pkg/otp"
)

// Memory implements Cache in process, used when no redis is configured.
type Memory struct {
	otp *otp.OTP
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		otp: otp.NewOTP(ttl, verifyWindow, maxVerifyAttempts),
	}
}

func (m *Memory) NewOTPCode(_ context.Context, phone string) (string, error) {
	return m.otp.NewCode(phone)
}

func (m *Memory) VerifyOTPCode(_ context.Context, phone, code string) error {
	return m.otp.Verify(phone, code)
}

func (m *Memory) Close(context.Context) error {
	m.otp.Close()
	return nil
}
