package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var ErrOTPStillValid = errors.New("a valid OTP still exists")
var ErrInvalidCode = errors.New("invalid OTP code")
var ErrRateLimit = errors.New("rate limit exceeded")

const cleanupInterval = 5 * time.Minute

type Code struct {
	code      string
	createdAt time.Time
}

// OTP keeps one-time codes in memory.
// A single instance only; horizontal scaling needs the redis cache instead.
type OTP struct {
	data        map[string]Code
	attempts    map[string][]time.Time
	ttl         time.Duration
	window      time.Duration
	maxAttempts int
	mu          sync.Mutex
	now         func() time.Time
	done        chan struct{}
	closeOnce   sync.Once
}

// NewOTP returns an OTP whose codes live for ttl and which allows
// maxAttempts verifications per key within window.
func NewOTP(ttl, window time.Duration, maxAttempts int) *OTP {
	otp := &OTP{
		data:        make(map[string]Code),
		attempts:    make(map[string][]time.Time),
		ttl:         ttl,
		window:      window,
		maxAttempts: maxAttempts,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	go otp.cleanup()
	return otp
}

func (o *OTP) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-o.done:
			return
		case <-ticker.C:
			o.mu.Lock()
			o.evict()
			o.mu.Unlock()
		}
	}
}

// evict drops expired codes and attempts. Callers hold o.mu.
func (o *OTP) evict() {
	now := o.now()
	for key, code := range o.data {
		if now.Sub(code.createdAt) >= o.ttl {
			delete(o.data, key)
		}
	}
	for key := range o.attempts {
		if o.recentAttempts(key, now) == 0 {
			delete(o.attempts, key)
		}
	}
}

// recentAttempts trims attempts outside the window and returns how many are left. Callers hold o.mu.
func (o *OTP) recentAttempts(key string, now time.Time) int {
	list := o.attempts[key]
	i := 0
	for i < len(list) && now.Sub(list[i]) >= o.window {
		i++
	}
	o.attempts[key] = list[i:]
	return len(list) - i
}

// Close stops the cleanup goroutine.
func (o *OTP) Close() {
	o.closeOnce.Do(func() { close(o.done) })
}

// NewCode generates and saves an OTP code for key if none is valid.
// It returns ErrOTPStillValid if there is a valid code.
func (o *OTP) NewCode(key string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	if c, exist := o.data[key]; exist && now.Sub(c.createdAt) < o.ttl {
		return "", ErrOTPStillValid
	}
	o.data[key] = Code{
		code:      code,
		createdAt: now,
	}
	return code, nil
}

// Verify verifies a code for key and removes it on success.
// It returns ErrRateLimit once key has used up its attempts and
// ErrInvalidCode if no valid code exists or the code is wrong.
func (o *OTP) Verify(key, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()

	if o.recentAttempts(key, now) >= o.maxAttempts {
		return ErrRateLimit
	}
	o.attempts[key] = append(o.attempts[key], now)

	c, exist := o.data[key]
	if !exist || now.Sub(c.createdAt) >= o.ttl || c.code != code {
		return ErrInvalidCode
	}
	delete(o.data, key)
	return nil
}

// GenerateCode returns a random 6 digits code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("err when generating random OTP %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
