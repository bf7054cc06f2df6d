package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*MyRedis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	r, err := NewRedis(&redis.Options{Addr: mr.Addr()}, 2*time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close(context.Background())
		mr.Close()
	})
	return r, mr
}

func TestNewRedisFailsWithoutServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedis(&redis.Options{Addr: addr, MaxRetries: -1}, time.Minute)
	assert.Error(t, err)
}

func TestRedisNewOTPCode(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	code, err := r.NewOTPCode(ctx, "09012345678")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, code, mustGet(t, mr, otpKey("09012345678")))

	_, err = r.NewOTPCode(ctx, "09012345678")
	assert.ErrorIs(t, err, ErrOTPStillValid)

	mr.FastForward(2 * time.Minute)
	_, err = r.NewOTPCode(ctx, "09012345678")
	assert.NoError(t, err)
}

func TestRedisVerifyOTPCode(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	code, err := r.NewOTPCode(ctx, "09012345678")
	require.NoError(t, err)

	require.NoError(t, r.VerifyOTPCode(ctx, "09012345678", code))
	assert.False(t, mr.Exists(otpKey("09012345678")))
	assert.ErrorIs(t, r.VerifyOTPCode(ctx, "09012345678", code), ErrInvalidCode)
}

func TestRedisVerifyOTPCodeRateLimit(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	code, err := r.NewOTPCode(ctx, "09012345678")
	require.NoError(t, err)

	for range maxVerifyAttempts {
		assert.ErrorIs(t, r.VerifyOTPCode(ctx, "09012345678", "wrong"), ErrInvalidCode)
	}
	// even the right code is refused once the limit is hit
	assert.ErrorIs(t, r.VerifyOTPCode(ctx, "09012345678", code), ErrRateLimit)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}

func TestRedisVerifyOTPCodeConcurrentAttempts(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	const workers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		invalid int
		limited int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.VerifyOTPCode(ctx, "09012345678", "wrong")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrInvalidCode):
				invalid++
			case errors.Is(err, ErrRateLimit):
				limited++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, maxVerifyAttempts, invalid)
	assert.Equal(t, workers-maxVerifyAttempts, limited)
}

func TestRedisVerifyOTPCodeWindowExpires(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	for range maxVerifyAttempts {
		require.ErrorIs(t, r.VerifyOTPCode(ctx, "09012345678", "wrong"), ErrInvalidCode)
	}
	require.ErrorIs(t, r.VerifyOTPCode(ctx, "09012345678", "wrong"), ErrRateLimit)

	// the attempt set expires with the window
	mr.FastForward(verifyWindow)
	assert.ErrorIs(t, r.VerifyOTPCode(ctx, "09012345678", "wrong"), ErrInvalidCode)
}
