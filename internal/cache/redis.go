package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aph138/phoneuser/pkg/otp"
	"github.com/redis/go-redis/v9"
)

// MyRedis implement Cache interface
type MyRedis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(opts *redis.Options, ttl time.Duration) (*MyRedis, error) {
	c := redis.NewClient(opts)
	if err := c.Ping(context.Background()).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("err when connecting to redis %w", err)
	}
	return &MyRedis{
		client: c,
		ttl:    ttl,
	}, nil
}

func otpKey(phone string) string {
	return "otp:" + phone + ":login"
}

func attemptKey(phone string) string {
	return "req:" + phone
}

func (r *MyRedis) NewOTPCode(ctx context.Context, phone string) (string, error) {
	code, err := otp.GenerateCode()
	if err != nil {
		return "", err
	}
	// SETNX keeps a live code untouched
	ok, err := r.client.SetNX(ctx, otpKey(phone), code, r.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("err when saving otp code %w", err)
	}
	if !ok {
		return "", ErrOTPStillValid
	}
	return code, nil
}

// recordAttempt drops attempts older than the window and adds a new one unless
// the limit is reached, all in one step so concurrent verifications cannot pass it.
// KEYS[1] attempt set, ARGV[1] scores up to it are dropped, ARGV[2] score,
// ARGV[3] member, ARGV[4] limit, ARGV[5] window in milliseconds.
// It returns 0 when the limit is reached and 1 otherwise.
var recordAttempt = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[4]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

func (r *MyRedis) VerifyOTPCode(ctx context.Context, phone string, code string) error {
	// using ZSET (sorted set) for implementing rate limit mechanism.
	now := time.Now()
	nonce, err := otp.GenerateCode()
	if err != nil {
		return err
	}
	allowed, err := recordAttempt.Run(ctx, r.client, []string{attemptKey(phone)},
		now.Add(-verifyWindow).UnixNano(),
		now.UnixNano(),
		strconv.FormatInt(now.UnixNano(), 10)+":"+nonce,
		maxVerifyAttempts,
		verifyWindow.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("err when recording verify attempt %w", err)
	}
	if allowed == 0 {
		return ErrRateLimit
	}

	expectedCode, err := r.client.Get(ctx, otpKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidCode
	} else if err != nil {
		return fmt.Errorf("err when getting otp code %w", err)
	}

	if expectedCode != code {
		return ErrInvalidCode
	}

	// remove old valid code after successful login
	if _, err := r.client.Del(ctx, otpKey(phone)).Result(); err != nil {
		return fmt.Errorf("err when deleting old otp code %w", err)
	}
	return nil
}

func (r *MyRedis) Close(ctx context.Context) error {
	return r.client.Close()
}
