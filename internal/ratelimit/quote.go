package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/siamtransfer/fareengine/internal/config"
)

const keyQuoteClient = "fare:quote:client:%s"

// QuoteLimiter throttles quote calculations per client. A nil limiter
// (rate limiting disabled) allows everything.
type QuoteLimiter struct {
	enabled bool

	bucket *TokenBucket
	seed   *seedLock

	rate  float64
	burst int
}

func NewQuoteLimiter(cfg config.Config) (*QuoteLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.QuoteRate <= 0 || limitCfg.QuoteBurst <= 0 {
		return nil, errors.New("quote rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &QuoteLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		seed:    newSeedLock(client),
		rate:    limitCfg.QuoteRate,
		burst:   limitCfg.QuoteBurst,
	}, nil
}

func (l *QuoteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowQuote reports whether the given client may run one more quote.
func (l *QuoteLimiter) AllowQuote(ctx context.Context, clientID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyQuoteClient, strings.TrimSpace(clientID)), l.rate, l.burst)
}

// TrySeedLock grabs the short-lived startup lock so only one replica
// seeds default rates.
func (l *QuoteLimiter) TrySeedLock(ctx context.Context) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.seed.acquire(ctx)
}

func (l *QuoteLimiter) ReleaseSeedLock(ctx context.Context, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.seed.releaseToken(ctx, token)
}
