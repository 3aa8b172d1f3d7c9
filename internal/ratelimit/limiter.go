package ratelimit

import "context"

// RateLimiter controls trigger throughput per workflow.
type RateLimiter interface {
	Allow(ctx context.Context, workflow string) (bool, error)
	Wait(ctx context.Context, workflow string) error
}

// NopLimiter never throttles. Used when no Redis backend is configured.
type NopLimiter struct{}

var _ RateLimiter = NopLimiter{}

func (NopLimiter) Allow(ctx context.Context, workflow string) (bool, error) { return true, nil }

func (NopLimiter) Wait(ctx context.Context, workflow string) error { return ctx.Err() }
