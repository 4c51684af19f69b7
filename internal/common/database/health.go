package database

import (
	"context"
	"fmt"
	"time"

	"correspondence-workers/internal/common/logger"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every dependency and returns the failures by name.
func CheckAll(ctx context.Context, deps ...Pinger) map[string]error {
	failures := make(map[string]error)
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			failures[dep.Name()] = err
		}
	}
	return failures
}

// ConnectWithRetry pings dep until it answers, doubling the delay after each
// failed attempt.
func ConnectWithRetry(ctx context.Context, dep Pinger, maxAttempts int, initialDelay time.Duration, log logger.Logger) error {
	var err error
	delay := initialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = dep.Ping(ctx); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		log.Warn(fmt.Sprintf("%s connection failed, retrying...", dep.Name()), map[string]interface{}{
			"error":       err.Error(),
			"attempt":     attempt,
			"maxAttempts": maxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s connection cancelled: %w", dep.Name(), ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s connection failed after %d attempts: %w", dep.Name(), maxAttempts, err)
}
