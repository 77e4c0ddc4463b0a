package explorer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oxbel/ltcpay/internal/config"
)

// WithRetry runs op up to maxAttempts times, retrying only transient
// errors with exponential backoff (baseDelay, 2*baseDelay, 4*baseDelay...).
// An explicit Retry-After carried by the error overrides the backoff for
// that attempt. Non-transient errors and context cancellation return
// immediately.
func WithRetry(ctx context.Context, name string, maxAttempts int, baseDelay time.Duration, op func(context.Context) error) error {
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseDelay << (attempt - 1)
			if retryAfter := config.GetRetryAfter(err); retryAfter > 0 {
				delay = retryAfter
			}

			slog.Debug("retrying operation",
				"operation", name,
				"attempt", attempt+1,
				"maxAttempts", maxAttempts,
				"delay", delay,
			)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s: %w", name, ctx.Err())
			case <-timer.C:
			}
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		if !config.IsTransient(err) {
			return fmt.Errorf("%s: %w", name, err)
		}

		slog.Warn("transient error",
			"operation", name,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return fmt.Errorf("%s: attempts exhausted: %w", name, err)
}

// parseRetryAfter extracts a duration from the Retry-After HTTP response header.
// Supports seconds format (e.g., "30") and HTTP-date format. Returns 0 if the
// header is missing, unparseable, or in the past.
func parseRetryAfter(header http.Header) time.Duration {
	val := header.Get("Retry-After")
	if val == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	slog.Debug("unparseable Retry-After header", "value", val)
	return 0
}
