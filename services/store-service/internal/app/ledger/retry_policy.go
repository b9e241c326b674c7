// services/store-service/internal/app/ledger/retry_policy.go

package ledger

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
)

func IsRetryAbleError(err error) bool {
	if err == nil { // No error, no retry needed
		return false
	}
	// A cancelled caller must not be retried behind its back.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return isRetryAbleStorageError(err) || isRetryAbleNetworkError(err) || isRetryAbleSystemError(err)
}

// Stores already translate serialization failures, deadlocks and lost
// connections into ErrTransient.
func isRetryAbleStorageError(err error) bool {
	return errors.Is(err, domainErr.ErrTransient)
}

func isRetryAbleNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) { //that means it's a network error
		if netErr.Timeout() {
			return true
		}
	}
	return false
}

func isRetryAbleSystemError(err error) bool {
	//Connection Refused / Reset
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return false
}

// RetryConfig bounds how often one unit of work is re-run.
type RetryConfig struct {
	MaxAttempts int
	// Backoff grows linearly: attempt n waits n*Backoff.
	Backoff time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, Backoff: 50 * time.Millisecond}
}

// withRetry re-runs fn while it fails with a transient error. Every run is
// a fresh transaction, so nothing from a failed attempt survives.
func (s *Service) withRetry(ctx context.Context, op string, fn func() error) error {
	maxAttempts := s.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if !IsRetryAbleError(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		wait := s.retry.Backoff * time.Duration(attempt)
		log.Warnf("%s: transient failure on attempt %d/%d, retrying in %s: %v", op, attempt, maxAttempts, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%s: giving up after %d attempts: %w", op, maxAttempts, err)
}
