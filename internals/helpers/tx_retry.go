package helper

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

const (
	defaultTxMaxAttempts  = 5
	defaultTxBaseDelay    = 10 * time.Millisecond
	defaultTxJitterFactor = 0.3
)

var (
	// ErrRetryTx dikembalikan callback saat compare-and-swap kalah balapan.
	ErrRetryTx = errors.New("transaction lost a race, retry")

	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

type txConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	label        string
}

type TxOption func(*txConfig) error

func WithMaxAttempts(n int) TxOption {
	return func(c *txConfig) error {
		if n <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = n
		return nil
	}
}

// WithBaseDelay: jeda aktual baseDelay, baseDelay*2, baseDelay*4, ...
func WithBaseDelay(d time.Duration) TxOption {
	return func(c *txConfig) error {
		if d < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = d
		return nil
	}
}

func WithJitterFactor(f float64) TxOption {
	return func(c *txConfig) error {
		if f < 0.0 || f > 1.0 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = f
		return nil
	}
}

// WithLabel memberi nama transaksi untuk log retry.
func WithLabel(label string) TxOption {
	return func(c *txConfig) error {
		c.label = label
		return nil
	}
}

// IsRetryable: hanya konflik konkurensi yang diulang, error lain langsung gagal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrRetryTx) || IsSerializationFailure(err)
}

// RunInTx menjalankan fn dalam satu transaksi, diulang dengan exponential backoff + jitter
// selama errornya retryable. Retry habis dengan ErrRetryTx -> tetap dikembalikan ke pemanggil.
func RunInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error, opts ...TxOption) error {
	cfg := &txConfig{
		maxAttempts:  defaultTxMaxAttempts,
		baseDelay:    defaultTxBaseDelay,
		jitterFactor: defaultTxJitterFactor,
		label:        "tx",
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * cfg.jitterFactor //nolint:gosec // jitter only
			select {
			case <-time.After(delay + time.Duration(jitter)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = db.WithContext(ctx).Transaction(fn)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt < cfg.maxAttempts-1 {
			log.Printf("[TX] %s retry #%d: %v", cfg.label, attempt+1, lastErr)
		}
	}
	return lastErr
}
