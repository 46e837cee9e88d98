package usecase

import (
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/retry"
	"go.uber.org/zap"
)

type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

// retryOptions logs and counts every failed attempt of op.
func retryOptions(cfg RetryConfig, op string, logger *zap.Logger, m *metrics.MetricsManager) []retry.Option {
	return []retry.Option{
		retry.WithAttempts(cfg.Attempts),
		retry.WithDelay(cfg.Delay),
		retry.WithPermanent(repository.IsPermanent),
		retry.WithNotify(func(attempt int, err error, wait time.Duration) {
			logger.Warn("Attempt failed, retrying",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			if m != nil {
				m.RetryAttemptsTotal.WithLabelValues(op).Inc()
			}
		}),
	}
}

// notFoundIsFinal extends the default classifier so lookups of missing ids are not retried.
func notFoundIsFinal(err error) bool {
	return repository.IsPermanent(err) || errors.Is(err, repository.ErrNotFound)
}
