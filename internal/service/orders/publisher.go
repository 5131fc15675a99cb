package orders

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/internal/domain"
)

// RetryConfig конфигурация повторной публикации событий.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryingPublisher оборачивает публикатор экспоненциальными повторами.
type RetryingPublisher struct {
	next   domain.StatusEventPublisher
	config RetryConfig
	logger *log.Entry
}

// NewRetryingPublisher создаёт публикатор с повторами.
func NewRetryingPublisher(next domain.StatusEventPublisher, config RetryConfig, logger *log.Entry) *RetryingPublisher {
	if logger == nil {
		logger = log.New().WithField("component", "retrying-publisher")
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if config.BackoffFactor < 1 {
		config.BackoffFactor = 1
	}
	return &RetryingPublisher{next: next, config: config, logger: logger}
}

// PublishStatusChange публикует событие, повторяя попытки до MaxAttempts.
// EventID фиксируется до первой попытки, чтобы повторы были идемпотентны для потребителей.
func (p *RetryingPublisher) PublishStatusChange(ctx context.Context, change domain.StatusChange) error {
	var lastErr error
	delay := p.config.InitialDelay

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		err := p.next.PublishStatusChange(ctx, change)
		if err == nil {
			if attempt > 1 {
				p.logger.WithFields(log.Fields{
					"order_id": change.OrderID,
					"attempt":  attempt,
				}).Info("status change published after retry")
			}
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == p.config.MaxAttempts {
			break
		}

		p.logger.WithFields(log.Fields{
			"order_id": change.OrderID,
			"attempt":  attempt,
			"delay":    delay,
			"error":    err,
		}).Warn("status change publish failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * p.config.BackoffFactor)
		if p.config.MaxDelay > 0 && delay > p.config.MaxDelay {
			delay = p.config.MaxDelay
		}
	}

	return lastErr
}

func shouldRetry(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

var _ domain.StatusEventPublisher = (*RetryingPublisher)(nil)
