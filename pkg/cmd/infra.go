package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hirelane/hirelane/pkg/locker"
	"github.com/hirelane/hirelane/pkg/mail"
)

// NewLocker returns a Redis lock when redisURL is set and an in-process lock otherwise.
// The returned close function releases the Redis client.
func NewLocker(ctx context.Context, redisURL string, logger *slog.Logger) (locker.Locker, func() error, error) {
	if redisURL == "" {
		logger.InfoContext(ctx, "using in-process application lock")

		return locker.NewMemoryLocker(), func() error { return nil }, nil
	}

	client, err := locker.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return locker.NewRedisLocker(client, locker.DefaultTTL, logger), client.Close, nil
}

// NewMailer returns the HTTP sender when an endpoint is configured and a logging sender otherwise.
func NewMailer(endpoint, apiKey string, perSecond float64, burst int, logger *slog.Logger) mail.Sender {
	if endpoint == "" {
		return mail.NewLogSender(logger)
	}

	return mail.NewHTTPSender(endpoint, apiKey, perSecond, burst, logger)
}
