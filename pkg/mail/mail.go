// Package mail delivers rendered emails through an HTTP email API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

var (
	ErrMissingRecipient = errors.New("email recipient is required")
	ErrDeliveryRejected = errors.New("email provider rejected the message")
)

// Message is one outgoing email.
type Message struct {
	OrganizationID string `json:"-"`
	Provider       string `json:"provider,omitempty"`
	From           string `json:"from"`
	FromName       string `json:"from_name,omitempty"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPSender posts messages as JSON to an email API, throttled by a token bucket.
type HTTPSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewHTTPSender creates a sender allowing perSecond messages with the given burst.
// A non-positive perSecond disables throttling.
func NewHTTPSender(endpoint, apiKey string, perSecond float64, burst int, logger *slog.Logger) *HTTPSender {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	if burst < 1 {
		burst = 1
	}

	return &HTTPSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger.With("module", "mail_http_sender"),
	}
}

// Send waits for a rate limit token and posts the message.
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrMissingRecipient
	}

	err := s.limiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("email rate limit wait: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return fmt.Errorf("%w: status %d: %s", ErrDeliveryRejected, resp.StatusCode, bytes.TrimSpace(body))
	}

	s.logger.DebugContext(ctx, "email sent", "organization_id", msg.OrganizationID, "status", resp.StatusCode)

	return nil
}

// LogSender only logs messages. Used when no email API is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "mail_log_sender")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrMissingRecipient
	}

	s.logger.InfoContext(ctx, "email not delivered, no email API configured",
		"organization_id", msg.OrganizationID,
		"to", msg.To,
		"subject", msg.Subject,
	)

	return nil
}
