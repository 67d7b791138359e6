package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hirelane/hirelane/pkg/eventbus"
	"github.com/hirelane/hirelane/pkg/metrics"
	"github.com/hirelane/hirelane/pkg/notification"
	"github.com/hirelane/hirelane/pkg/otelhelper"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/registry"
	"github.com/hirelane/hirelane/pkg/workflow"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

// Stack is the process wide infrastructure both binaries are built on.
type Stack struct {
	Logger        *slog.Logger
	Persistence   persistence.Persistence
	EventBus      eventbus.EventBus
	EventBusType  string
	Metrics       *metrics.Metrics
	Tracer        trace.Tracer
	Notifications *notification.Dispatcher
	Registry      *registry.Registry
	Engine        *workflow.Engine

	closers []func(context.Context) error
}

// NewStack builds every shared component from the CommonFlags values.
// With dispatchOverBus and a Kafka bus, triggered workflows are published for
// the workers instead of running in this process.
func NewStack(
	ctx context.Context,
	command *cli.Command,
	serviceName string,
	logger *slog.Logger,
	dispatchOverBus bool,
) (*Stack, error) {
	s := &Stack{Logger: logger, EventBusType: command.String("event-bus"), Metrics: metrics.New()}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName, command.Bool("otel-enabled"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	s.Tracer = tracer
	s.closers = append(s.closers, shutdown)

	s.Persistence, err = NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.closers = append(s.closers, s.Persistence.Close)

	s.EventBus, err = NewEventBus(s.EventBusType, command.String("kafka-brokers"), serviceName, logger)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.closers = append(s.closers, func(context.Context) error { return s.EventBus.Close() })

	lock, closeLock, err := NewLocker(ctx, command.String("redis-url"), logger)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.closers = append(s.closers, func(context.Context) error { return closeLock() })

	defaults, err := loadNotificationDefaults(command.String("notification-defaults"))
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	sender := NewMailer(
		command.String("email-api-url"),
		command.String("email-api-key"),
		command.Float("email-rate-limit"),
		1,
		logger,
	)

	s.Notifications = notification.NewDispatcher(
		s.Persistence.NotificationRepository(),
		s.Persistence.MembershipRepository(),
		sender,
		logger,
		notification.WithDefaults(defaults),
		notification.WithMetrics(s.Metrics),
		notification.WithTracer(tracer),
	)

	s.Registry = NewRegistry(logger, s.Persistence, sender, command.String("email-from"), s.Notifications)

	opts := []workflow.Option{
		workflow.WithLocker(lock),
		workflow.WithPublisher(s.EventBus),
		workflow.WithMetrics(s.Metrics),
		workflow.WithTracer(tracer),
	}

	if dispatchOverBus && s.EventBusType == "kafka" {
		logger.InfoContext(ctx, "workflow executions are delegated to workers")

		opts = append(opts, workflow.WithDispatcher(workflow.NewBusDispatcher(s.EventBus, logger)))
	}

	s.Engine = workflow.NewEngine(
		s.Persistence.WorkflowRepository(),
		s.Persistence.ExecutionRepository(),
		s.Registry,
		logger,
		opts...,
	)

	return s, nil
}

// Close waits for in-flight executions and releases resources in reverse order.
func (s *Stack) Close(ctx context.Context) {
	if s.Engine != nil {
		s.Engine.Wait()
	}

	for i := len(s.closers) - 1; i >= 0; i-- {
		err := s.closers[i](ctx)
		if err != nil {
			s.Logger.ErrorContext(ctx, "failed to close resource", "error", err)
		}
	}
}

func (s *Stack) fail(ctx context.Context, err error) error {
	s.Close(ctx)

	return err
}

func loadNotificationDefaults(path string) (notification.Defaults, error) {
	defaults := notification.BuiltinDefaults()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notification defaults: %w", err)
	}

	overrides, err := notification.ParseDefaults(data)
	if err != nil {
		return nil, err
	}

	if len(overrides) == 0 {
		return nil, errors.New("notification defaults file is empty")
	}

	for code, setting := range overrides {
		defaults[code] = setting
	}

	return defaults, nil
}
