package cmd

import (
	cli "github.com/urfave/cli/v3"
)

const defaultEmailRate = 10

// CommonFlags are shared by the API and the worker.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "database-url",
			Usage:    "Database connection URL for persistence (postgres:// or a directory path)",
			Required: true,
			Sources:  cli.EnvVars("DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus type (gochannel, kafka)",
			Value:   "gochannel",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma separated Kafka brokers",
			Value:   "localhost:9092",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL for the per-application lock; empty keeps the lock in process",
			Sources: cli.EnvVars("REDIS_URL"),
		},
		&cli.StringFlag{
			Name:    "email-api-url",
			Usage:   "Transactional email endpoint; empty logs emails instead of sending them",
			Sources: cli.EnvVars("EMAIL_API_URL"),
		},
		&cli.StringFlag{
			Name:    "email-api-key",
			Usage:   "API key for the email endpoint",
			Sources: cli.EnvVars("EMAIL_API_KEY"),
		},
		&cli.FloatFlag{
			Name:    "email-rate-limit",
			Usage:   "Emails sent per second",
			Value:   defaultEmailRate,
			Sources: cli.EnvVars("EMAIL_RATE_LIMIT"),
		},
		&cli.StringFlag{
			Name:    "email-from",
			Usage:   "Sender address used when an organization has no email provider",
			Value:   "noreply@hirelane.io",
			Sources: cli.EnvVars("EMAIL_FROM"),
		},
		&cli.StringFlag{
			Name:    "notification-defaults",
			Usage:   "YAML file overriding the built-in notification defaults",
			Sources: cli.EnvVars("NOTIFICATION_DEFAULTS"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json)",
			Value:   "text",
			Sources: cli.EnvVars("LOG_FORMAT"),
		},
	}
}
