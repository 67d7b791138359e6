// Package main provides the Hirelane API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/hirelane/hirelane/pkg/access"
	"github.com/hirelane/hirelane/pkg/metrics"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/registry"
	"github.com/hirelane/hirelane/pkg/services"
	"github.com/hirelane/hirelane/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	triggerer   web.Triggerer
	notifier    web.Notifier
	metrics     *metrics.Metrics
	jwtSecret   string
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	triggerer web.Triggerer,
	notifier web.Notifier,
	metrics *metrics.Metrics,
	jwtSecret string,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		triggerer:   triggerer,
		notifier:    notifier,
		metrics:     metrics,
		jwtSecret:   jwtSecret,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(
		services.NewWorkflow(a.persistence, a.registry),
		a.persistence,
		a.registry,
		a.triggerer,
		a.notifier,
		a.validate,
		a.logger,
		access.WithMetrics(a.metrics),
	)

	auth := web.NewAuthenticator(a.jwtSecret, a.persistence.MembershipRepository(), a.logger)
	guard := access.NewGuard(
		a.persistence.MembershipRepository(),
		a.persistence.OrganizationRepository(),
		a.logger,
		access.WithMetrics(a.metrics),
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Hirelane API")
	})

	var metricsHandler http.Handler
	if a.metrics != nil {
		metricsHandler = a.metrics.Handler()
	}

	handlers.Register(app, auth, guard, metricsHandler)

	return app
}

// Start serves until ctx is cancelled, then shuts the server down.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	go func() {
		<-ctx.Done()

		a.logger.Info("Shutting down API server")

		err := app.ShutdownWithContext(context.WithoutCancel(ctx))
		if err != nil {
			a.logger.Error("Failed to shut down API server", "error", err)
		}
	}()

	return app.Listen(":" + strconv.Itoa(port))
}
