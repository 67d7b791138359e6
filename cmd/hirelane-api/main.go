package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hirelane/hirelane/pkg/cmd"
	"github.com/hirelane/hirelane/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

var errMissingJWTSecret = errors.New("jwt secret is required")

func main() {
	command := &cli.Command{
		Name:                  "hirelane-api",
		Usage:                 "Serve the Hirelane ATS API",
		EnableShellCompletion: true,
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				Usage:   "HMAC secret used to verify bearer tokens",
				Sources: cli.EnvVars("JWT_SECRET"),
			},
		}, cmd.CommonFlags()...),
		Action: run,
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule("api")

	if command.String("jwt-secret") == "" {
		return errMissingJWTSecret
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "Initializing Hirelane API")

	stack, err := cmd.NewStack(ctx, command, "hirelane-api", logger, true)
	if err != nil {
		return err
	}
	defer stack.Close(context.WithoutCancel(ctx))

	api := NewAPI(
		logger,
		stack.Persistence,
		stack.Registry,
		stack.Engine,
		stack.Notifications,
		stack.Metrics,
		command.String("jwt-secret"),
	)

	err = api.Start(ctx, command.Int("port"))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to start API server", "error", err)

		return err
	}

	return nil
}
