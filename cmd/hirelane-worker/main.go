// Package main runs the Hirelane workflow worker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/hirelane/hirelane/pkg/cmd"
	"github.com/hirelane/hirelane/pkg/log"
	"github.com/hirelane/hirelane/pkg/scheduler"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "hirelane-worker",
		Usage:                 "Execute triggered and scheduled workflows",
		EnableShellCompletion: true,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.BoolFlag{
				Name:    "scheduler",
				Usage:   "Fire time based workflows from this worker",
				Value:   true,
				Sources: cli.EnvVars("SCHEDULER_ENABLED"),
			},
			&cli.DurationFlag{
				Name:    "schedule-reload-interval",
				Usage:   "How often schedules are re-read from storage",
				Value:   scheduler.DefaultReloadInterval,
				Sources: cli.EnvVars("SCHEDULE_RELOAD_INTERVAL"),
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

	workerID := command.String("worker-id")
	if workerID == "" {
		workerID = "worker-" + uuid.NewString()[:8]
	}

	logger := log.WithModule("worker").With("worker_id", workerID)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "Initializing Hirelane worker")

	stack, err := cmd.NewStack(ctx, command, "hirelane-worker", logger, false)
	if err != nil {
		return err
	}
	defer stack.Close(context.WithoutCancel(ctx))

	var schedule Schedule
	if command.Bool("scheduler") {
		schedule = scheduler.New(
			stack.Persistence.WorkflowRepository(),
			stack.Engine,
			logger,
			scheduler.WithReloadInterval(command.Duration("schedule-reload-interval")),
		)
	}

	return NewWorkerManager(workerID, stack.EventBus, stack.Engine, schedule, logger).Start(ctx)
}
