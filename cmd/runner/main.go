// Command runner polls a job broker, runs the claimed shell commands and
// reports their status and output back.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/JaimeStill/job-broker/internal/runner"
	"github.com/JaimeStill/job-broker/pkg/logging"
)

var loggingEnv = &logging.Env{
	Level:  "RUNNER_LOG_LEVEL",
	Format: "RUNNER_LOG_FORMAT",
}

func main() {
	var (
		cfg    runner.Config
		logCfg logging.Config
		level  string
		format string
	)

	flag.StringVar(&cfg.SchedulerIP, "scheduler-ip", "localhost", "IP address or host of the broker")
	flag.IntVar(&cfg.SchedulerPort, "scheduler-port", 8080, "Port the broker listens on")
	flag.StringVar(&cfg.BasePath, "base-path", "/api", "Base path of the broker API")
	flag.StringVar(&cfg.ID, "id", "", "Runner identifier (default: hostname with a random suffix)")
	flag.IntVar(&cfg.Workers, "workers", 1, "Jobs run concurrently")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", 0, "Wait between polls on an empty queue; 0 exits once the queue is drained")
	flag.StringVar(&cfg.Shell, "shell", "/bin/sh", "Shell used to run commands")
	flag.StringVar(&level, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&format, "log-format", "", "Log format: text or json")
	flag.Parse()

	if err := cfg.Finalize(); err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	logCfg.Level = logging.Level(level)
	logCfg.Format = logging.Format(format)
	if err := logCfg.Finalize(loggingEnv); err != nil {
		log.Fatal("invalid logging configuration: ", err)
	}
	logger := logging.New(&logCfg).With("runner", cfg.ID)

	client := runner.NewClient(cfg.BaseURL(), cfg.ID, &http.Client{Timeout: time.Minute}, logger)
	agent, err := runner.New(client, runner.ShellExecutor{Shell: cfg.Shell}, clock.NewClock(), cfg.Workers, cfg.PollInterval, logger)
	if err != nil {
		log.Fatal("runner init failed: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("runner started", "broker", cfg.BaseURL(), "workers", cfg.Workers, "poll_interval", cfg.PollInterval)
	if err := agent.Run(ctx); err != nil {
		logger.Error("runner stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("runner stopped")
}
