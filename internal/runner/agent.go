// Package runner implements the agent that polls the broker for jobs, runs
// them in a local shell and reports their outcome and output.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/workpool"

	"github.com/JaimeStill/job-broker/internal/jobs"
)

// reportTimeout bounds status and log calls made after the run context ended.
const reportTimeout = 10 * time.Second

// Broker is the subset of the broker API the agent uses.
type Broker interface {
	NextJob(ctx context.Context) (*jobs.Job, error)
	UpdateStatus(ctx context.Context, id int64, status jobs.Status) error
	UploadLog(ctx context.Context, id int64, path string) error
}

// Agent claims jobs and runs up to workers of them at once.
type Agent struct {
	broker       Broker
	executor     Executor
	clock        clock.Clock
	pollInterval time.Duration
	logger       *slog.Logger

	pool  *workpool.WorkPool
	slots chan struct{}
	wg    sync.WaitGroup
}

func New(broker Broker, executor Executor, clk clock.Clock, workers int, pollInterval time.Duration, logger *slog.Logger) (*Agent, error) {
	pool, err := workpool.NewWorkPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create work pool: %w", err)
	}

	return &Agent{
		broker:       broker,
		executor:     executor,
		clock:        clk,
		pollInterval: pollInterval,
		logger:       logger.With("system", "agent"),
		pool:         pool,
		slots:        make(chan struct{}, workers),
	}, nil
}

// Run polls until ctx ends or, in drain mode, until the queue is empty.
// It returns after every submitted job has reported.
func (a *Agent) Run(ctx context.Context) error {
	defer a.pool.Stop()
	defer a.wg.Wait()

	for {
		select {
		case a.slots <- struct{}{}:
		case <-ctx.Done():
			a.logger.Info("stopping", "reason", ctx.Err())
			return nil
		}
		if ctx.Err() != nil {
			<-a.slots
			a.logger.Info("stopping", "reason", ctx.Err())
			return nil
		}

		job, err := a.broker.NextJob(ctx)
		if err != nil {
			if ctx.Err() != nil {
				<-a.slots
				return nil
			}
			a.logger.Warn("job request failed", "error", err)
			job = nil
		}

		if job != nil {
			a.wg.Add(1)
			a.pool.Submit(func() { a.execute(ctx, job) })
			continue
		}

		<-a.slots

		if a.pollInterval == 0 {
			a.wg.Wait()
			a.logger.Info("no jobs available, shutting down")
			return nil
		}

		select {
		case <-a.clock.After(a.pollInterval):
		case <-ctx.Done():
		}
	}
}

func (a *Agent) execute(ctx context.Context, job *jobs.Job) {
	defer a.wg.Done()
	defer func() { <-a.slots }()

	logger := a.logger.With("job", job.ID)
	logger.Info("executing job", "command", job.Command)
	a.report(ctx, job.ID, jobs.StatusRunning)

	status := a.run(ctx, job, logger)

	logger.Info("job finished", "status", status.String())
	a.report(ctx, job.ID, status)
}

// run executes the job with output captured to a temporary file, uploads the
// file and returns the status to report.
func (a *Agent) run(ctx context.Context, job *jobs.Job, logger *slog.Logger) jobs.Status {
	logfile, err := os.CreateTemp("", fmt.Sprintf("job-%d-*.log", job.ID))
	if err != nil {
		logger.Error("create log file failed", "error", err)
		return jobs.StatusTerminated
	}
	defer os.Remove(logfile.Name())

	code, err := a.executor.Execute(ctx, job.Command, logfile)
	logfile.Close()

	status := jobs.StatusDone
	switch {
	case err != nil:
		logger.Warn("command did not complete", "error", err)
		status = jobs.StatusTerminated
	case code != 0:
		logger.Info("command exited with non-zero status", "exit_code", code)
		status = jobs.StatusTerminated
	}

	upCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()
	if err := a.broker.UploadLog(upCtx, job.ID, logfile.Name()); err != nil {
		logger.Error("log upload failed", "error", err)
	}

	return status
}

func (a *Agent) report(ctx context.Context, id int64, status jobs.Status) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	if err := a.broker.UpdateStatus(rctx, id, status); err != nil {
		a.logger.Error("status update failed", "job", id, "status", status.String(), "error", err)
	}
}
