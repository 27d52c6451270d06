package runner_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/internal/runner"
)

type fakeBroker struct {
	mu       sync.Mutex
	queue    []*jobs.Job
	polls    int
	failPoll bool
	updates  map[int64][]jobs.Status
	logs     map[int64]string
}

func newFakeBroker(commands ...string) *fakeBroker {
	b := &fakeBroker{updates: map[int64][]jobs.Status{}, logs: map[int64]string{}}
	for i, c := range commands {
		b.queue = append(b.queue, &jobs.Job{ID: int64(i + 1), Command: c})
	}
	return b
}

func (b *fakeBroker) NextJob(context.Context) (*jobs.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls++
	if b.failPoll {
		b.failPoll = false
		return nil, errors.New("connection refused")
	}
	if len(b.queue) == 0 {
		return nil, nil
	}
	j := b.queue[0]
	b.queue = b.queue[1:]
	return j, nil
}

func (b *fakeBroker) UpdateStatus(_ context.Context, id int64, status jobs.Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates[id] = append(b.updates[id], status)
	return nil
}

func (b *fakeBroker) UploadLog(_ context.Context, id int64, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logs[id] = string(data)
	return nil
}

func (b *fakeBroker) pollCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polls
}

// scriptExecutor treats "ok" as success, "fail" as exit 1 and "block" as a
// command that runs until cancelled.
type scriptExecutor struct{}

func (scriptExecutor) Execute(ctx context.Context, command string, out io.Writer) (int, error) {
	fmt.Fprintf(out, "ran %s\n", command)
	switch command {
	case "ok":
		return 0, nil
	case "fail":
		return 1, nil
	case "block":
		<-ctx.Done()
		return -1, ctx.Err()
	}
	return 127, nil
}

func newAgent(t *testing.T, b runner.Broker, workers int, poll time.Duration) (*runner.Agent, *fakeclock.FakeClock) {
	t.Helper()
	clk := fakeclock.NewFakeClock(time.Unix(1700000000, 0))
	a, err := runner.New(b, scriptExecutor{}, clk, workers, poll, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, clk
}

func TestAgent_DrainMode(t *testing.T) {
	b := newFakeBroker("ok", "fail", "ok")
	a, _ := newAgent(t, b, 2, 0)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[int64][]jobs.Status{
		1: {jobs.StatusRunning, jobs.StatusDone},
		2: {jobs.StatusRunning, jobs.StatusTerminated},
		3: {jobs.StatusRunning, jobs.StatusDone},
	}
	for id, statuses := range want {
		if !slices.Equal(b.updates[id], statuses) {
			t.Errorf("job %d updates = %v, want %v", id, b.updates[id], statuses)
		}
		if b.logs[id] == "" {
			t.Errorf("job %d has no uploaded log", id)
		}
	}
	if b.logs[2] != "ran fail\n" {
		t.Errorf("job 2 log = %q, want %q", b.logs[2], "ran fail\n")
	}
}

func TestAgent_DrainModeEmptyQueue(t *testing.T) {
	b := newFakeBroker()
	a, _ := newAgent(t, b, 1, 0)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if b.pollCount() != 1 {
		t.Errorf("polls = %d, want 1", b.pollCount())
	}
}

func TestAgent_PollFailureTreatedAsEmpty(t *testing.T) {
	b := newFakeBroker("ok")
	b.failPoll = true
	a, clk := newAgent(t, b, 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	clk.WaitForWatcherAndIncrement(time.Second)

	waitFor(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.updates[1]) == 2
	})

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !slices.Equal(b.updates[1], []jobs.Status{jobs.StatusRunning, jobs.StatusDone}) {
		t.Errorf("updates = %v, want RUNNING, DONE", b.updates[1])
	}
}

func TestAgent_CancelTerminatesRunningJobs(t *testing.T) {
	b := newFakeBroker("block")
	a, _ := newAgent(t, b, 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	waitFor(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.updates[1]) == 1
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if !slices.Equal(b.updates[1], []jobs.Status{jobs.StatusRunning, jobs.StatusTerminated}) {
		t.Errorf("updates = %v, want RUNNING, TERMINATED", b.updates[1])
	}
	if b.logs[1] == "" {
		t.Error("log should be uploaded for a cancelled job")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
