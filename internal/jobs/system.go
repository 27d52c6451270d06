package jobs

import (
	"context"

	"github.com/JaimeStill/job-broker/pkg/pagination"
)

// System defines job persistence and queue operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Job], error)
	Find(ctx context.Context, id int64) (*Job, error)
	Create(ctx context.Context, cmd CreateCommand) (*Job, error)
	Delete(ctx context.Context, id int64) error

	// Next claims the oldest waiting job for runner and marks it RUNNING.
	// It returns ErrQueueEmpty when no job is waiting.
	Next(ctx context.Context, runner string) (*Job, error)

	// UpdateStatus appends a status event. Reporting the current status again is a no-op.
	UpdateStatus(ctx context.Context, id int64, status Status) error

	AttachLog(ctx context.Context, id int64, data []byte) (*LogFile, error)
	Log(ctx context.Context, id int64) ([]byte, *LogFile, error)
}
