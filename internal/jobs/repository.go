package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"code.cloudfoundry.org/clock"
	"github.com/JaimeStill/job-broker/pkg/pagination"
	"github.com/JaimeStill/job-broker/pkg/query"
	"github.com/JaimeStill/job-broker/pkg/repository"
	"github.com/JaimeStill/job-broker/pkg/storage"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	clock      clock.Clock
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a job repository backed by Postgres with log blobs in storage.
func New(db *sql.DB, store storage.System, clk clock.Clock, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    store,
		clock:      clk,
		logger:     logger.With("system", "jobs"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Job], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "User", "Description", "Command")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	jobs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanJob)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	if err := r.attach(ctx, r.db, jobs); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(jobs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Job, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("ID", id)

	job, err := repository.QueryOne(ctx, r.db, q, args, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	jobs := []Job{job}
	if err := r.attach(ctx, r.db, jobs); err != nil {
		return nil, err
	}
	return &jobs[0], nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := r.clock.Now().UTC()
	q := `INSERT INTO jobs (user_name, description, command, status, received_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + jobColumns

	job, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Job, error) {
		job, err := repository.QueryOne(ctx, tx, q, []any{
			cmd.User, cmd.Description, cmd.Command, int(StatusWaiting), now,
		}, scanJob)
		if err != nil {
			return job, err
		}

		event, err := r.appendEvent(ctx, tx, job.ID, StatusWaiting)
		if err != nil {
			return job, err
		}
		job.Events = append(job.Events, event)
		return job, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("job created", "id", job.ID, "user", job.User)
	return &job, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	filename, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (string, error) {
		var filename sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT filename FROM job_logs WHERE job_id = $1`, id,
		).Scan(&filename)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}

		if err := repository.ExecExpectOne(ctx, tx, `DELETE FROM jobs WHERE id = $1`, id); err != nil {
			return "", err
		}
		return filename.String, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if filename != "" {
		r.removeBlob(ctx, logKey(id, filename))
	}

	r.logger.Info("job deleted", "id", id)
	return nil
}

func (r *repo) Next(ctx context.Context, runner string) (*Job, error) {
	q := `UPDATE jobs SET status = $1, runner = $2
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = $3
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	job, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Job, error) {
		job, err := repository.QueryOne(ctx, tx, q, []any{
			int(StatusRunning), runner, int(StatusWaiting),
		}, scanJob)
		if err != nil {
			return job, err
		}

		if _, err := r.appendEvent(ctx, tx, job.ID, StatusRunning); err != nil {
			return job, err
		}

		jobs := []Job{job}
		if err := r.attach(ctx, tx, jobs); err != nil {
			return job, err
		}
		return jobs[0], nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrQueueEmpty, ErrDuplicate)
	}

	r.logger.Info("job claimed", "id", job.ID, "runner", runner)
	return &job, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, int(status))
	}

	changed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		var current Status
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, id,
		).Scan(&current)
		if err != nil {
			return false, err
		}
		if current == status {
			return false, nil
		}

		if err := repository.ExecExpectOne(ctx, tx,
			`UPDATE jobs SET status = $1 WHERE id = $2`, int(status), id,
		); err != nil {
			return false, err
		}

		_, err = r.appendEvent(ctx, tx, id, status)
		return err == nil, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if changed {
		r.logger.Info("job status updated", "id", id, "status", status)
	}
	return nil
}

func (r *repo) AttachLog(ctx context.Context, id int64, data []byte) (*LogFile, error) {
	filename := newLogFilename()
	key := logKey(id, filename)

	if err := r.storage.Store(ctx, key, data); err != nil {
		return nil, fmt.Errorf("store log: %w", err)
	}

	q := `INSERT INTO job_logs (job_id, filename, size_bytes, uploaded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_id) DO UPDATE
		SET filename = EXCLUDED.filename,
			size_bytes = EXCLUDED.size_bytes,
			uploaded_at = EXCLUDED.uploaded_at
		RETURNING job_id, filename, size_bytes, uploaded_at`

	type result struct {
		log      jobLog
		previous string
	}

	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (result, error) {
		var res result

		var exists int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, id,
		).Scan(&exists); err != nil {
			return res, err
		}

		var previous sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT filename FROM job_logs WHERE job_id = $1`, id,
		).Scan(&previous)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return res, err
		}
		res.previous = previous.String

		res.log, err = repository.QueryOne(ctx, tx, q, []any{
			id, filename, int64(len(data)), r.clock.Now().UTC(),
		}, scanLog)
		return res, err
	})

	if err != nil {
		r.removeBlob(ctx, key)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if res.previous != "" && res.previous != filename {
		r.removeBlob(ctx, logKey(id, res.previous))
	}

	r.logger.Info("job log attached", "id", id, "filename", filename, "size", len(data))
	return &res.log.LogFile, nil
}

func (r *repo) Log(ctx context.Context, id int64) ([]byte, *LogFile, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, nil, err
	}

	log, err := repository.QueryOne(ctx, r.db,
		`SELECT job_id, filename, size_bytes, uploaded_at FROM job_logs WHERE job_id = $1`,
		[]any{id}, scanLog,
	)
	if err != nil {
		return nil, nil, repository.MapError(err, ErrLogNotFound, ErrDuplicate)
	}

	data, err := r.storage.Retrieve(ctx, logKey(id, log.Filename))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrLogNotFound
		}
		return nil, nil, fmt.Errorf("retrieve log: %w", err)
	}

	return data, &log.LogFile, nil
}

func (r *repo) appendEvent(ctx context.Context, tx *sql.Tx, jobID int64, status Status) (Event, error) {
	e, err := repository.QueryOne(ctx, tx,
		`INSERT INTO job_events (job_id, status, occurred_at) VALUES ($1, $2, $3)
		RETURNING job_id, id, status, occurred_at`,
		[]any{jobID, int(status), r.clock.Now().UTC()},
		scanEvent,
	)
	return e.Event, err
}

// attach loads events and log metadata for jobs in two queries.
func (r *repo) attach(ctx context.Context, q repository.Querier, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	ids := make([]int64, len(jobs))
	index := make(map[int64]int, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
		index[j.ID] = i
	}

	events, err := repository.QueryMany(ctx, q,
		`SELECT job_id, id, status, occurred_at FROM job_events
		WHERE job_id = ANY($1) ORDER BY job_id, id`,
		[]any{ids}, scanEvent,
	)
	if err != nil {
		return fmt.Errorf("query job events: %w", err)
	}
	for _, e := range events {
		j := &jobs[index[e.jobID]]
		j.Events = append(j.Events, e.Event)
	}

	logs, err := repository.QueryMany(ctx, q,
		`SELECT job_id, filename, size_bytes, uploaded_at FROM job_logs WHERE job_id = ANY($1)`,
		[]any{ids}, scanLog,
	)
	if err != nil {
		return fmt.Errorf("query job logs: %w", err)
	}
	for _, l := range logs {
		lf := l.LogFile
		jobs[index[l.jobID]].LogFile = &lf
	}

	return nil
}

func (r *repo) removeBlob(ctx context.Context, key string) {
	if err := r.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Error("log cleanup failed", "key", key, "error", err)
	}
}

func newLogFilename() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func logKey(id int64, filename string) string {
	return fmt.Sprintf("logs/%d/%s", id, filename)
}
