package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/JaimeStill/job-broker/internal/jobs"
)

//go:embed seeds/*.json
var seedFiles embed.FS

func init() {
	registerSeeder(&JobSeeder{})
}

// JobSeed is one sample job. Status is the job's final status after seeding.
type JobSeed struct {
	jobs.CreateCommand
	Status jobs.Status `json:"status"`
}

// JobSeedData is the JSON structure of job seed files.
type JobSeedData struct {
	Jobs []JobSeed `json:"jobs"`
}

// JobSeeder inserts sample jobs with a plausible event history. A job whose
// user and command already exist is skipped.
type JobSeeder struct {
	file string
}

func (s *JobSeeder) Name() string {
	return "jobs"
}

func (s *JobSeeder) Description() string {
	return "Seeds sample jobs with WAITING, RUNNING and final status events"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *JobSeeder) SetFile(path string) {
	s.file = path
}

func (s *JobSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, seed := range data.Jobs {
		if err := seed.Validate(); err != nil {
			return err
		}
		if err := s.saveJob(ctx, tx, seed); err != nil {
			return fmt.Errorf("save job %q for %s: %w", seed.Command, seed.User, err)
		}
	}
	return nil
}

func (s *JobSeeder) loadSeedData() (*JobSeedData, error) {
	var (
		content []byte
		err     error
	)

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/jobs.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data JobSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

func (s *JobSeeder) saveJob(ctx context.Context, tx *sql.Tx, seed JobSeed) error {
	const insertJob = `
		INSERT INTO jobs (user_name, description, command, status, received_at)
		SELECT $1, $2, $3, $4, NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM jobs WHERE user_name = $1 AND command = $3
		)
		RETURNING id`

	var id int64
	err := tx.QueryRowContext(ctx, insertJob, seed.User, seed.Description, seed.Command, seed.Status).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	const insertEvent = `
		INSERT INTO job_events (job_id, status, occurred_at)
		VALUES ($1, $2, NOW())`

	for _, status := range history(seed.Status) {
		if _, err := tx.ExecContext(ctx, insertEvent, id, status); err != nil {
			return err
		}
	}
	return nil
}

// history returns the events leading a fresh job to final.
func history(final jobs.Status) []jobs.Status {
	switch final {
	case jobs.StatusWaiting, jobs.StatusUnknown:
		return []jobs.Status{jobs.StatusWaiting}
	case jobs.StatusRunning:
		return []jobs.Status{jobs.StatusWaiting, jobs.StatusRunning}
	default:
		return []jobs.Status{jobs.StatusWaiting, jobs.StatusRunning, final}
	}
}
