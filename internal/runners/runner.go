// Package runners tracks the agents that poll the broker for jobs and exposes
// the endpoints they poll.
package runners

import "github.com/JaimeStill/job-broker/internal/jobs"

// Header carries the runner identifier on every runner request.
const Header = "X-Runner-ID"

// Runner is the presence record of a polling agent.
type Runner struct {
	ID         string         `json:"id"`
	Address    string         `json:"address"`
	LastSeen   jobs.Timestamp `json:"last_seen"`
	CurrentJob *int64         `json:"current_job,omitempty"`
	Completed  int            `json:"completed"`
	Failed     int            `json:"failed"`
	Active     bool           `json:"active"`
}

// UpdateCommand is the body of a job status report. An identifier that names
// no job, including zero or a negative value, is reported as not found.
type UpdateCommand struct {
	ID     *int64       `json:"identifier"`
	Status *jobs.Status `json:"status"`
}
