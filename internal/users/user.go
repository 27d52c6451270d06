// Package users reports per-user job summaries aggregated from the job store.
package users

import "github.com/JaimeStill/job-broker/internal/jobs"

// Summary counts the jobs submitted by one user.
type Summary struct {
	User           string         `json:"user"`
	Total          int            `json:"total"`
	Active         int            `json:"active"`
	Done           int            `json:"done"`
	Terminated     int            `json:"terminated"`
	LastReceivedAt jobs.Timestamp `json:"last_received_at"`
}
