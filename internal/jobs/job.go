// Package jobs stores shell jobs, their status history and their log files,
// and hands waiting jobs to runners one at a time.
package jobs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Job is a shell command submitted by a user.
type Job struct {
	ID          int64     `json:"identifier"`
	User        string    `json:"user"`
	Description string    `json:"description"`
	Command     string    `json:"command"`
	Status      Status    `json:"status"`
	Runner      *string   `json:"runner,omitempty"`
	Events      []Event   `json:"events"`
	LogFile     *LogFile  `json:"logfile,omitempty"`
	ReceivedAt  Timestamp `json:"received_at"`
}

// Event records a status change.
type Event struct {
	ID        int64     `json:"identifier"`
	Status    Status    `json:"status"`
	Timestamp Timestamp `json:"timestamp"`
}

// LogFile describes the output uploaded for a job.
type LogFile struct {
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size"`
	UploadedAt Timestamp `json:"uploaded_at"`
}

// CreateCommand contains the data required to submit a job.
type CreateCommand struct {
	User        string `json:"user"`
	Description string `json:"description"`
	Command     string `json:"command"`
}

// Validate trims the command fields and requires user and command.
func (c *CreateCommand) Validate() error {
	c.User = strings.TrimSpace(c.User)
	c.Description = strings.TrimSpace(c.Description)
	c.Command = strings.TrimSpace(c.Command)

	if c.User == "" {
		return fmt.Errorf("%w: user required", ErrInvalidJob)
	}
	if c.Command == "" {
		return fmt.Errorf("%w: command required", ErrInvalidJob)
	}
	return nil
}

// StatusUpdate is a runner's report of a job's new status.
type StatusUpdate struct {
	ID     int64  `json:"identifier"`
	Status Status `json:"status"`
}

// Timestamp is a time encoded as float seconds since the Unix epoch.
type Timestamp time.Time

// Time returns t as a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	secs := float64(time.Time(t).UnixMicro()) / 1e6
	return strconv.AppendFloat(nil, secs, 'f', 6, 64), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	sec, frac := math.Modf(f)
	*t = Timestamp(time.Unix(int64(sec), int64(math.Round(frac*1e6))*1e3).UTC())
	return nil
}
