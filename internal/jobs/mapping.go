package jobs

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/JaimeStill/job-broker/pkg/query"
	"github.com/JaimeStill/job-broker/pkg/repository"
)

var projection = query.NewProjectionMap("public", "jobs", "j").
	Project("id", "ID").
	Project("user_name", "User").
	Project("description", "Description").
	Project("command", "Command").
	Project("status", "Status").
	Project("runner", "Runner").
	Project("received_at", "ReceivedAt")

var defaultSort = query.SortField{Field: "ID", Descending: true}

const jobColumns = "id, user_name, description, command, status, runner, received_at"

func scanJob(s repository.Scanner) (Job, error) {
	var (
		j        Job
		runner   sql.NullString
		received time.Time
	)
	err := s.Scan(
		&j.ID,
		&j.User,
		&j.Description,
		&j.Command,
		&j.Status,
		&runner,
		&received,
	)
	if runner.Valid {
		j.Runner = &runner.String
	}
	j.ReceivedAt = Timestamp(received)
	j.Events = []Event{}
	return j, err
}

type jobEvent struct {
	jobID int64
	Event
}

func scanEvent(s repository.Scanner) (jobEvent, error) {
	var (
		e  jobEvent
		at time.Time
	)
	err := s.Scan(&e.jobID, &e.ID, &e.Status, &at)
	e.Timestamp = Timestamp(at)
	return e, err
}

type jobLog struct {
	jobID int64
	LogFile
}

func scanLog(s repository.Scanner) (jobLog, error) {
	var (
		l  jobLog
		at time.Time
	)
	err := s.Scan(&l.jobID, &l.Filename, &l.SizeBytes, &at)
	l.UploadedAt = Timestamp(at)
	return l, err
}

// Filters contains optional criteria for filtering job queries.
type Filters struct {
	User   *string
	Status *Status
}

// FiltersFromQuery extracts job filters from URL query parameters.
// An unparseable status is reported as ErrInvalidStatus.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if u := values.Get("user"); u != "" {
		f.User = &u
	}

	if s := values.Get("status"); s != "" {
		st, err := ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}

	return f, nil
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.User != nil {
		b.WhereEquals("User", *f.User)
	}
	if f.Status != nil {
		b.WhereEquals("Status", int(*f.Status))
	}
	return b
}
