package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the state of a job. The current status is that of its last event.
type Status int

const (
	StatusUnknown Status = iota
	StatusSleeping
	StatusWaiting
	StatusRunning
	StatusTerminated
	StatusDone
)

var statusNames = [...]string{
	StatusUnknown:    "UNKNOWN",
	StatusSleeping:   "SLEEPING",
	StatusWaiting:    "WAITING",
	StatusRunning:    "RUNNING",
	StatusTerminated: "TERMINATED",
	StatusDone:       "DONE",
}

// ParseStatus accepts a status name such as "RUNNING" or its integer value.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if st := Status(n); st.Valid() {
			return st, nil
		}
	}
	return StatusUnknown, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	return s >= StatusUnknown && s <= StatusDone
}

// Active reports whether a job in status s has not finished.
func (s Status) Active() bool {
	return s == StatusSleeping || s == StatusWaiting || s == StatusRunning
}

// Final reports whether s ends a job.
func (s Status) Final() bool {
	return s == StatusDone || s == StatusTerminated
}

func (s Status) String() string {
	if !s.Valid() {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return json.Marshal(statusNames[s])
}

// UnmarshalJSON accepts a status name or an integer in range. Booleans,
// fractions and other types are rejected.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, data)
		}
		for i, n := range statusNames {
			if n == name {
				*s = Status(i)
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrInvalidStatus, name)
	}

	n, err := strconv.Atoi(string(data))
	if err != nil || !Status(n).Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, data)
	}
	*s = Status(n)
	return nil
}
