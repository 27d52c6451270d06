package runner

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config controls how an agent reaches the broker and runs jobs.
type Config struct {
	SchedulerIP   string
	SchedulerPort int
	BasePath      string
	ID            string
	Workers       int

	// PollInterval is the wait after an empty poll. Zero drains: the agent
	// exits once the queue is empty and all work has finished.
	PollInterval time.Duration

	Shell string
}

// Finalize applies defaults and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// BaseURL returns the broker API root, e.g. http://localhost:8080/api.
func (c *Config) BaseURL() string {
	host := net.JoinHostPort(c.SchedulerIP, strconv.Itoa(c.SchedulerPort))
	return "http://" + host + c.BasePath
}

func (c *Config) loadDefaults() {
	if c.SchedulerIP == "" {
		c.SchedulerIP = "localhost"
	}
	if c.SchedulerPort == 0 {
		c.SchedulerPort = 8080
	}
	if c.ID == "" {
		c.ID = DefaultID()
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Shell == "" {
		c.Shell = "/bin/sh"
	}
	c.BasePath = strings.TrimSuffix(c.BasePath, "/")
}

func (c *Config) validate() error {
	if c.SchedulerPort < 1 || c.SchedulerPort > 65535 {
		return fmt.Errorf("invalid scheduler port: %d", c.SchedulerPort)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative")
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base path %q must start with /", c.BasePath)
	}
	return nil
}

// DefaultID returns the hostname joined with a random suffix.
func DefaultID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "runner"
	}
	return host + "-" + uuid.NewString()[:8]
}
