package api

import (
	"github.com/JaimeStill/job-broker/internal/config"
	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/internal/runners"
	"github.com/JaimeStill/job-broker/internal/users"
)

// Domain holds the systems behind the API.
type Domain struct {
	Jobs    jobs.System
	Users   users.System
	Runners *runners.Registry
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.RunnersConfig) *Domain {
	jobsSys := jobs.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Clock,
		runtime.Logger,
		runtime.Pagination,
	)

	usersSys := users.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	registry := runners.NewRegistry(
		runtime.Clock,
		cfg.TTLDuration(),
		cfg.PruneAfterDuration(),
		runtime.Logger,
	)

	return &Domain{
		Jobs:    jobsSys,
		Users:   usersSys,
		Runners: registry,
	}
}
