// Package infrastructure assembles the shared systems every module depends on:
// lifecycle, logging, database, blob storage and the clock.
package infrastructure

import (
	"fmt"
	"log/slog"

	"code.cloudfoundry.org/clock"

	"github.com/JaimeStill/job-broker/internal/config"
	"github.com/JaimeStill/job-broker/internal/migrations"
	"github.com/JaimeStill/job-broker/pkg/database"
	"github.com/JaimeStill/job-broker/pkg/lifecycle"
	"github.com/JaimeStill/job-broker/pkg/logging"
	"github.com/JaimeStill/job-broker/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Clock     clock.Clock
}

// New creates an Infrastructure from the application configuration.
// Systems are initialized but not started; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, migrations.FS, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Clock:     clock.NewClock(),
	}, nil
}

// Start registers the database and storage with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
