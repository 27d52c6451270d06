package users

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/job-broker/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) List(ctx context.Context) ([]Summary, error) {
	summaries, err := repository.QueryMany(ctx, r.db, listQuery, nil, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return summaries, nil
}

func (r *repo) Find(ctx context.Context, user string) (*Summary, error) {
	sum, err := repository.QueryOne(ctx, r.db, findQuery, []any{user}, scanSummary)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &sum, nil
}
