package main

import (
	"github.com/JaimeStill/job-broker/internal/infrastructure"
	"github.com/JaimeStill/job-broker/pkg/middleware"
)

// buildMiddleware wraps the router: canonical GET paths first, then request logging.
func buildMiddleware(infra *infrastructure.Infrastructure) middleware.System {
	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.Logger(infra.Logger.With("system", "http")))
	return mw
}
