// Package api assembles the JSON API module: jobs, runners and users, plus
// the generated OpenAPI document.
package api

import (
	"net/http"

	"github.com/JaimeStill/job-broker/internal/config"
	"github.com/JaimeStill/job-broker/internal/infrastructure"
	"github.com/JaimeStill/job-broker/pkg/middleware"
	"github.com/JaimeStill/job-broker/pkg/module"
	"github.com/JaimeStill/job-broker/pkg/openapi"
)

// NewModule builds the API module mounted at cfg.API.BasePath. The runner
// registry sweeper is registered with the infrastructure lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, &cfg.Runners)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.Info.Description = cfg.API.OpenAPI.Description
	if cfg.Domain != "" {
		spec.Servers = []*openapi.Server{{URL: cfg.Domain}}
	}

	mux := http.NewServeMux()
	registerRoutes(mux, spec, cfg.API.BasePath, runtime, domain)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	if out := cfg.API.OpenAPI.Output; out != "" {
		if err := openapi.WriteJSON(spec, out); err != nil {
			return nil, err
		}
		runtime.Logger.Info("openapi document written", "path", out)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))

	domain.Runners.Start(runtime.Lifecycle, cfg.Runners.SweepIntervalDuration())

	return m, nil
}
