package api

import (
	"net/http"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/internal/runners"
	"github.com/JaimeStill/job-broker/internal/users"
	"github.com/JaimeStill/job-broker/pkg/openapi"
	"github.com/JaimeStill/job-broker/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, spec *openapi.Spec, basePath string, runtime *Runtime, domain *Domain) {
	jobsHandler := jobs.NewHandler(domain.Jobs, runtime.Logger, runtime.Pagination, runtime.MaxUploadSize)
	runnersHandler := runners.NewHandler(domain.Jobs, domain.Runners, runtime.Logger)
	usersHandler := users.NewHandler(domain.Users, runtime.Logger)

	routes.Register(
		mux,
		basePath,
		spec,
		jobsHandler.Routes(),
		runnersHandler.Routes(),
		usersHandler.Routes(),
	)
}
