package main

import (
	"net/http"

	"github.com/JaimeStill/job-broker/internal/api"
	"github.com/JaimeStill/job-broker/internal/config"
	"github.com/JaimeStill/job-broker/internal/infrastructure"
	"github.com/JaimeStill/job-broker/pkg/module"
	"github.com/JaimeStill/job-broker/web/app"
	"github.com/JaimeStill/job-broker/web/console"
)

type Modules struct {
	API     *module.Module
	App     *module.Module
	Console *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule("/app")
	if err != nil {
		return nil, err
	}

	consoleModule, err := console.NewModule("/console")
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:     apiModule,
		App:     appModule,
		Console: consoleModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Console)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app", http.StatusFound)
	})

	return router
}
