package users

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/job-broker/pkg/handlers"
	"github.com/JaimeStill/job-broker/pkg/routes"
)

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "users"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/users",
		Tags:        []string{"Users"},
		Description: "Job counts per submitting user",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{user}", Handler: h.Find, OpenAPI: Spec.Find},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	sum, err := h.sys.Find(r.Context(), r.PathValue("user"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, sum)
}
