package runners

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/pkg/handlers"
	"github.com/JaimeStill/job-broker/pkg/routes"
)

// Handler serves the endpoints runners poll.
type Handler struct {
	jobs     jobs.System
	registry *Registry
	logger   *slog.Logger
}

func NewHandler(sys jobs.System, registry *Registry, logger *slog.Logger) *Handler {
	return &Handler{
		jobs:     sys,
		registry: registry,
		logger:   logger.With("handler", "runners"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/runners",
		Tags:        []string{"Runners"},
		Description: "Job claiming and status reporting for runners",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/available-job", Handler: h.AvailableJob, OpenAPI: Spec.AvailableJob},
			{Method: "PUT", Pattern: "/update-job", Handler: h.UpdateJob, OpenAPI: Spec.UpdateJob},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.registry.List())
}

func (h *Handler) AvailableJob(w http.ResponseWriter, r *http.Request) {
	id, addr := identify(r)

	job, err := h.jobs.Next(r.Context(), id)
	if errors.Is(err, jobs.ErrQueueEmpty) {
		h.registry.Seen(id, addr)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.registry.Assign(id, addr, job.ID)
	h.logger.Info("job claimed", "job", job.ID, "runner", id)
	handlers.RespondJSON(w, http.StatusOK, job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, addr := identify(r)

	cmd, err := handlers.DecodeJSON[UpdateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidUpdate, err))
		return
	}
	if cmd.Status == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: status required", ErrInvalidUpdate))
		return
	}
	if cmd.ID == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: identifier required", ErrInvalidUpdate))
		return
	}

	jobID := *cmd.ID
	if jobID < 1 {
		handlers.RespondError(w, h.logger, http.StatusNotFound, fmt.Errorf("%w: %d", jobs.ErrNotFound, jobID))
		return
	}

	if err := h.jobs.UpdateStatus(r.Context(), jobID, *cmd.Status); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.registry.Report(id, addr, jobID, *cmd.Status)
	h.logger.Info("job updated", "job", jobID, "status", cmd.Status.String(), "runner", id)
	w.WriteHeader(http.StatusNoContent)
}

// identify returns the runner id and address of the request. The id falls
// back to the remote address when the runner sends no Header.
func identify(r *http.Request) (id, addr string) {
	addr = r.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	id = r.Header.Get(Header)
	if id == "" {
		id = addr
	}
	return id, addr
}
