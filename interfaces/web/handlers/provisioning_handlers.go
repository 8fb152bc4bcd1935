package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spprovision/application"
	"spprovision/domain/contracts"
	"spprovision/domain/provisioning"
	"spprovision/infrastructure/templates"
	"spprovision/interfaces/web/presenters"
	pages "spprovision/interfaces/web/templates"
	"spprovision/logging"
)

// MaxTemplateBytes bounds the size of an uploaded template.
const MaxTemplateBytes = 4 << 20

// ProvisioningHandlers handles template submission and run history endpoints.
type ProvisioningHandlers struct {
	service      application.ProvisioningService
	presenter    *presenters.RunPresenter
	siteURL      string
	historyLimit int
	logger       *logging.Logger
}

// NewProvisioningHandlers creates provisioning handlers. historyLimit is the
// default page size of run listings.
func NewProvisioningHandlers(
	service application.ProvisioningService,
	presenter *presenters.RunPresenter,
	siteURL string,
	historyLimit int,
) *ProvisioningHandlers {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &ProvisioningHandlers{
		service:      service,
		presenter:    presenter,
		siteURL:      siteURL,
		historyLimit: historyLimit,
		logger:       logging.Default().WithComponent("provisioning_handler"),
	}
}

// readTemplate decodes the request body as a template in the Content-Type's format.
// The optional ?name= query parameter names templates that carry no Name.
func (h *ProvisioningHandlers) readTemplate(w http.ResponseWriter, r *http.Request) (*provisioning.Schema, error) {
	format, err := templates.FormatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	schema, err := templates.Read(http.MaxBytesReader(w, r.Body, MaxTemplateBytes), format)
	if err != nil {
		return nil, err
	}
	if schema.Name == "" {
		schema.Name = r.URL.Query().Get("name")
	}
	return schema, nil
}

// Provision runs a submitted template and returns the recorded run.
func (h *ProvisioningHandlers) Provision(w http.ResponseWriter, r *http.Request) {
	schema, err := h.readTemplate(w, r)
	if err != nil {
		h.logger.Warn("Rejected template", "error", err)
		writeJSON(w, http.StatusBadRequest, h.presenter.FormatError(err))
		return
	}

	run, err := h.service.Provision(r.Context(), schema)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, h.presenter.FormatRun(run))
	case errors.Is(err, provisioning.ErrInvalidSchema):
		writeJSON(w, http.StatusBadRequest, h.presenter.FormatError(err))
	case run != nil:
		h.logger.Error("Provisioning run failed", "run_id", run.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, h.presenter.FormatRun(run))
	default:
		h.logger.Error("Failed to start provisioning run", "error", err)
		writeJSON(w, http.StatusInternalServerError, h.presenter.FormatError(err))
	}
}

// Validate checks a submitted template without provisioning it.
func (h *ProvisioningHandlers) Validate(w http.ResponseWriter, r *http.Request) {
	schema, err := h.readTemplate(w, r)
	if err == nil {
		err = h.service.Validate(schema)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, h.presenter.FormatError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRuns returns recent runs, newest first, as JSON or as an HTML fragment.
func (h *ProvisioningHandlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", h.historyLimit)
	if !ok {
		writeJSON(w, http.StatusBadRequest, presenters.ErrorView{Error: "limit must be a positive integer"})
		return
	}

	list, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, h.presenter.FormatError(err))
		return
	}
	view := h.presenter.FormatRunList(list)
	if WantsHTML(r) {
		RenderResponse(r.Context(), w, r, pages.RunList(view))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetRun returns a single run.
func (h *ProvisioningHandlers) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		http.Error(w, "missing run ID", http.StatusBadRequest)
		return
	}

	run, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, presenters.ErrorView{Error: "run not found"})
			return
		}
		h.logger.Error("Failed to load run", "run_id", runID, "error", err)
		writeJSON(w, http.StatusInternalServerError, h.presenter.FormatError(err))
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.FormatRun(run))
}

// History renders the run history page.
func (h *ProvisioningHandlers) History(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListRuns(r.Context(), h.historyLimit)
	if err != nil {
		h.logger.Error("Failed to list runs", "error", err)
		http.Error(w, "failed to load runs", http.StatusInternalServerError)
		return
	}
	RenderResponse(r.Context(), w, r, pages.RunHistoryPage(h.siteURL, h.presenter.FormatRunList(list)))
}

// Routes mounts the provisioning endpoints on r.
func (h *ProvisioningHandlers) Routes(r chi.Router) {
	r.Get("/", h.History)
	r.Route("/api", func(r chi.Router) {
		r.Post("/provision", h.Provision)
		r.Post("/validate", h.Validate)
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{runID}", h.GetRun)
	})
}
