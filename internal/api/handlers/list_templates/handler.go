package list_templates

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
)

const op = "GET /templates"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/templates
// Query params: activeOnly (по умолчанию true)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if r.URL.Query().Has("activeOnly") {
		v, err := handlers.QueryBool(r, "activeOnly")
		if err != nil {
			handlers.RespondServiceError(w, r, h.logger, op, err)
			return
		}
		activeOnly = v
	}

	templates, err := h.service.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, templates)
}
