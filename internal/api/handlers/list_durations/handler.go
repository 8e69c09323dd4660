package list_durations

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
)

const op = "GET /templates/{id}/durations"

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

// Handle GET /api/v1/templates/{templateId}/durations
// Query params: activeOnly (по умолчанию true)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathInt64(r, "templateId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	activeOnly := true
	if r.URL.Query().Has("activeOnly") {
		if activeOnly, err = handlers.QueryBool(r, "activeOnly"); err != nil {
			handlers.RespondServiceError(w, r, h.logger, op, err)
			return
		}
	}

	options, err := h.service.ListDurations(r.Context(), templateID, activeOnly)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, options)
}
