package upsert_template

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
)

const op = "POST /templates"

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

// Handle POST /api/v1/templates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, r, "authentication required")
		return
	}

	var req UpsertTemplateRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	template, err := h.service.UpsertTemplate(r.Context(), identity, req.ToServiceRequest())
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, template)
}
