package upsert_duration

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
)

const op = "POST /templates/{id}/durations"

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

// Handle POST /api/v1/templates/{templateId}/durations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathInt64(r, "templateId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, r, "authentication required")
		return
	}

	var req UpsertDurationRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	option, err := h.service.UpsertDurationOption(r.Context(), identity, req.ToServiceRequest(templateID))
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, option)
}
