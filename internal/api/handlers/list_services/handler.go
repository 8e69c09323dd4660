package list_services

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/domain"
)

const op = "GET /consultants/{id}/services"

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

// Handle GET /api/v1/consultants/{consultantId}/services
// Query params: includeInactive (только для владельца и администратора)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := handlers.PathInt64(r, "consultantId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	// Маршрут публичный, identity есть только при переданном токене
	var identity *domain.Identity
	if id, ok := middleware.GetIdentity(r.Context()); ok {
		identity = &id
	}

	services, err := h.service.ListServices(r.Context(), identity, consultantID, includeInactive)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, services)
}
