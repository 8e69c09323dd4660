package update_service

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

const op = "PATCH /consultants/{id}/services/{serviceId}"

// UpdateServiceRequest HTTP request model; nil поля не меняются
type UpdateServiceRequest struct {
	CustomDescription *string `json:"customDescription,omitempty" validate:"omitempty,max=2000"`
	IsActive          *bool   `json:"isActive,omitempty"`
}

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

// Handle PATCH /api/v1/consultants/{consultantId}/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := handlers.PathInt64(r, "consultantId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, r, "authentication required")
		return
	}

	var req UpdateServiceRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	service, err := h.service.UpdateConsultantService(r.Context(), identity, &models.UpdateServiceRequest{
		ConsultantID:      consultantID,
		ServiceID:         serviceID,
		CustomDescription: req.CustomDescription,
		IsActive:          req.IsActive,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, service)
}
