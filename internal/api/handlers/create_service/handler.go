package create_service

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

const op = "POST /consultants/{id}/services"

// CreateServiceRequest HTTP request model
type CreateServiceRequest struct {
	TemplateID        int64   `json:"templateId" validate:"required,gt=0"`
	CustomDescription *string `json:"customDescription,omitempty" validate:"omitempty,max=2000"`
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

// Handle POST /api/v1/consultants/{consultantId}/services
// Подключает шаблон; цены создаются неактивными по нижней границе каждого варианта
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := handlers.PathInt64(r, "consultantId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, r, "authentication required")
		return
	}

	var req CreateServiceRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	service, err := h.service.CreateConsultantService(r.Context(), identity, &models.CreateServiceRequest{
		ConsultantID:      consultantID,
		TemplateID:        req.TemplateID,
		CustomDescription: req.CustomDescription,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - consultant_id=%d, service_id=%d", op, consultantID, service.ID)
	handlers.RespondJSON(w, http.StatusCreated, service)
}
