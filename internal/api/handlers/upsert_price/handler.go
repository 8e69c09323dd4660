package upsert_price

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

const op = "PUT /consultants/{id}/services/{serviceId}/prices/{durationOptionId}"

// UpsertPriceRequest HTTP request model
type UpsertPriceRequest struct {
	Price    decimal.Decimal `json:"price"`
	IsActive *bool           `json:"isActive,omitempty"`
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

// Handle PUT /api/v1/consultants/{consultantId}/services/{serviceId}/prices/{durationOptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var ids [3]int64
	for i, name := range []string{"consultantId", "serviceId", "durationOptionId"} {
		id, err := handlers.PathInt64(r, name)
		if err != nil {
			handlers.RespondServiceError(w, r, h.logger, op, err)
			return
		}
		ids[i] = id
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, r, "authentication required")
		return
	}

	var req UpsertPriceRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	price, err := h.service.UpsertPrice(r.Context(), identity, &models.UpsertPriceRequest{
		ConsultantID:        ids[0],
		ConsultantServiceID: ids[1],
		DurationOptionID:    ids[2],
		Price:               req.Price,
		IsActive:            req.IsActive,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - service_id=%d, option_id=%d, price=%s", op, ids[1], ids[2], price.Price)
	handlers.RespondJSON(w, http.StatusOK, price)
}
