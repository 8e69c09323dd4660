package get_consultant_bookings

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
)

const op = "GET /consultants/{id}/bookings"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/bookings
// Query params: from, to, status, includeInactive (опционально)
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

	serviceReq, err := ToServiceRequest(r, consultantID)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	result, err := h.service.ListConsultantBookings(r.Context(), identity, serviceReq)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - consultant_id=%d, count=%d", op, consultantID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
