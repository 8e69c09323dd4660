package get_booking

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
)

const op = "GET /bookings/{id}"

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

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, r, "authentication required")
		return
	}

	// Сервис сам проверит права доступа
	booking, err := h.service.GetByID(r.Context(), identity, bookingID)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}
