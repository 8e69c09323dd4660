package create_booking

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
)

const op = "POST /bookings"

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, r, "authentication required")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(identity))
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - booking created: booking_id=%d, client_id=%d, consultant_id=%d",
		op, result.Booking.ID, result.Booking.ClientID, result.Booking.ConsultantID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(result.Booking))
}
