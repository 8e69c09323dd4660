package reschedule_booking

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
)

const op = "POST /bookings/{id}/reschedule"

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reschedule
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

	var req RescheduleBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(identity, bookingID))
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - booking_id=%d rescheduled to booking_id=%d", op, bookingID, result.Booking.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
