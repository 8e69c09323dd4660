package transition_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
)

const op = "PATCH /bookings/{id}/{action}"

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

// Handle PATCH /api/v1/bookings/{bookingId}/{action}
// action: confirm | cancel | complete | delay
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

	var req TransitionBookingRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeAndValidate(r, &req); err != nil {
			handlers.RespondServiceError(w, r, h.logger, op, err)
			return
		}
	}

	action := domain.BookingAction(mux.Vars(r)["action"])
	booking, err := h.service.Transition(r.Context(), identity, &models.TransitionRequest{
		BookingID: bookingID,
		Action:    action,
		Reason:    req.Reason,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - booking_id=%d, action=%s, status=%s, user_id=%d",
		op, bookingID, action, booking.Status, identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
