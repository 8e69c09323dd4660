package get_available_slots

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/consult-booking/internal/usecase/get_available_slots"
)

const op = "GET /consultants/{id}/available-slots"

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/available-slots
// Query params: date (YYYY-MM-DD), tz (IANA), durationMinutes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := handlers.PathInt64(r, "consultantId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	duration, err := handlers.QueryInt(r, "durationMinutes", 0)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		ConsultantID:    consultantID,
		Date:            date,
		ClientTimezone:  r.URL.Query().Get("tz"),
		DurationMinutes: duration,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - consultant_id=%d, date=%s, slots_count=%d", op, consultantID, date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
