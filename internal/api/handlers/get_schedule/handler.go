package get_schedule

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
)

const op = "GET /consultants/{id}/schedule"

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/schedule
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

	windows, err := h.service.GetWeeklySchedule(r.Context(), identity, consultantID)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &ScheduleResponse{ConsultantID: consultantID, Windows: windows})
}
