package set_schedule

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
)

const op = "PUT /consultants/{id}/schedule"

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

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	ConsultantID int64                   `json:"consultantId"`
	Windows      []models.WindowResponse `json:"windows"`
}

// Handle PUT /api/v1/consultants/{consultantId}/schedule
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

	var req SetScheduleRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	windows, err := h.service.SetWeeklySchedule(r.Context(), identity, req.ToServiceRequest(consultantID))
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - consultant_id=%d, windows=%d, user_id=%d", op, consultantID, len(windows), identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, &ScheduleResponse{ConsultantID: consultantID, Windows: windows})
}
