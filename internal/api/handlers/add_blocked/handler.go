package add_blocked

import (
	"net/http"
	"time"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
)

const op = "POST /consultants/{id}/blocked"

// AddBlockedRequest HTTP request model; моменты в RFC3339 со смещением
type AddBlockedRequest struct {
	StartAt time.Time `json:"startAt" validate:"required"`
	EndAt   time.Time `json:"endAt" validate:"required"`
	Reason  *string   `json:"reason,omitempty" validate:"omitempty,max=255"`
}

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

// Handle POST /api/v1/consultants/{consultantId}/blocked
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

	var req AddBlockedRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	blocked, err := h.service.AddBlocked(r.Context(), identity, &models.AddBlockedRequest{
		ConsultantID: consultantID,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		Reason:       req.Reason,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	h.logger.Info("%s - consultant_id=%d, blocked_id=%d", op, consultantID, blocked.ID)
	handlers.RespondJSON(w, http.StatusCreated, blocked)
}
