package list_blocked

import (
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
)

const op = "GET /consultants/{id}/blocked"

// Диапазон по умолчанию, если from/to не переданы
const defaultRange = 30 * 24 * time.Hour

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

// Handle GET /api/v1/consultants/{consultantId}/blocked
// Query params: from, to (RFC3339, опционально; по умолчанию ближайшие 30 дней)
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

	from := time.Now().UTC()
	if from, err = instantParam(r, "from", from); err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}
	to, err := instantParam(r, "to", from.Add(defaultRange))
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	blocked, err := h.service.ListBlocked(r.Context(), identity, &models.ListBlockedRequest{
		ConsultantID: consultantID,
		From:         from,
		To:           to,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, blocked)
}

func instantParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s %q, expected RFC3339", domain.ErrInvalidInput, name, raw)
	}
	return t, nil
}
