package get_consultant_detail

import (
	"net/http"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	getConsultantDetail "github.com/m04kA/consult-booking/internal/usecase/get_consultant_detail"
)

const op = "GET /consultants/{id}"

type Handler struct {
	useCase GetConsultantDetailUseCase
	logger  Logger
}

func NewHandler(useCase GetConsultantDetailUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}
// Query params: viewerTz, days (0-14), durationMinutes (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := handlers.PathInt64(r, "consultantId")
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	days, err := handlers.QueryInt(r, "days", 0)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}
	duration, err := handlers.QueryInt(r, "durationMinutes", 0)
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getConsultantDetail.Request{
		ConsultantID:    consultantID,
		ViewerTimezone:  r.URL.Query().Get("viewerTz"),
		Days:            days,
		DurationMinutes: duration,
	})
	if err != nil {
		handlers.RespondServiceError(w, r, h.logger, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
