package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/domain"
)

// Pinger проверка доступности базы
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Response HTTP response model
type Response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Handler struct {
	db      Pinger
	timeout time.Duration
	logger  Logger
}

func NewHandler(db Pinger, logger Logger) *Handler {
	return &Handler{db: db, timeout: 2 * time.Second, logger: logger}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("GET /health - database ping failed: %v", err)
		handlers.RespondError(w, r, http.StatusServiceUnavailable, domain.CodeInternal, "database unavailable")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{Status: "ok", Database: "ok"})
}
