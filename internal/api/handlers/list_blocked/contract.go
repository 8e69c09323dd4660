package list_blocked

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	ListBlocked(ctx context.Context, identity domain.Identity, req *models.ListBlockedRequest) ([]models.BlockedResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
