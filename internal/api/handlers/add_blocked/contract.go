package add_blocked

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	AddBlocked(ctx context.Context, identity domain.Identity, req *models.AddBlockedRequest) (*models.BlockedResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
