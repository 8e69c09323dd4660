package remove_blocked

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
)

type ScheduleService interface {
	RemoveBlocked(ctx context.Context, identity domain.Identity, consultantID, blockedID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
