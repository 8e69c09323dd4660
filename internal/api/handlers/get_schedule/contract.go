package get_schedule

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWeeklySchedule(ctx context.Context, identity domain.Identity, consultantID int64) ([]models.WindowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
