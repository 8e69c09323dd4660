package schedule

import (
	"context"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	LockConsultant(ctx context.Context, consultantID int64) error
	ListActiveWindows(ctx context.Context, consultantID int64, dayOfWeek *time.Weekday) ([]*domain.AvailabilityWindow, error)
	DeactivateWindows(ctx context.Context, consultantID int64) error
	CreateWindow(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	CreateBlocked(ctx context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error)
	DeleteBlocked(ctx context.Context, consultantID, id int64) error
	ListBlocked(ctx context.Context, consultantID int64, from, to time.Time) ([]*domain.BlockedInterval, error)
}

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
