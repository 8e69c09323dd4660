package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListActiveWindows(ctx context.Context, consultantID int64, dayOfWeek *time.Weekday) ([]*domain.AvailabilityWindow, error)
	ListBlocked(ctx context.Context, consultantID int64, from, to time.Time) ([]*domain.BlockedInterval, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListBlocking возвращает занимающие время бронирования, пересекающие [from, to)
	ListBlocking(ctx context.Context, consultantID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// Metrics метрики генерации слотов
type Metrics interface {
	ObserveSlotGeneration(d time.Duration, slots int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type nopMetrics struct{}

func (nopMetrics) ObserveSlotGeneration(time.Duration, int) {}
