package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockConsultant(ctx context.Context, consultantID int64) error
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListBlocking(ctx context.Context, consultantID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetConsultantServiceByID(ctx context.Context, id int64) (*domain.ConsultantService, error)
	GetDurationOptionByID(ctx context.Context, id int64) (*domain.DurationOption, error)
	GetActivePrice(ctx context.Context, consultantServiceID, durationOptionID int64) (*domain.ServicePrice, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListActiveWindows(ctx context.Context, consultantID int64, dayOfWeek *time.Weekday) ([]*domain.AvailabilityWindow, error)
	ListBlocked(ctx context.Context, consultantID int64, from, to time.Time) ([]*domain.BlockedInterval, error)
}

// EventPublisher публикует события об изменении бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Metrics метрики операций с бронированиями
type Metrics interface {
	ObserveBooking(operation, outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

func (nopMetrics) ObserveBooking(string, string) {}
