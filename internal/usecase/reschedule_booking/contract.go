package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/usecase/create_booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	LockConsultant(ctx context.Context, consultantID int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	MarkRescheduled(ctx context.Context, id, newBookingID int64) error
}

// Placer размещает новое бронирование по тому же пути, что и создание
type Placer interface {
	Place(ctx context.Context, p create_booking.PlaceParams) (*domain.Booking, error)
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
