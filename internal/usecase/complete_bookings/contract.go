package complete_bookings

import (
	"context"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CompleteExpired(ctx context.Context, endedBefore time.Time) ([]*domain.Booking, error)
}

// EventPublisher публикует события об изменении бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Metrics счетчик автоматически завершенных бронирований
type Metrics interface {
	AddAutoCompleted(n int)
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

func (nopMetrics) AddAutoCompleted(int) {}
