package complete_bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/consult-booking/internal/domain"
)

// UseCase завершает подтвержденные бронирования, время которых прошло
type UseCase struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	grace        time.Duration
	timeout      time.Duration
	logger       Logger
}

// NewUseCase создает use case. grace - сколько ждать после окончания консультации.
func NewUseCase(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metrics Metrics,
	grace time.Duration,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		grace:        grace,
		timeout:      time.Minute,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute завершает бронирования, закончившиеся не позже now - grace.
// Возвращает число завершенных.
func (uc *UseCase) Execute(ctx context.Context) (int, error) {
	cutoff := uc.timeProvider.Now().Add(-uc.grace)

	completed, err := uc.bookingRepo.CompleteExpired(ctx, cutoff)
	if err != nil {
		if ctxErr := domain.ContextError(ctx); ctxErr != nil {
			return 0, ctxErr
		}
		uc.logger.Error("CompleteBookings: failed to complete bookings ended before %s: %v",
			cutoff.UTC().Format(time.RFC3339), err)
		return 0, fmt.Errorf("%w: complete expired: %w", domain.ErrInternal, err)
	}

	if len(completed) == 0 {
		return 0, nil
	}

	uc.metrics.AddAutoCompleted(len(completed))
	uc.logger.Info("CompleteBookings: completed %d bookings ended before %s",
		len(completed), cutoff.UTC().Format(time.RFC3339))

	if uc.publisher != nil {
		now := uc.timeProvider.Now()
		for _, b := range completed {
			event := domain.NewBookingEvent(domain.EventBookingCompleted, b, now)
			if err := uc.publisher.Publish(ctx, event); err != nil {
				uc.logger.Warn("CompleteBookings: failed to publish completion of booking id=%d: %v", b.ID, err)
			}
		}
	}

	return len(completed), nil
}

// Schedule регистрирует периодический запуск в планировщике
func (uc *UseCase) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), uc.timeout)
		defer cancel()
		if _, err := uc.Execute(ctx); err != nil {
			uc.logger.Warn("CompleteBookings: sweep failed: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("complete_bookings: invalid schedule %q: %w", spec, err)
	}
	return id, nil
}
