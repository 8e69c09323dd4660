package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	bookingRepo "github.com/m04kA/consult-booking/internal/infra/storage/booking"
	"github.com/m04kA/consult-booking/internal/usecase/create_booking"
	"github.com/m04kA/consult-booking/pkg/txmanager"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	placer       Placer
	publisher    EventPublisher
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	placer Placer,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		placer:       placer,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит бронирование на новое время.
// Исходное бронирование переводится в rescheduled, новое создается в pending
// по текущей активной цене. Обе записи меняются в одной транзакции: при любой
// ошибке исходное бронирование остается нетронутым.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: user=%d, booking=%d, start=%s",
		req.Identity.UserID, req.BookingID, req.StartAt.UTC().Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		uc.metrics.ObserveBooking("reschedule", string(domain.CodeOf(err)))
		return nil, err
	}

	var original, created *domain.Booking
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Исходное бронирование (FOR UPDATE)
		old, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return uc.internal("get booking", err)
		}

		// 3. Переносит клиент бронирования или администратор
		if old.ClientID != req.Identity.UserID && !req.Identity.IsAdmin() {
			uc.logger.Warn("RescheduleBooking: user=%d is not the client of booking id=%d", req.Identity.UserID, old.ID)
			return ErrAccessDenied
		}

		if !old.CanTransitionTo(domain.StatusRescheduled) {
			uc.logger.Warn("RescheduleBooking: booking id=%d has status %s", old.ID, old.Status)
			return fmt.Errorf("%w: status %s", ErrInvalidTransition, old.Status)
		}

		// 4. Блокировка консультанта до любых изменений
		if err := uc.bookingRepo.LockConsultant(txCtx, old.ConsultantID); err != nil {
			return uc.internal("lock consultant", err)
		}

		// 5. Освобождаем исходный интервал, чтобы новый мог его пересекать
		if err := uc.bookingRepo.UpdateStatus(txCtx, old.ID, domain.StatusRescheduled); err != nil {
			return uc.internal("release original", err)
		}

		// 6. Новое бронирование по общим правилам размещения
		params := create_booking.PlaceParams{
			ClientID:            old.ClientID,
			ConsultantID:        old.ConsultantID,
			ConsultantServiceID: old.ConsultantServiceID,
			DurationOptionID:    old.DurationOptionID,
			StartAt:             req.StartAt,
			ClientTimezone:      old.ClientTimezone,
			Notes:               old.Notes,
			RescheduledFromID:   &old.ID,
		}
		if req.DurationOptionID != nil {
			params.DurationOptionID = *req.DurationOptionID
		}
		if req.ClientTimezone != nil {
			params.ClientTimezone = *req.ClientTimezone
		}
		if req.Notes != nil {
			params.Notes = req.Notes
		}

		placed, err := uc.placer.Place(txCtx, params)
		if err != nil {
			return err
		}

		// 7. Связываем исходное бронирование с новым
		if err := uc.bookingRepo.MarkRescheduled(txCtx, old.ID, placed.ID); err != nil {
			return uc.internal("link bookings", err)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, old.ID)
		if err != nil {
			return uc.internal("reload original", err)
		}

		original, created = updated, placed
		return nil
	})
	if err != nil {
		err = uc.finalizeError(ctx, err)
		uc.metrics.ObserveBooking("reschedule", string(domain.CodeOf(err)))
		return nil, err
	}

	uc.metrics.ObserveBooking("reschedule", "ok")
	uc.logger.Info("RescheduleBooking: booking id=%d moved to id=%d [%s, %s)",
		original.ID, created.ID, created.StartAt.Format(time.RFC3339), created.EndAt.Format(time.RFC3339))

	uc.publish(ctx, domain.EventBookingRescheduled, original)
	uc.publish(ctx, domain.EventBookingCreated, created)

	return &Response{Original: original, Booking: created}, nil
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", domain.ErrInvalidInput)
	}
	if req.DurationOptionID != nil && *req.DurationOptionID <= 0 {
		return fmt.Errorf("%w: durationOptionID must be positive", domain.ErrInvalidInput)
	}

	// Пояс проверяется только если передан; иначе берется из исходного бронирования
	clientTimezone := "UTC"
	if req.ClientTimezone != nil {
		clientTimezone = *req.ClientTimezone
	}
	return create_booking.ValidatePlacement(req.StartAt, clientTimezone, req.Notes)
}

func (uc *UseCase) publish(ctx context.Context, eventType domain.BookingEventType, booking *domain.Booking) {
	if uc.publisher == nil {
		return
	}
	event := domain.NewBookingEvent(eventType, booking, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to publish %s for booking id=%d: %v", eventType, booking.ID, err)
	}
}

func (uc *UseCase) internal(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, step, err)
}

func (uc *UseCase) finalizeError(ctx context.Context, err error) error {
	if domain.CodeOf(err) != domain.CodeInternal {
		return err
	}
	if txmanager.IsRetryable(err) {
		uc.logger.Warn("RescheduleBooking: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %w", create_booking.ErrConflict, err)
	}
	if ctxErr := domain.ContextError(ctx); ctxErr != nil {
		uc.logger.Warn("RescheduleBooking: %v", ctxErr)
		return ctxErr
	}
	uc.logger.Error("RescheduleBooking: %v", err)
	return err
}
