package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	consultantRepo ConsultantRepository
	scheduleRepo   ScheduleRepository
	bookingRepo    BookingRepository
	metrics        Metrics
	timeProvider   TimeProvider
	minLead        time.Duration
	logger         Logger
}

// NewUseCase создает новый экземпляр use case.
// minLead - минимальный запас времени между "сейчас" и началом слота.
func NewUseCase(
	consultantRepo ConsultantRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	metrics Metrics,
	minLead time.Duration,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		consultantRepo: consultantRepo,
		scheduleRepo:   scheduleRepo,
		bookingRepo:    bookingRepo,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		minLead:        minLead,
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Ошибка любого окна прерывает весь вызов - частичных ответов нет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	started := time.Now()

	uc.logger.Info("GetAvailableSlots: consultant=%d, date=%s, tz=%s, duration=%d",
		req.ConsultantID, req.Date, req.ClientTimezone, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}
	clientLoc, err := tz.Load(req.ClientTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, req.ClientTimezone)
	}

	// 2. Получаем консультанта и его домашний пояс
	consultant, err := uc.consultantRepo.GetByID(ctx, req.ConsultantID)
	if err != nil {
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			uc.logger.Warn("GetAvailableSlots: consultant id=%d not found", req.ConsultantID)
			return nil, ErrConsultantNotFound
		}
		return nil, uc.internal(ctx, "get consultant", err)
	}
	if !consultant.IsActive {
		uc.logger.Warn("GetAvailableSlots: consultant id=%d is inactive", req.ConsultantID)
		return nil, ErrConsultantNotFound
	}
	consultantLoc, err := tz.Load(consultant.Timezone)
	if err != nil {
		return nil, uc.internal(ctx, "load consultant timezone", err)
	}

	response := &Response{
		ConsultantID:       consultant.ID,
		Date:               req.Date,
		ConsultantTimezone: consultant.Timezone,
		ClientTimezone:     req.ClientTimezone,
		DurationMinutes:    req.DurationMinutes,
		Slots:              []domain.Slot{},
	}

	// 3. Сутки считаются от полуночи до полуночи в поясе консультанта.
	// Прошедший день дает пустой список.
	now := uc.timeProvider.Now()
	dayStart, dayEnd := tz.DayBounds(req.Date, consultantLoc)
	if !dayEnd.After(now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past for consultant=%d", req.Date, consultant.ID)
		uc.metrics.ObserveSlotGeneration(time.Since(started), 0)
		return response, nil
	}

	// 4. Активные окна на день недели
	weekday := req.Date.Weekday()
	windows, err := uc.scheduleRepo.ListActiveWindows(ctx, consultant.ID, &weekday)
	if err != nil {
		return nil, uc.internal(ctx, "list windows", err)
	}
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: no windows on %s for consultant=%d", weekday, consultant.ID)
		uc.metrics.ObserveSlotGeneration(time.Since(started), 0)
		return response, nil
	}

	// 5. Кандидаты по всем окнам
	duration := time.Duration(req.DurationMinutes) * time.Minute
	candidates, err := generateCandidates(windows, req.Date, duration)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates for consultant=%d: %v", consultant.ID, err)
		if errors.Is(err, ErrDuplicateSlot) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: generate candidates: %w", domain.ErrInternal, err)
	}
	if len(candidates) == 0 {
		uc.metrics.ObserveSlotGeneration(time.Since(started), 0)
		return response, nil
	}

	// 6. Блокировки и занимающие время бронирования в пределах кандидатов
	from, to := candidatesRange(candidates, dayStart, dayEnd)

	blocked, err := uc.scheduleRepo.ListBlocked(ctx, consultant.ID, from, to)
	if err != nil {
		return nil, uc.internal(ctx, "list blocked", err)
	}

	bookings, err := uc.bookingRepo.ListBlocking(ctx, consultant.ID, from, to, nil)
	if err != nil {
		return nil, uc.internal(ctx, "list bookings", err)
	}

	// 7. Фильтрация и отображение в поясе клиента
	available := filterCandidates(candidates, blocked, bookings, now.Add(uc.minLead))
	response.Slots = renderSlots(available, clientLoc, consultantLoc)

	uc.metrics.ObserveSlotGeneration(time.Since(started), len(response.Slots))
	uc.logger.Info("GetAvailableSlots: %d of %d candidates available for consultant=%d on %s",
		len(response.Slots), len(candidates), consultant.ID, req.Date)

	return response, nil
}

// internal переводит ошибку инфраструктуры в DeadlineExceeded или Internal
func (uc *UseCase) internal(ctx context.Context, step string, err error) error {
	if ctxErr := domain.ContextError(ctx); ctxErr != nil {
		uc.logger.Warn("GetAvailableSlots: %s: %v", step, ctxErr)
		return ctxErr
	}
	uc.logger.Error("GetAvailableSlots: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, step, err)
}
