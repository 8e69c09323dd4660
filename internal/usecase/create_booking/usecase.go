package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	bookingRepo "github.com/m04kA/consult-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/consult-booking/internal/infra/storage/catalog"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	"github.com/m04kA/consult-booking/pkg/txmanager"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	consultantRepo ConsultantRepository
	catalogRepo    CatalogRepository
	scheduleRepo   ScheduleRepository
	publisher      EventPublisher
	metrics        Metrics
	txManager      TransactionManager
	timeProvider   TimeProvider
	minLead        time.Duration
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	consultantRepo ConsultantRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	minLead time.Duration,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		consultantRepo: consultantRepo,
		catalogRepo:    catalogRepo,
		scheduleRepo:   scheduleRepo,
		publisher:      publisher,
		metrics:        metrics,
		txManager:      txManager,
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

// Execute выполняет use case создания бронирования.
// Проверки и вставка идут в одной сериализуемой транзакции под advisory-блокировкой
// консультанта: из двух одновременных попыток на пересекающееся время проходит одна,
// вторая получает Conflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, client=%d, consultant=%d, service=%d, option=%d, start=%s",
		req.Identity.UserID, req.ClientID, req.ConsultantID, req.ConsultantServiceID, req.DurationOptionID,
		req.StartAt.UTC().Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.ObserveBooking("create", string(domain.CodeOf(err)))
		return nil, err
	}

	clientID := req.ClientID
	if clientID == 0 {
		clientID = req.Identity.UserID
	}

	// 2. Клиент бронирует для себя; консультант - только к себе; администратор - за любого
	if err := uc.authorize(ctx, req.Identity, clientID, req.ConsultantID); err != nil {
		uc.metrics.ObserveBooking("create", string(domain.CodeOf(err)))
		return nil, err
	}

	// 3. Размещение в сериализуемой транзакции
	var result *domain.Booking
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.Place(txCtx, PlaceParams{
			ClientID:            clientID,
			ConsultantID:        req.ConsultantID,
			ConsultantServiceID: req.ConsultantServiceID,
			DurationOptionID:    req.DurationOptionID,
			StartAt:             req.StartAt,
			ClientTimezone:      req.ClientTimezone,
			Notes:               req.Notes,
		})
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		err = uc.finalizeError(ctx, err)
		uc.metrics.ObserveBooking("create", string(domain.CodeOf(err)))
		return nil, err
	}

	uc.metrics.ObserveBooking("create", "ok")
	uc.logger.Info("CreateBooking: created booking id=%d for consultant=%d [%s, %s) price=%s",
		result.ID, result.ConsultantID, result.StartAt.Format(time.RFC3339), result.EndAt.Format(time.RFC3339), result.TotalPrice)

	uc.publish(ctx, domain.EventBookingCreated, result)

	return &Response{Booking: result}, nil
}

// Place проверяет и вставляет бронирование в транзакции из ctx.
// Все данные, на которых основано решение, перечитываются здесь же, поэтому
// повтор транзакции после конфликта сериализации проверяет все заново.
func (uc *UseCase) Place(ctx context.Context, p PlaceParams) (*domain.Booking, error) {
	// 1. Сериализуем размещения одного консультанта
	if err := uc.bookingRepo.LockConsultant(ctx, p.ConsultantID); err != nil {
		return nil, uc.internal("lock consultant", err)
	}

	// 2. Консультант
	consultant, err := uc.consultantRepo.GetByID(ctx, p.ConsultantID)
	if err != nil {
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			uc.logger.Warn("Place: consultant id=%d not found", p.ConsultantID)
			return nil, ErrConsultantNotFound
		}
		return nil, uc.internal("get consultant", err)
	}
	if !consultant.IsActive {
		uc.logger.Warn("Place: consultant id=%d is inactive", p.ConsultantID)
		return nil, ErrConsultantNotFound
	}
	consultantLoc, err := tz.Load(consultant.Timezone)
	if err != nil {
		return nil, uc.internal("load consultant timezone", err)
	}

	// 3. Услуга принадлежит консультанту и активна
	service, err := uc.catalogRepo.GetConsultantServiceByID(ctx, p.ConsultantServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("Place: service id=%d not found", p.ConsultantServiceID)
			return nil, ErrServiceNotFound
		}
		return nil, uc.internal("get service", err)
	}
	if service.ConsultantID != consultant.ID {
		uc.logger.Warn("Place: service id=%d belongs to consultant=%d, not %d", service.ID, service.ConsultantID, consultant.ID)
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		uc.logger.Warn("Place: service id=%d is inactive", service.ID)
		return nil, ErrServiceInactive
	}

	// 4. Вариант длительности из того же шаблона
	option, err := uc.catalogRepo.GetDurationOptionByID(ctx, p.DurationOptionID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDurationOptionNotFound) {
			uc.logger.Warn("Place: duration option id=%d not found", p.DurationOptionID)
			return nil, ErrDurationOptionNotFound
		}
		return nil, uc.internal("get duration option", err)
	}
	if option.TemplateID != service.TemplateID {
		uc.logger.Warn("Place: option id=%d of template=%d does not match service template=%d",
			option.ID, option.TemplateID, service.TemplateID)
		return nil, fmt.Errorf("%w: option template=%d, service template=%d",
			domain.ErrTemplateMismatch, option.TemplateID, service.TemplateID)
	}
	if !option.IsActive {
		uc.logger.Warn("Place: duration option id=%d is inactive", option.ID)
		return nil, ErrNotPriced
	}

	// 5. Активная цена, замораживается в бронировании
	price, err := uc.catalogRepo.GetActivePrice(ctx, service.ID, option.ID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrPriceNotFound) {
			uc.logger.Warn("Place: no active price for service=%d option=%d", service.ID, option.ID)
			return nil, ErrNotPriced
		}
		return nil, uc.internal("get active price", err)
	}
	if !option.Contains(price.Price) {
		uc.logger.Warn("Place: price %s of service=%d is outside band [%s, %s]",
			price.Price, service.ID, option.MinPrice, option.MaxPrice)
		return nil, ErrPriceOutOfBand
	}

	// 6. Интервал и минимальный запас времени
	start := p.StartAt.UTC()
	end := start.Add(time.Duration(option.DurationMinutes) * time.Minute)
	if !start.After(uc.timeProvider.Now().Add(uc.minLead)) {
		uc.logger.Warn("Place: start %s is before the minimum lead time", start.Format(time.RFC3339))
		return nil, ErrTooSoon
	}

	// 7. Интервал целиком в одном окне на дату начала в поясе консультанта
	date := tz.DateIn(start, consultantLoc)
	weekday := date.Weekday()
	windows, err := uc.scheduleRepo.ListActiveWindows(ctx, consultant.ID, &weekday)
	if err != nil {
		return nil, uc.internal("list windows", err)
	}
	contained, err := containedInWindow(windows, date, start, end)
	if err != nil {
		return nil, uc.internal("window extent", err)
	}
	if !contained {
		uc.logger.Warn("Place: [%s, %s) is outside availability of consultant=%d",
			start.Format(time.RFC3339), end.Format(time.RFC3339), consultant.ID)
		return nil, ErrOutsideAvailability
	}

	// 8. Блокировки
	blocked, err := uc.scheduleRepo.ListBlocked(ctx, consultant.ID, start, end)
	if err != nil {
		return nil, uc.internal("list blocked", err)
	}
	if len(blocked) > 0 {
		uc.logger.Warn("Place: [%s, %s) intersects blocked interval id=%d",
			start.Format(time.RFC3339), end.Format(time.RFC3339), blocked[0].ID)
		return nil, ErrBlocked
	}

	// 9. Другие бронирования, занимающие время
	conflicts, err := uc.bookingRepo.ListBlocking(ctx, consultant.ID, start, end, p.RescheduledFromID)
	if err != nil {
		return nil, uc.internal("list bookings", err)
	}
	if len(conflicts) > 0 {
		uc.logger.Warn("Place: [%s, %s) conflicts with booking id=%d",
			start.Format(time.RFC3339), end.Format(time.RFC3339), conflicts[0].ID)
		return nil, ErrConflict
	}

	// 10. Вставка
	created, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		ClientID:            p.ClientID,
		ConsultantID:        consultant.ID,
		ConsultantServiceID: service.ID,
		DurationOptionID:    option.ID,
		StartAt:             start,
		EndAt:               end,
		DurationMinutes:     option.DurationMinutes,
		ClientTimezone:      p.ClientTimezone,
		TotalPrice:          price.Price,
		Status:              domain.StatusPending,
		PaymentStatus:       domain.PaymentPending,
		Notes:               p.Notes,
		RescheduledFromID:   p.RescheduledFromID,
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
			uc.logger.Warn("Place: insert rejected by the overlap constraint for consultant=%d", consultant.ID)
			return nil, ErrConflict
		}
		return nil, uc.internal("create booking", err)
	}

	return created, nil
}

// authorize проверяет, может ли вызывающий создать бронирование для clientID
func (uc *UseCase) authorize(ctx context.Context, identity domain.Identity, clientID, consultantID int64) error {
	if clientID == identity.UserID || identity.IsAdmin() {
		return nil
	}

	if identity.Role == domain.RoleConsultant {
		consultant, err := uc.consultantRepo.GetByID(ctx, consultantID)
		if err != nil {
			if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
				return ErrConsultantNotFound
			}
			return uc.finalizeError(ctx, uc.internal("get consultant", err))
		}
		if identity.Owns(consultant) {
			return nil
		}
	}

	uc.logger.Warn("CreateBooking: user=%d may not book for client=%d with consultant=%d",
		identity.UserID, clientID, consultantID)
	return ErrAccessDenied
}

func (uc *UseCase) publish(ctx context.Context, eventType domain.BookingEventType, booking *domain.Booking) {
	if uc.publisher == nil {
		return
	}
	event := domain.NewBookingEvent(eventType, booking, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s for booking id=%d: %v", eventType, booking.ID, err)
	}
}

// internal оборачивает ошибку инфраструктуры; исходная ошибка сохраняется в цепочке,
// чтобы менеджер транзакций распознал конфликт сериализации
func (uc *UseCase) internal(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, step, err)
}

// finalizeError логирует внутренние ошибки и подменяет их на DeadlineExceeded при истекшем
// контексте. Исчерпанные повторы сериализации означают проигранную гонку - это Conflict.
func (uc *UseCase) finalizeError(ctx context.Context, err error) error {
	if domain.CodeOf(err) != domain.CodeInternal {
		return err
	}
	if txmanager.IsRetryable(err) {
		uc.logger.Warn("CreateBooking: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if ctxErr := domain.ContextError(ctx); ctxErr != nil {
		uc.logger.Warn("CreateBooking: %v", ctxErr)
		return ctxErr
	}
	uc.logger.Error("CreateBooking: %v", err)
	return err
}
