package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/consult-booking/internal/domain"
	bookingRepo "github.com/m04kA/consult-booking/internal/infra/storage/booking"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: чтение, смена статуса, внешние ссылки
type Service struct {
	bookingRepo    BookingRepository
	consultantRepo ConsultantRepository
	publisher      EventPublisher
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	consultantRepo ConsultantRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		consultantRepo: consultantRepo,
		publisher:      publisher,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Видят: клиент-владелец, консультант бронирования и администратор
func (s *Service) GetByID(ctx context.Context, identity domain.Identity, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, identity.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	access, err := s.accessOf(ctx, "GetByID", identity, booking)
	if err != nil {
		return nil, err
	}
	if !access.canRead() {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", identity.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// ListByClient получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) ListByClient(ctx context.Context, identity domain.Identity, req *models.ListClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByClient: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	if !identity.IsAdmin() && identity.UserID != req.ClientID {
		s.logger.Warn("ListByClient: user=%d cannot read bookings of client=%d", identity.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		st, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByClient: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, ErrInvalidStatus
		}
		status = &st
	}

	bookings, err := s.bookingRepo.ListByClient(ctx, req.ClientID, status)
	if err != nil {
		s.logger.Error("ListByClient: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %w", domain.ErrInternal, err)
	}

	s.logger.Info("ListByClient: fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// ListConsultantBookings получает бронирования консультанта с фильтрацией
// по периоду, статусу и включению неактивных бронирований.
// Доступно самому консультанту и администратору.
func (s *Service) ListConsultantBookings(ctx context.Context, identity domain.Identity, req *models.ListConsultantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListConsultantBookings: consultant=%d user=%d includeInactive=%t",
		req.ConsultantID, identity.UserID, req.IncludeInactive)

	consultant, err := s.getConsultant(ctx, "ListConsultantBookings", req.ConsultantID)
	if err != nil {
		return nil, err
	}
	if !identity.CanManage(consultant) {
		s.logger.Warn("ListConsultantBookings: user=%d cannot read bookings of consultant=%d", identity.UserID, req.ConsultantID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListConsultantBookings: invalid filter for consultant=%d: %v", req.ConsultantID, err)
		return nil, ErrInvalidStatus
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, fmt.Errorf("%w: from must be before to", domain.ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByConsultantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListConsultantBookings: repository error for consultant=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: ListConsultantBookings - repository error: %w", domain.ErrInternal, err)
	}

	s.logger.Info("ListConsultantBookings: fetched %d bookings for consultant=%d", len(bookings), req.ConsultantID)
	return models.FromDomainBookingList(bookings), nil
}

// Transition переводит бронирование в новый статус.
// Подтверждение идемпотентно: повторный confirm возвращает бронирование без изменений.
// Отменить может клиент, консультант или администратор; остальные действия -
// только консультант бронирования или администратор.
func (s *Service) Transition(ctx context.Context, identity domain.Identity, req *models.TransitionRequest) (*models.BookingResponse, error) {
	s.logger.Info("Transition: booking id=%d action=%s by user=%d", req.BookingID, req.Action, identity.UserID)

	target, ok := req.Action.Target()
	if !ok {
		s.logger.Warn("Transition: unknown action=%q", req.Action)
		return nil, ErrUnknownAction
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", domain.ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var (
		updated *domain.Booking
		changed bool
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование с блокировкой строки
		booking, err := s.getBooking(txCtx, "Transition", req.BookingID)
		if err != nil {
			return err
		}

		// 2. Проверяем права на действие
		access, err := s.accessOf(txCtx, "Transition", identity, booking)
		if err != nil {
			return err
		}
		if !access.canPerform(req.Action) {
			s.logger.Warn("Transition: user=%d may not %s booking id=%d", identity.UserID, req.Action, booking.ID)
			return ErrAccessDenied
		}

		// 3. Повторное подтверждение ничего не меняет
		if target == domain.StatusConfirmed && booking.Status == domain.StatusConfirmed {
			updated = booking
			return nil
		}

		// 4. Проверяем жизненный цикл
		if !booking.CanTransitionTo(target) {
			s.logger.Warn("Transition: booking id=%d cannot move %s -> %s", booking.ID, booking.Status, target)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
		}

		// 5. Обновляем статус
		if target == domain.StatusCancelled {
			err = s.bookingRepo.Cancel(txCtx, booking.ID, req.Reason)
		} else {
			err = s.bookingRepo.UpdateStatus(txCtx, booking.ID, target)
		}
		if err != nil {
			return err
		}

		updated, err = s.bookingRepo.GetByID(txCtx, booking.ID)
		changed = true
		return err
	})
	if err != nil {
		return nil, s.mapRepoError("Transition", err)
	}

	if changed {
		s.logger.Info("Transition: booking id=%d is now %s", updated.ID, updated.Status)
		s.publish(ctx, domain.EventTypeFor(updated.Status), updated)
	}

	return models.FromDomainBooking(updated), nil
}

// UpdateExternalRefs сохраняет ссылки внешних систем без интерпретации.
// Ссылку на встречу задает консультант или администратор, платежные поля - только администратор.
func (s *Service) UpdateExternalRefs(ctx context.Context, identity domain.Identity, req *models.UpdateExternalRefsRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateExternalRefs: booking id=%d by user=%d", req.BookingID, identity.UserID)

	// 1. Валидация входных данных
	refs := domain.ExternalRefs{
		MeetingURL:      req.MeetingURL,
		PaymentIntentID: req.PaymentIntentID,
	}
	if refs.MeetingURL != nil && len(*refs.MeetingURL) > domain.MaxURLLength {
		return nil, fmt.Errorf("%w: meeting url exceeds %d characters", domain.ErrInvalidInput, domain.MaxURLLength)
	}
	if req.PaymentStatus != nil {
		ps, err := models.ToDomainPaymentStatus(*req.PaymentStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: payment status %q", domain.ErrInvalidInput, *req.PaymentStatus)
		}
		refs.PaymentStatus = &ps
	}
	if refs.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	// 2. Проверяем права
	booking, err := s.getBooking(ctx, "UpdateExternalRefs", req.BookingID)
	if err != nil {
		return nil, err
	}
	access, err := s.accessOf(ctx, "UpdateExternalRefs", identity, booking)
	if err != nil {
		return nil, err
	}
	paymentFields := refs.PaymentIntentID != nil || refs.PaymentStatus != nil
	if (paymentFields && !access.admin) || (refs.MeetingURL != nil && !access.canManage()) {
		s.logger.Warn("UpdateExternalRefs: user=%d may not update refs of booking id=%d", identity.UserID, booking.ID)
		return nil, ErrAccessDenied
	}

	// 3. Сохраняем
	if err := s.bookingRepo.UpdateExternalRefs(ctx, booking.ID, refs); err != nil {
		return nil, s.mapRepoError("UpdateExternalRefs", err)
	}

	updated, err := s.getBooking(ctx, "UpdateExternalRefs", booking.ID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(updated), nil
}

// Вспомогательные методы

// bookingAccess роль вызывающего по отношению к конкретному бронированию
type bookingAccess struct {
	admin      bool
	client     bool
	consultant bool
}

func (a bookingAccess) canRead() bool {
	return a.admin || a.client || a.consultant
}

func (a bookingAccess) canManage() bool {
	return a.admin || a.consultant
}

func (a bookingAccess) canPerform(action domain.BookingAction) bool {
	if action == domain.ActionCancel {
		return a.canRead()
	}
	return a.canManage()
}

// accessOf определяет отношение пользователя к бронированию.
// Консультанта загружаем только для роли consultant.
func (s *Service) accessOf(ctx context.Context, op string, identity domain.Identity, booking *domain.Booking) (bookingAccess, error) {
	access := bookingAccess{
		admin:  identity.IsAdmin(),
		client: booking.ClientID == identity.UserID,
	}

	if identity.Role == domain.RoleConsultant {
		consultant, err := s.getConsultant(ctx, op, booking.ConsultantID)
		if err != nil {
			return access, err
		}
		access.consultant = identity.Owns(consultant)
	}

	return access, nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", domain.ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getConsultant(ctx context.Context, op string, consultantID int64) (*domain.Consultant, error) {
	consultant, err := s.consultantRepo.GetByID(ctx, consultantID)
	if err != nil {
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			s.logger.Warn("%s: consultant id=%d not found", op, consultantID)
			return nil, ErrConsultantNotFound
		}
		s.logger.Error("%s: failed to get consultant id=%d: %v", op, consultantID, err)
		return nil, fmt.Errorf("%w: %s - get consultant: %w", domain.ErrInternal, op, err)
	}
	return consultant, nil
}

// publish отправляет событие после коммита; ошибка публикации не влияет на результат запроса
func (s *Service) publish(ctx context.Context, eventType domain.BookingEventType, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}
	event := domain.NewBookingEvent(eventType, booking, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish: failed to publish %s for booking id=%d: %v", eventType, booking.ID, err)
	}
}

// mapRepoError переводит ошибки репозитория в ошибки сервиса
func (s *Service) mapRepoError(op string, err error) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		// уже переведена и залогирована
		return err
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking not found", op)
		return ErrBookingNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.logger.Warn("%s: deadline exceeded: %v", op, err)
		return fmt.Errorf("%w: %w", domain.ErrDeadlineExceeded, err)
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %w", domain.ErrInternal, op, err)
	}
}
