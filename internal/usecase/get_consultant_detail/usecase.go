package get_consultant_detail

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/consult-booking/internal/domain"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	"github.com/m04kA/consult-booking/internal/integrations/profileservice"
	catalogModels "github.com/m04kA/consult-booking/internal/service/catalog/models"
	"github.com/m04kA/consult-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// UseCase собирает карточку консультанта: профиль, услуги с ценами и ближайшие слоты
type UseCase struct {
	consultantRepo ConsultantRepository
	profiles       ProfileClient
	catalog        ServiceCatalog
	slots          SlotFinder
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает use case. profiles может быть nil, если интеграция выключена.
func NewUseCase(
	consultantRepo ConsultantRepository,
	profiles ProfileClient,
	catalog ServiceCatalog,
	slots SlotFinder,
	logger Logger,
) *UseCase {
	return &UseCase{
		consultantRepo: consultantRepo,
		profiles:       profiles,
		catalog:        catalog,
		slots:          slots,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute собирает карточку. Только чтение.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetConsultantDetail: consultant=%d, viewer_tz=%s, days=%d, duration=%d",
		req.ConsultantID, req.ViewerTimezone, req.Days, req.DurationMinutes)

	// 1. Валидация
	if req.ConsultantID <= 0 {
		return nil, fmt.Errorf("%w: consultantID must be positive", domain.ErrInvalidInput)
	}
	if req.Days < 0 || req.Days > MaxDays {
		return nil, ErrInvalidDays
	}
	if req.ViewerTimezone != "" && !tz.ValidTZ(req.ViewerTimezone) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, req.ViewerTimezone)
	}
	if req.DurationMinutes != 0 && !domain.ValidBookingDuration(req.DurationMinutes) {
		return nil, domain.ErrInvalidDuration
	}

	// 2. Консультант
	consultant, err := uc.consultantRepo.GetByID(ctx, req.ConsultantID)
	if err != nil {
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			return nil, ErrConsultantNotFound
		}
		return nil, uc.internal(ctx, "get consultant", err)
	}
	if !consultant.IsActive {
		return nil, ErrConsultantNotFound
	}

	response := &Response{
		Consultant:     consultant,
		ViewerTimezone: req.ViewerTimezone,
		Days:           []DaySlots{},
	}
	if response.ViewerTimezone == "" {
		response.ViewerTimezone = consultant.Timezone
	}

	// 3. Профиль; недоступность сервиса профилей не ломает карточку
	if uc.profiles != nil {
		profile, err := uc.profiles.GetProfileWithGracefulDegradation(ctx, consultant.ID)
		switch {
		case err == nil:
			response.Profile = profile
		case errors.Is(err, profileservice.ErrProfileNotFound):
		default:
			uc.logger.Warn("GetConsultantDetail: profile of consultant=%d degraded: %v", consultant.ID, err)
			response.ProfileDegraded = true
		}
	}

	// 4. Активные услуги с активными ценами
	services, err := uc.catalog.ListServices(ctx, nil, consultant.ID, false)
	if err != nil {
		return nil, err
	}
	response.Services = services

	if req.Days == 0 {
		return response, nil
	}

	// 5. Длительность для слотов
	duration := req.DurationMinutes
	if duration == 0 {
		duration = smallestPricedDuration(services)
		if duration == 0 {
			return nil, ErrNoPricedDuration
		}
	}
	response.DurationMinutes = duration

	// 6. Слоты на N дней, начиная с сегодняшней даты консультанта
	consultantLoc, err := tz.Load(consultant.Timezone)
	if err != nil {
		return nil, uc.internal(ctx, "load consultant timezone", err)
	}
	today := tz.DateIn(uc.timeProvider.Now(), consultantLoc)

	for i := 0; i < req.Days; i++ {
		date := today.AddDays(i)
		slots, err := uc.slots.Execute(ctx, &get_available_slots.Request{
			ConsultantID:    consultant.ID,
			Date:            date,
			ClientTimezone:  response.ViewerTimezone,
			DurationMinutes: duration,
		})
		if err != nil {
			return nil, err
		}
		response.Days = append(response.Days, DaySlots{Date: date, Slots: slots.Slots})
	}

	return response, nil
}

// smallestPricedDuration наименьшая длительность, для которой есть активная цена
func smallestPricedDuration(services []catalogModels.ServiceResponse) int {
	smallest := 0
	for _, svc := range services {
		for _, p := range svc.Prices {
			if !p.IsActive {
				continue
			}
			if smallest == 0 || p.DurationMinutes < smallest {
				smallest = p.DurationMinutes
			}
		}
	}
	return smallest
}

func (uc *UseCase) internal(ctx context.Context, step string, err error) error {
	if ctxErr := domain.ContextError(ctx); ctxErr != nil {
		uc.logger.Warn("GetConsultantDetail: %s: %v", step, ctxErr)
		return ctxErr
	}
	uc.logger.Error("GetConsultantDetail: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, step, err)
}
