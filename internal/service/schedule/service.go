package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/consult-booking/internal/domain"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	scheduleRepo "github.com/m04kA/consult-booking/internal/infra/storage/schedule"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
	"github.com/m04kA/consult-booking/pkg/types"
)

// Service сервис еженедельного расписания и блокировок времени
type Service struct {
	scheduleRepo   ScheduleRepository
	consultantRepo ConsultantRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	consultantRepo ConsultantRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:   scheduleRepo,
		consultantRepo: consultantRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// GetWeeklySchedule возвращает активные окна консультанта
// Доступно консультанту и администратору
func (s *Service) GetWeeklySchedule(ctx context.Context, identity domain.Identity, consultantID int64) ([]models.WindowResponse, error) {
	if _, err := s.checkManageAccess(ctx, "GetWeeklySchedule", identity, consultantID); err != nil {
		return nil, err
	}

	windows, err := s.scheduleRepo.ListActiveWindows(ctx, consultantID, nil)
	if err != nil {
		s.logger.Error("GetWeeklySchedule: repository error for consultant=%d: %v", consultantID, err)
		return nil, fmt.Errorf("%w: GetWeeklySchedule - repository error: %w", domain.ErrInternal, err)
	}

	return models.FromDomainWindows(windows), nil
}

// SetWeeklySchedule атомарно заменяет активные окна консультанта.
// Если хотя бы одно окно некорректно, весь набор отклоняется и старое расписание остается.
func (s *Service) SetWeeklySchedule(ctx context.Context, identity domain.Identity, req *models.SetWeeklyScheduleRequest) ([]models.WindowResponse, error) {
	s.logger.Info("SetWeeklySchedule: consultant=%d windows=%d by user=%d",
		req.ConsultantID, len(req.Windows), identity.UserID)

	// 1. Проверяем права доступа
	consultant, err := s.checkManageAccess(ctx, "SetWeeklySchedule", identity, req.ConsultantID)
	if err != nil {
		return nil, err
	}

	// 2. Валидируем весь набор до записи
	windows, err := s.buildWindows(consultant, req.Windows)
	if err != nil {
		s.logger.Warn("SetWeeklySchedule: rejected for consultant=%d: %v", consultant.ID, err)
		return nil, err
	}

	// 3. Заменяем расписание в одной транзакции под блокировкой консультанта.
	// Уровень READ COMMITTED: после ожидания блокировки каждый запрос видит уже закоммиченную замену.
	created := make([]*domain.AvailabilityWindow, 0, len(windows))
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.LockConsultant(txCtx, consultant.ID); err != nil {
			return err
		}
		if err := s.scheduleRepo.DeactivateWindows(txCtx, consultant.ID); err != nil {
			return err
		}
		for _, w := range windows {
			saved, err := s.scheduleRepo.CreateWindow(txCtx, w)
			if err != nil {
				return err
			}
			created = append(created, saved)
		}
		return nil
	})
	if errors.Is(err, scheduleRepo.ErrWindowOverlap) {
		s.logger.Warn("SetWeeklySchedule: concurrent replacement for consultant=%d: %v", consultant.ID, err)
		return nil, ErrScheduleConflict
	}
	if err != nil {
		s.logger.Error("SetWeeklySchedule: repository error for consultant=%d: %v", consultant.ID, err)
		return nil, fmt.Errorf("%w: SetWeeklySchedule - repository error: %w", domain.ErrInternal, err)
	}

	s.logger.Info("SetWeeklySchedule: consultant=%d now has %d active windows", consultant.ID, len(created))
	return models.FromDomainWindows(created), nil
}

// AddBlocked блокирует интервал времени консультанта
func (s *Service) AddBlocked(ctx context.Context, identity domain.Identity, req *models.AddBlockedRequest) (*models.BlockedResponse, error) {
	s.logger.Info("AddBlocked: consultant=%d [%s, %s) by user=%d",
		req.ConsultantID, req.StartAt.UTC().Format(timeLayout), req.EndAt.UTC().Format(timeLayout), identity.UserID)

	if _, err := s.checkManageAccess(ctx, "AddBlocked", identity, req.ConsultantID); err != nil {
		return nil, err
	}

	if !req.StartAt.Before(req.EndAt) {
		return nil, ErrInvalidRange
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxBlockedReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", domain.ErrInvalidInput, domain.MaxBlockedReasonLength)
	}

	blocked, err := s.scheduleRepo.CreateBlocked(ctx, &domain.BlockedInterval{
		ConsultantID: req.ConsultantID,
		StartAt:      req.StartAt.UTC(),
		EndAt:        req.EndAt.UTC(),
		Reason:       req.Reason,
	})
	if err != nil {
		s.logger.Error("AddBlocked: repository error for consultant=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: AddBlocked - repository error: %w", domain.ErrInternal, err)
	}

	s.logger.Info("AddBlocked: created blocked interval id=%d", blocked.ID)
	resp := models.FromDomainBlocked(blocked)
	return &resp, nil
}

// RemoveBlocked удаляет блокировку времени
func (s *Service) RemoveBlocked(ctx context.Context, identity domain.Identity, consultantID, blockedID int64) error {
	s.logger.Info("RemoveBlocked: consultant=%d blocked=%d by user=%d", consultantID, blockedID, identity.UserID)

	if _, err := s.checkManageAccess(ctx, "RemoveBlocked", identity, consultantID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteBlocked(ctx, consultantID, blockedID); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedNotFound) {
			s.logger.Warn("RemoveBlocked: blocked id=%d not found for consultant=%d", blockedID, consultantID)
			return ErrBlockedNotFound
		}
		s.logger.Error("RemoveBlocked: repository error for blocked id=%d: %v", blockedID, err)
		return fmt.Errorf("%w: RemoveBlocked - repository error: %w", domain.ErrInternal, err)
	}

	return nil
}

// ListBlocked возвращает блокировки, пересекающие [From, To), по возрастанию начала
func (s *Service) ListBlocked(ctx context.Context, identity domain.Identity, req *models.ListBlockedRequest) ([]models.BlockedResponse, error) {
	if _, err := s.checkManageAccess(ctx, "ListBlocked", identity, req.ConsultantID); err != nil {
		return nil, err
	}

	if !req.From.Before(req.To) {
		return nil, ErrInvalidRange
	}

	blocked, err := s.scheduleRepo.ListBlocked(ctx, req.ConsultantID, req.From, req.To)
	if err != nil {
		s.logger.Error("ListBlocked: repository error for consultant=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: ListBlocked - repository error: %w", domain.ErrInternal, err)
	}

	return models.FromDomainBlockedList(blocked), nil
}

// Вспомогательные методы

const timeLayout = "2006-01-02T15:04Z07:00"

// buildWindows валидирует окна по отдельности и попарно в пределах дня
func (s *Service) buildWindows(consultant *domain.Consultant, inputs []models.WindowInput) ([]*domain.AvailabilityWindow, error) {
	windows := make([]*domain.AvailabilityWindow, 0, len(inputs))

	for i, in := range inputs {
		start, err := types.NewTimeStringFromString(in.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: window %d start: %w", domain.ErrInvalidInput, i, err)
		}
		end, err := types.NewTimeStringFromString(in.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: window %d end: %w", domain.ErrInvalidInput, i, err)
		}

		tzName := in.Timezone
		if tzName == "" {
			tzName = consultant.Timezone
		}

		w := &domain.AvailabilityWindow{
			ConsultantID:        consultant.ID,
			DayOfWeek:           in.DayOfWeek,
			StartTime:           start,
			EndTime:             end,
			Timezone:            tzName,
			SlotIntervalMinutes: in.SlotIntervalMinutes,
			IsActive:            true,
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		if w.Timezone != consultant.Timezone {
			return nil, fmt.Errorf("%w: window %d has %q, consultant has %q",
				ErrTimezoneMismatch, i, w.Timezone, consultant.Timezone)
		}

		windows = append(windows, w)
	}

	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].DayOfWeek != windows[j].DayOfWeek {
			return windows[i].DayOfWeek < windows[j].DayOfWeek
		}
		a, _, _ := windows[i].Minutes()
		b, _, _ := windows[j].Minutes()
		return a < b
	})

	// После сортировки достаточно сравнить соседей одного дня
	for i := 1; i < len(windows); i++ {
		if windows[i-1].OverlapsWallClock(windows[i]) {
			return nil, fmt.Errorf("%w: %s %s-%s and %s-%s", ErrWindowsOverlap,
				windows[i].DayOfWeek, windows[i-1].StartTime, windows[i-1].EndTime,
				windows[i].StartTime, windows[i].EndTime)
		}
	}

	return windows, nil
}

func (s *Service) checkManageAccess(ctx context.Context, op string, identity domain.Identity, consultantID int64) (*domain.Consultant, error) {
	consultant, err := s.consultantRepo.GetByID(ctx, consultantID)
	if err != nil {
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			s.logger.Warn("%s: consultant id=%d not found", op, consultantID)
			return nil, ErrConsultantNotFound
		}
		s.logger.Error("%s: failed to get consultant id=%d: %v", op, consultantID, err)
		return nil, fmt.Errorf("%w: %s - get consultant: %w", domain.ErrInternal, op, err)
	}

	if !identity.CanManage(consultant) {
		s.logger.Warn("%s: user=%d cannot manage consultant=%d", op, identity.UserID, consultantID)
		return nil, ErrAccessDenied
	}

	return consultant, nil
}
