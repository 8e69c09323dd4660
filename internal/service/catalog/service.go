package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/consult-booking/internal/domain"
	catalogRepo "github.com/m04kA/consult-booking/internal/infra/storage/catalog"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

// Service сервис каталога: шаблоны, длительности, услуги консультантов и решетка цен
type Service struct {
	catalogRepo    CatalogRepository
	consultantRepo ConsultantRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	consultantRepo ConsultantRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo:    catalogRepo,
		consultantRepo: consultantRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// ListTemplates возвращает шаблоны услуг в порядке отображения
func (s *Service) ListTemplates(ctx context.Context, activeOnly bool) ([]models.TemplateResponse, error) {
	templates, err := s.catalogRepo.ListTemplates(ctx, activeOnly)
	if err != nil {
		s.logger.Error("ListTemplates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTemplates - repository error: %w", domain.ErrInternal, err)
	}

	return models.FromDomainTemplateList(templates), nil
}

// ListDurations возвращает варианты длительности шаблона
func (s *Service) ListDurations(ctx context.Context, templateID int64, activeOnly bool) ([]models.DurationOptionResponse, error) {
	if _, err := s.getTemplate(ctx, "ListDurations", templateID); err != nil {
		return nil, err
	}

	options, err := s.catalogRepo.ListDurations(ctx, templateID, activeOnly)
	if err != nil {
		s.logger.Error("ListDurations: repository error for template=%d: %v", templateID, err)
		return nil, fmt.Errorf("%w: ListDurations - repository error: %w", domain.ErrInternal, err)
	}

	return models.FromDomainDurationOptionList(options), nil
}

// UpsertTemplate создает или обновляет шаблон услуги. Только для администратора.
func (s *Service) UpsertTemplate(ctx context.Context, identity domain.Identity, req *models.UpsertTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("UpsertTemplate: template id=%d name=%q by user=%d", req.ID, req.Name, identity.UserID)

	if !identity.IsAdmin() {
		s.logger.Warn("UpsertTemplate: user=%d is not an admin", identity.UserID)
		return nil, ErrAccessDenied
	}

	template := req.ToDomain()
	if err := template.Validate(); err != nil {
		s.logger.Warn("UpsertTemplate: validation failed: %v", err)
		return nil, err
	}

	var saved *domain.ServiceTemplate
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Полосы существующих вариантов длительности должны остаться внутри новой полосы шаблона
		if template.ID != 0 {
			options, err := s.catalogRepo.ListDurations(txCtx, template.ID, false)
			if err != nil {
				return fmt.Errorf("%w: UpsertTemplate - list durations: %w", domain.ErrInternal, err)
			}
			for _, o := range options {
				if err := o.ValidateWithin(template); err != nil {
					return err
				}
			}
		}

		var err error
		saved, err = s.catalogRepo.UpsertTemplate(txCtx, template)
		return err
	})
	if err != nil {
		return nil, s.mapRepoError("UpsertTemplate", err)
	}

	s.logger.Info("UpsertTemplate: saved template id=%d", saved.ID)
	resp := models.FromDomainTemplate(saved)
	return &resp, nil
}

// UpsertDurationOption создает или обновляет вариант длительности шаблона. Только для администратора.
func (s *Service) UpsertDurationOption(ctx context.Context, identity domain.Identity, req *models.UpsertDurationOptionRequest) (*models.DurationOptionResponse, error) {
	s.logger.Info("UpsertDurationOption: option id=%d template=%d duration=%d by user=%d",
		req.ID, req.TemplateID, req.DurationMinutes, identity.UserID)

	if !identity.IsAdmin() {
		s.logger.Warn("UpsertDurationOption: user=%d is not an admin", identity.UserID)
		return nil, ErrAccessDenied
	}

	template, err := s.getTemplate(ctx, "UpsertDurationOption", req.TemplateID)
	if err != nil {
		return nil, err
	}

	option := req.ToDomain()
	if err := option.ValidateWithin(template); err != nil {
		s.logger.Warn("UpsertDurationOption: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.catalogRepo.UpsertDurationOption(ctx, option)
	if err != nil {
		return nil, s.mapRepoError("UpsertDurationOption", err)
	}

	s.logger.Info("UpsertDurationOption: saved option id=%d", saved.ID)
	resp := models.FromDomainDurationOption(saved)
	return &resp, nil
}

// CreateConsultantService подключает шаблон консультанту.
// Для каждого активного варианта длительности создается неактивная цена по минимальной границе.
func (s *Service) CreateConsultantService(ctx context.Context, identity domain.Identity, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateConsultantService: consultant=%d template=%d by user=%d",
		req.ConsultantID, req.TemplateID, identity.UserID)

	// 1. Проверяем права доступа
	if _, err := s.checkManageAccess(ctx, "CreateConsultantService", identity, req.ConsultantID); err != nil {
		return nil, err
	}

	// 2. Проверяем шаблон
	template, err := s.getTemplate(ctx, "CreateConsultantService", req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !template.IsActive {
		s.logger.Warn("CreateConsultantService: template=%d is inactive", template.ID)
		return nil, ErrTemplateInactive
	}

	// 3. Создаем услугу и цены по умолчанию атомарно
	service := &domain.ConsultantService{
		ConsultantID:      req.ConsultantID,
		TemplateID:        req.TemplateID,
		CustomDescription: req.CustomDescription,
		IsActive:          true,
	}
	var options []*domain.DurationOption

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		service, err = s.catalogRepo.CreateConsultantService(txCtx, service)
		if err != nil {
			return err
		}

		options, err = s.catalogRepo.ListDurations(txCtx, template.ID, true)
		if err != nil {
			return err
		}

		return s.catalogRepo.CreateDefaultPrices(txCtx, service.ID, options)
	})
	if err != nil {
		return nil, s.mapRepoError("CreateConsultantService", err)
	}

	s.logger.Info("CreateConsultantService: created service id=%d with %d default prices", service.ID, len(options))

	prices, err := s.catalogRepo.ListPricesByServiceIDs(ctx, []int64{service.ID}, false)
	if err != nil {
		return nil, s.mapRepoError("CreateConsultantService", err)
	}

	resp := models.FromDomainService(service, template, joinPrices(prices, indexOptions(options)))
	return &resp, nil
}

// UpdateConsultantService меняет описание или активность услуги
func (s *Service) UpdateConsultantService(ctx context.Context, identity domain.Identity, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateConsultantService: consultant=%d service=%d by user=%d",
		req.ConsultantID, req.ServiceID, identity.UserID)

	if _, err := s.checkManageAccess(ctx, "UpdateConsultantService", identity, req.ConsultantID); err != nil {
		return nil, err
	}

	service, err := s.getOwnService(ctx, "UpdateConsultantService", req.ConsultantID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	if req.CustomDescription != nil {
		service.CustomDescription = req.CustomDescription
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := s.catalogRepo.UpdateConsultantService(ctx, service); err != nil {
		return nil, s.mapRepoError("UpdateConsultantService", err)
	}

	responses, err := s.buildServices(ctx, []*domain.ConsultantService{service}, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateConsultantService: updated service id=%d active=%t", service.ID, service.IsActive)
	return &responses[0], nil
}

// ListServices возвращает услуги консультанта с ценами.
// Неактивные услуги и цены видны только самому консультанту и администратору.
func (s *Service) ListServices(ctx context.Context, identity *domain.Identity, consultantID int64, includeInactive bool) ([]models.ServiceResponse, error) {
	consultant, err := s.getConsultant(ctx, "ListServices", consultantID)
	if err != nil {
		return nil, err
	}

	if includeInactive && (identity == nil || !identity.CanManage(consultant)) {
		s.logger.Warn("ListServices: inactive services of consultant=%d requested without access", consultantID)
		return nil, ErrAccessDenied
	}

	services, err := s.catalogRepo.ListConsultantServices(ctx, consultantID, !includeInactive)
	if err != nil {
		s.logger.Error("ListServices: repository error for consultant=%d: %v", consultantID, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %w", domain.ErrInternal, err)
	}

	return s.buildServices(ctx, services, !includeInactive)
}

// UpsertPrice устанавливает цену консультанта для пары (услуга, длительность).
// Повторный вызов с теми же аргументами ничего не меняет.
func (s *Service) UpsertPrice(ctx context.Context, identity domain.Identity, req *models.UpsertPriceRequest) (*models.PriceResponse, error) {
	s.logger.Info("UpsertPrice: consultant=%d service=%d option=%d price=%s by user=%d",
		req.ConsultantID, req.ConsultantServiceID, req.DurationOptionID, req.Price, identity.UserID)

	// 1. Проверяем права доступа
	if _, err := s.checkManageAccess(ctx, "UpsertPrice", identity, req.ConsultantID); err != nil {
		return nil, err
	}

	var (
		saved   *domain.ServicePrice
		option  *domain.DurationOption
		changed bool
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Услуга должна принадлежать консультанту
		service, err := s.getOwnService(txCtx, "UpsertPrice", req.ConsultantID, req.ConsultantServiceID)
		if err != nil {
			return err
		}

		// 3. Вариант длительности должен принадлежать шаблону услуги
		option, err = s.catalogRepo.GetDurationOptionByID(txCtx, req.DurationOptionID)
		if err != nil {
			return err
		}
		if option.TemplateID != service.TemplateID {
			return fmt.Errorf("%w: option template=%d, service template=%d",
				domain.ErrTemplateMismatch, option.TemplateID, service.TemplateID)
		}

		// 4. Цена должна лежать в полосе варианта
		if req.Price.IsNegative() || !option.Contains(req.Price) {
			return fmt.Errorf("%w: %s not in [%s, %s]",
				domain.ErrPriceOutOfBand, req.Price, option.MinPrice, option.MaxPrice)
		}

		// 5. Без явного флага сохраняем текущую активность, новая цена активна
		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		} else if existing, err := s.catalogRepo.GetPrice(txCtx, service.ID, option.ID); err == nil {
			active = existing.IsActive
		} else if !errors.Is(err, catalogRepo.ErrPriceNotFound) {
			return err
		}

		// 6. Обновляем на месте или вставляем
		saved, changed, err = s.catalogRepo.UpsertPrice(txCtx, &domain.ServicePrice{
			ConsultantServiceID: service.ID,
			DurationOptionID:    option.ID,
			Price:               req.Price,
			IsActive:            active,
		})
		return err
	})
	if err != nil {
		return nil, s.mapRepoError("UpsertPrice", err)
	}

	s.logger.Info("UpsertPrice: price id=%d saved, changed=%t", saved.ID, changed)
	resp := models.FromDomainPrice(saved, option)
	return &resp, nil
}

// Вспомогательные методы

// buildServices подгружает шаблоны, длительности и цены для списка услуг
func (s *Service) buildServices(ctx context.Context, services []*domain.ConsultantService, activeOnly bool) ([]models.ServiceResponse, error) {
	if len(services) == 0 {
		return []models.ServiceResponse{}, nil
	}

	ids := make([]int64, len(services))
	for i, svc := range services {
		ids[i] = svc.ID
	}

	prices, err := s.catalogRepo.ListPricesByServiceIDs(ctx, ids, activeOnly)
	if err != nil {
		s.logger.Error("buildServices: failed to load prices: %v", err)
		return nil, fmt.Errorf("%w: buildServices - load prices: %w", domain.ErrInternal, err)
	}

	templates := make(map[int64]*domain.ServiceTemplate)
	options := make(map[int64]*domain.DurationOption)
	for _, svc := range services {
		if _, ok := templates[svc.TemplateID]; ok {
			continue
		}
		t, err := s.catalogRepo.GetTemplateByID(ctx, svc.TemplateID)
		if err != nil {
			s.logger.Error("buildServices: failed to load template=%d: %v", svc.TemplateID, err)
			return nil, fmt.Errorf("%w: buildServices - load template: %w", domain.ErrInternal, err)
		}
		templates[t.ID] = t

		opts, err := s.catalogRepo.ListDurations(ctx, t.ID, activeOnly)
		if err != nil {
			s.logger.Error("buildServices: failed to load durations of template=%d: %v", t.ID, err)
			return nil, fmt.Errorf("%w: buildServices - load durations: %w", domain.ErrInternal, err)
		}
		for _, o := range opts {
			options[o.ID] = o
		}
	}

	byService := make(map[int64][]*domain.ServicePrice)
	for _, p := range prices {
		byService[p.ConsultantServiceID] = append(byService[p.ConsultantServiceID], p)
	}

	result := make([]models.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, models.FromDomainService(svc, templates[svc.TemplateID], joinPrices(byService[svc.ID], options)))
	}

	return result, nil
}

// joinPrices соединяет цены с вариантами длительности и сортирует по длительности.
// Цены неизвестных (неактивных) вариантов пропускаются.
func joinPrices(prices []*domain.ServicePrice, options map[int64]*domain.DurationOption) []models.PriceResponse {
	result := make([]models.PriceResponse, 0, len(prices))
	for _, p := range prices {
		o, ok := options[p.DurationOptionID]
		if !ok {
			continue
		}
		result = append(result, models.FromDomainPrice(p, o))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DurationMinutes < result[j].DurationMinutes
	})
	return result
}

func indexOptions(options []*domain.DurationOption) map[int64]*domain.DurationOption {
	m := make(map[int64]*domain.DurationOption, len(options))
	for _, o := range options {
		m[o.ID] = o
	}
	return m
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

// checkManageAccess проверяет, что пользователь - сам консультант или администратор
func (s *Service) checkManageAccess(ctx context.Context, op string, identity domain.Identity, consultantID int64) (*domain.Consultant, error) {
	consultant, err := s.getConsultant(ctx, op, consultantID)
	if err != nil {
		return nil, err
	}
	if !identity.CanManage(consultant) {
		s.logger.Warn("%s: user=%d cannot manage consultant=%d", op, identity.UserID, consultantID)
		return nil, ErrAccessDenied
	}
	return consultant, nil
}

func (s *Service) getTemplate(ctx context.Context, op string, templateID int64) (*domain.ServiceTemplate, error) {
	template, err := s.catalogRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTemplateNotFound) {
			s.logger.Warn("%s: template id=%d not found", op, templateID)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("%s: failed to get template id=%d: %v", op, templateID, err)
		return nil, fmt.Errorf("%w: %s - get template: %w", domain.ErrInternal, op, err)
	}
	return template, nil
}

// getOwnService возвращает услугу, только если она принадлежит консультанту
func (s *Service) getOwnService(ctx context.Context, op string, consultantID, serviceID int64) (*domain.ConsultantService, error) {
	service, err := s.catalogRepo.GetConsultantServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, serviceID)
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if service.ConsultantID != consultantID {
		s.logger.Warn("%s: service id=%d belongs to consultant=%d, not %d", op, serviceID, service.ConsultantID, consultantID)
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// mapRepoError переводит ошибки репозитория в ошибки сервиса
func (s *Service) mapRepoError(op string, err error) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de) && de.Code != domain.CodeInternal:
		s.logger.Warn("%s: rejected: %v", op, err)
		return err
	case errors.Is(err, catalogRepo.ErrTemplateNotFound):
		return ErrTemplateNotFound
	case errors.Is(err, catalogRepo.ErrDurationOptionNotFound):
		return ErrDurationOptionNotFound
	case errors.Is(err, catalogRepo.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, catalogRepo.ErrServiceAlreadyExists):
		s.logger.Warn("%s: service already exists", op)
		return ErrServiceAlreadyExists
	case errors.Is(err, catalogRepo.ErrDuplicate):
		s.logger.Warn("%s: duplicate entry: %v", op, err)
		return ErrDuplicate
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %w", domain.ErrInternal, op, err)
	}
}
