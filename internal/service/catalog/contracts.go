package catalog

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	ListTemplates(ctx context.Context, activeOnly bool) ([]*domain.ServiceTemplate, error)
	GetTemplateByID(ctx context.Context, id int64) (*domain.ServiceTemplate, error)
	UpsertTemplate(ctx context.Context, t *domain.ServiceTemplate) (*domain.ServiceTemplate, error)

	ListDurations(ctx context.Context, templateID int64, activeOnly bool) ([]*domain.DurationOption, error)
	GetDurationOptionByID(ctx context.Context, id int64) (*domain.DurationOption, error)
	UpsertDurationOption(ctx context.Context, o *domain.DurationOption) (*domain.DurationOption, error)

	CreateConsultantService(ctx context.Context, s *domain.ConsultantService) (*domain.ConsultantService, error)
	GetConsultantServiceByID(ctx context.Context, id int64) (*domain.ConsultantService, error)
	ListConsultantServices(ctx context.Context, consultantID int64, activeOnly bool) ([]*domain.ConsultantService, error)
	UpdateConsultantService(ctx context.Context, s *domain.ConsultantService) error

	GetPrice(ctx context.Context, consultantServiceID, durationOptionID int64) (*domain.ServicePrice, error)
	UpsertPrice(ctx context.Context, p *domain.ServicePrice) (*domain.ServicePrice, bool, error)
	CreateDefaultPrices(ctx context.Context, consultantServiceID int64, options []*domain.DurationOption) error
	ListPricesByServiceIDs(ctx context.Context, serviceIDs []int64, activeOnly bool) ([]*domain.ServicePrice, error)
}

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
