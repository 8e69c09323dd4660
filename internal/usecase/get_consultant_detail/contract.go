package get_consultant_detail

import (
	"context"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/integrations/profileservice"
	catalogModels "github.com/m04kA/consult-booking/internal/service/catalog/models"
	"github.com/m04kA/consult-booking/internal/usecase/get_available_slots"
)

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
}

// ProfileClient клиент сервиса профилей
type ProfileClient interface {
	GetProfileWithGracefulDegradation(ctx context.Context, consultantID int64) (*profileservice.Profile, error)
}

// ServiceCatalog каталог услуг консультанта с ценами
type ServiceCatalog interface {
	ListServices(ctx context.Context, identity *domain.Identity, consultantID int64, includeInactive bool) ([]catalogModels.ServiceResponse, error)
}

// SlotFinder генератор слотов на дату
type SlotFinder interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
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
