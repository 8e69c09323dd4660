package list_services

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

type CatalogService interface {
	ListServices(ctx context.Context, identity *domain.Identity, consultantID int64, includeInactive bool) ([]models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
