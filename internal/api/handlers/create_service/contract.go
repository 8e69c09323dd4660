package create_service

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

type CatalogService interface {
	CreateConsultantService(ctx context.Context, identity domain.Identity, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
