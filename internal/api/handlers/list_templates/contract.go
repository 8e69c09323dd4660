package list_templates

import (
	"context"

	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

type CatalogService interface {
	ListTemplates(ctx context.Context, activeOnly bool) ([]models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
