package list_durations

import (
	"context"

	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

type CatalogService interface {
	ListDurations(ctx context.Context, templateID int64, activeOnly bool) ([]models.DurationOptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
