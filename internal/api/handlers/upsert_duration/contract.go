package upsert_duration

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

type CatalogService interface {
	UpsertDurationOption(ctx context.Context, identity domain.Identity, req *models.UpsertDurationOptionRequest) (*models.DurationOptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
