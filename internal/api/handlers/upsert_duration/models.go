package upsert_duration

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

// UpsertDurationRequest HTTP request model; id == 0 - создание
type UpsertDurationRequest struct {
	ID              int64           `json:"id,omitempty" validate:"omitempty,gt=0"`
	DurationMinutes int             `json:"durationMinutes" validate:"required,gt=0"`
	Label           string          `json:"label" validate:"required,max=100"`
	MinPrice        decimal.Decimal `json:"minPrice"`
	MaxPrice        decimal.Decimal `json:"maxPrice"`
	OrderIndex      int             `json:"orderIndex"`
	IsActive        *bool           `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertDurationRequest) ToServiceRequest(templateID int64) *models.UpsertDurationOptionRequest {
	return &models.UpsertDurationOptionRequest{
		ID:              r.ID,
		TemplateID:      templateID,
		DurationMinutes: r.DurationMinutes,
		Label:           r.Label,
		MinPrice:        r.MinPrice,
		MaxPrice:        r.MaxPrice,
		OrderIndex:      r.OrderIndex,
		IsActive:        r.IsActive == nil || *r.IsActive,
	}
}
