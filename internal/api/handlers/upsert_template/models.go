package upsert_template

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/consult-booking/internal/service/catalog/models"
)

// UpsertTemplateRequest HTTP request model; id == 0 - создание
type UpsertTemplateRequest struct {
	ID          int64           `json:"id,omitempty" validate:"omitempty,gt=0"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	MinPrice    decimal.Decimal `json:"minPrice"`
	MaxPrice    decimal.Decimal `json:"maxPrice"`
	OrderIndex  int             `json:"orderIndex"`
	IsActive    *bool           `json:"isActive,omitempty"` // по умолчанию true
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertTemplateRequest) ToServiceRequest() *models.UpsertTemplateRequest {
	return &models.UpsertTemplateRequest{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
		OrderIndex:  r.OrderIndex,
		IsActive:    r.IsActive == nil || *r.IsActive,
	}
}
