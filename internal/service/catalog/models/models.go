package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/consult-booking/internal/domain"
)

// Request модели

// UpsertTemplateRequest запрос на создание/обновление шаблона (ID == 0 - создание)
type UpsertTemplateRequest struct {
	ID          int64
	Name        string
	Description string
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	OrderIndex  int
	IsActive    bool
}

// ToDomain конвертирует запрос в domain модель
func (r *UpsertTemplateRequest) ToDomain() *domain.ServiceTemplate {
	return &domain.ServiceTemplate{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
		OrderIndex:  r.OrderIndex,
		IsActive:    r.IsActive,
	}
}

// UpsertDurationOptionRequest запрос на создание/обновление варианта длительности
type UpsertDurationOptionRequest struct {
	ID              int64
	TemplateID      int64
	DurationMinutes int
	Label           string
	MinPrice        decimal.Decimal
	MaxPrice        decimal.Decimal
	OrderIndex      int
	IsActive        bool
}

// ToDomain конвертирует запрос в domain модель
func (r *UpsertDurationOptionRequest) ToDomain() *domain.DurationOption {
	return &domain.DurationOption{
		ID:              r.ID,
		TemplateID:      r.TemplateID,
		DurationMinutes: r.DurationMinutes,
		Label:           r.Label,
		MinPrice:        r.MinPrice,
		MaxPrice:        r.MaxPrice,
		OrderIndex:      r.OrderIndex,
		IsActive:        r.IsActive,
	}
}

// CreateServiceRequest запрос на подключение шаблона консультантом
type CreateServiceRequest struct {
	ConsultantID      int64
	TemplateID        int64
	CustomDescription *string
}

// UpdateServiceRequest запрос на изменение услуги консультанта
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	ConsultantID      int64
	ServiceID         int64
	CustomDescription *string
	IsActive          *bool
}

// UpsertPriceRequest запрос на установку цены
// IsActive == nil сохраняет текущую активность (новая цена активна)
type UpsertPriceRequest struct {
	ConsultantID        int64
	ConsultantServiceID int64
	DurationOptionID    int64
	Price               decimal.Decimal
	IsActive            *bool
}

// Response модели

// TemplateResponse ответ с данными шаблона
type TemplateResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	MinPrice    decimal.Decimal `json:"minPrice"`
	MaxPrice    decimal.Decimal `json:"maxPrice"`
	OrderIndex  int             `json:"orderIndex"`
	IsActive    bool            `json:"isActive"`
}

// DurationOptionResponse ответ с данными варианта длительности
type DurationOptionResponse struct {
	ID              int64           `json:"id"`
	TemplateID      int64           `json:"templateId"`
	DurationMinutes int             `json:"durationMinutes"`
	Label           string          `json:"label"`
	MinPrice        decimal.Decimal `json:"minPrice"`
	MaxPrice        decimal.Decimal `json:"maxPrice"`
	OrderIndex      int             `json:"orderIndex"`
	IsActive        bool            `json:"isActive"`
}

// PriceResponse цена услуги с метаданными длительности
type PriceResponse struct {
	ID                  int64           `json:"id"`
	ConsultantServiceID int64           `json:"consultantServiceId"`
	DurationOptionID    int64           `json:"durationOptionId"`
	DurationMinutes     int             `json:"durationMinutes"`
	Label               string          `json:"label"`
	Price               decimal.Decimal `json:"price"`
	IsActive            bool            `json:"isActive"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// ServiceResponse услуга консультанта с ценами
type ServiceResponse struct {
	ID           int64            `json:"id"`
	ConsultantID int64            `json:"consultantId"`
	TemplateID   int64            `json:"templateId"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	LegacyPrice  *decimal.Decimal `json:"legacyPrice,omitempty"` // только для отображения
	IsActive     bool             `json:"isActive"`
	Prices       []PriceResponse  `json:"prices"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.ServiceTemplate) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		MinPrice:    t.MinPrice,
		MaxPrice:    t.MaxPrice,
		OrderIndex:  t.OrderIndex,
		IsActive:    t.IsActive,
	}
}

// FromDomainTemplateList конвертирует список шаблонов
func FromDomainTemplateList(templates []*domain.ServiceTemplate) []TemplateResponse {
	resp := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		resp[i] = FromDomainTemplate(t)
	}
	return resp
}

// FromDomainDurationOption конвертирует domain модель в DTO
func FromDomainDurationOption(o *domain.DurationOption) DurationOptionResponse {
	return DurationOptionResponse{
		ID:              o.ID,
		TemplateID:      o.TemplateID,
		DurationMinutes: o.DurationMinutes,
		Label:           o.Label,
		MinPrice:        o.MinPrice,
		MaxPrice:        o.MaxPrice,
		OrderIndex:      o.OrderIndex,
		IsActive:        o.IsActive,
	}
}

// FromDomainDurationOptionList конвертирует список вариантов длительности
func FromDomainDurationOptionList(options []*domain.DurationOption) []DurationOptionResponse {
	resp := make([]DurationOptionResponse, len(options))
	for i, o := range options {
		resp[i] = FromDomainDurationOption(o)
	}
	return resp
}

// FromDomainPrice конвертирует цену, дополняя ее данными варианта длительности
func FromDomainPrice(p *domain.ServicePrice, o *domain.DurationOption) PriceResponse {
	resp := PriceResponse{
		ID:                  p.ID,
		ConsultantServiceID: p.ConsultantServiceID,
		DurationOptionID:    p.DurationOptionID,
		Price:               p.Price,
		IsActive:            p.IsActive,
		UpdatedAt:           p.UpdatedAt,
	}
	if o != nil {
		resp.DurationMinutes = o.DurationMinutes
		resp.Label = o.Label
	}
	return resp
}

// FromDomainService собирает услугу с шаблоном и ценами
func FromDomainService(s *domain.ConsultantService, t *domain.ServiceTemplate, prices []PriceResponse) ServiceResponse {
	resp := ServiceResponse{
		ID:           s.ID,
		ConsultantID: s.ConsultantID,
		TemplateID:   s.TemplateID,
		LegacyPrice:  s.LegacyPrice,
		IsActive:     s.IsActive,
		Prices:       prices,
	}
	if resp.Prices == nil {
		resp.Prices = []PriceResponse{}
	}
	if t != nil {
		resp.Name = t.Name
		resp.Description = t.Description
	}
	// Собственное описание консультанта перекрывает описание шаблона
	if s.CustomDescription != nil && *s.CustomDescription != "" {
		resp.Description = *s.CustomDescription
	}
	return resp
}
