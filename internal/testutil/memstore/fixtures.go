package memstore

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/consult-booking/internal/domain"
)

// PricedService результат SeedPricedService
type PricedService struct {
	Template *domain.ServiceTemplate
	Option   *domain.DurationOption
	Service  *domain.ConsultantService
	Price    *domain.ServicePrice
}

// SeedPricedService создает шаблон с вариантом длительности minutes (полоса [50, 500]),
// подключает его консультанту и назначает активную цену price
func (s *Store) SeedPricedService(consultantID int64, minutes int, price string) PricedService {
	ctx := context.Background()

	template, _ := s.UpsertTemplate(ctx, &domain.ServiceTemplate{
		Name:     "Study permit consultation " + decimal.NewFromInt(s.peekID()).String(),
		MinPrice: decimal.NewFromInt(10),
		MaxPrice: decimal.NewFromInt(1000),
		IsActive: true,
	})
	option := s.AddDurationOption(template.ID, minutes)
	service, _ := s.CreateConsultantService(ctx, &domain.ConsultantService{
		ConsultantID: consultantID,
		TemplateID:   template.ID,
		IsActive:     true,
	})
	p, _, _ := s.UpsertPrice(ctx, &domain.ServicePrice{
		ConsultantServiceID: service.ID,
		DurationOptionID:    option.ID,
		Price:               decimal.RequireFromString(price),
		IsActive:            true,
	})

	return PricedService{Template: template, Option: option, Service: service, Price: p}
}

// AddDurationOption добавляет активный вариант длительности с полосой [50, 500]
func (s *Store) AddDurationOption(templateID int64, minutes int) *domain.DurationOption {
	option, _ := s.UpsertDurationOption(context.Background(), &domain.DurationOption{
		TemplateID:      templateID,
		DurationMinutes: minutes,
		MinPrice:        decimal.NewFromInt(50),
		MaxPrice:        decimal.NewFromInt(500),
		IsActive:        true,
	})
	return option
}

func (s *Store) peekID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.nextID + 1
}
