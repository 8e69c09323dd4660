package memstore

import (
	"context"
	"sort"

	"github.com/m04kA/consult-booking/internal/domain"
	catalogRepo "github.com/m04kA/consult-booking/internal/infra/storage/catalog"
)

func (s *Store) ListTemplates(_ context.Context, activeOnly bool) ([]*domain.ServiceTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.ServiceTemplate, 0)
	for _, t := range s.data.templates {
		if activeOnly && !t.IsActive {
			continue
		}
		t := t
		result = append(result, &t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderIndex != result[j].OrderIndex {
			return result[i].OrderIndex < result[j].OrderIndex
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) GetTemplateByID(_ context.Context, id int64) (*domain.ServiceTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.templates[id]
	if !ok {
		return nil, catalogRepo.ErrTemplateNotFound
	}
	return &t, nil
}

func (s *Store) UpsertTemplate(_ context.Context, t *domain.ServiceTemplate) (*domain.ServiceTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.data.templates {
		if other.Name == t.Name && other.ID != t.ID {
			return nil, catalogRepo.ErrDuplicate
		}
	}
	saved := *t
	if saved.ID == 0 {
		saved.ID = s.id()
		saved.CreatedAt = s.now()
	} else {
		existing, ok := s.data.templates[saved.ID]
		if !ok {
			return nil, catalogRepo.ErrTemplateNotFound
		}
		saved.CreatedAt = existing.CreatedAt
	}
	saved.UpdatedAt = s.now()
	s.data.templates[saved.ID] = saved
	return &saved, nil
}

func (s *Store) ListDurations(_ context.Context, templateID int64, activeOnly bool) ([]*domain.DurationOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.DurationOption, 0)
	for _, o := range s.data.durations {
		if o.TemplateID != templateID || (activeOnly && !o.IsActive) {
			continue
		}
		o := o
		result = append(result, &o)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderIndex != result[j].OrderIndex {
			return result[i].OrderIndex < result[j].OrderIndex
		}
		return result[i].DurationMinutes < result[j].DurationMinutes
	})
	return result, nil
}

func (s *Store) GetDurationOptionByID(_ context.Context, id int64) (*domain.DurationOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data.durations[id]
	if !ok {
		return nil, catalogRepo.ErrDurationOptionNotFound
	}
	return &o, nil
}

func (s *Store) UpsertDurationOption(_ context.Context, o *domain.DurationOption) (*domain.DurationOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.data.durations {
		if other.TemplateID == o.TemplateID && other.DurationMinutes == o.DurationMinutes && other.ID != o.ID {
			return nil, catalogRepo.ErrDuplicate
		}
	}
	saved := *o
	if saved.ID == 0 {
		saved.ID = s.id()
		saved.CreatedAt = s.now()
	} else {
		existing, ok := s.data.durations[saved.ID]
		if !ok || existing.TemplateID != saved.TemplateID {
			return nil, catalogRepo.ErrDurationOptionNotFound
		}
		saved.CreatedAt = existing.CreatedAt
	}
	saved.UpdatedAt = s.now()
	s.data.durations[saved.ID] = saved
	return &saved, nil
}

func (s *Store) CreateConsultantService(_ context.Context, cs *domain.ConsultantService) (*domain.ConsultantService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.data.services {
		if other.ConsultantID == cs.ConsultantID && other.TemplateID == cs.TemplateID {
			return nil, catalogRepo.ErrServiceAlreadyExists
		}
	}
	created := *cs
	created.ID = s.id()
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	s.data.services[created.ID] = created
	return &created, nil
}

func (s *Store) GetConsultantServiceByID(_ context.Context, id int64) (*domain.ConsultantService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.data.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &cs, nil
}

func (s *Store) ListConsultantServices(_ context.Context, consultantID int64, activeOnly bool) ([]*domain.ConsultantService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.ConsultantService, 0)
	for _, cs := range s.data.services {
		if cs.ConsultantID != consultantID {
			continue
		}
		if activeOnly && (!cs.IsActive || !s.data.templates[cs.TemplateID].IsActive) {
			continue
		}
		cs := cs
		result = append(result, &cs)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := s.data.templates[result[i].TemplateID], s.data.templates[result[j].TemplateID]
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) UpdateConsultantService(_ context.Context, cs *domain.ConsultantService) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data.services[cs.ID]
	if !ok {
		return catalogRepo.ErrServiceNotFound
	}
	existing.CustomDescription = cs.CustomDescription
	existing.LegacyPrice = cs.LegacyPrice
	existing.IsActive = cs.IsActive
	existing.UpdatedAt = s.now()
	s.data.services[cs.ID] = existing
	cs.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) GetActivePrice(ctx context.Context, consultantServiceID, durationOptionID int64) (*domain.ServicePrice, error) {
	p, err := s.GetPrice(ctx, consultantServiceID, durationOptionID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, catalogRepo.ErrPriceNotFound
	}
	return p, nil
}

func (s *Store) GetPrice(_ context.Context, consultantServiceID, durationOptionID int64) (*domain.ServicePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.findPrice(consultantServiceID, durationOptionID); ok {
		return &p, nil
	}
	return nil, catalogRepo.ErrPriceNotFound
}

// UpsertPrice обновляет строку на месте; changed=false, если значения совпали
func (s *Store) UpsertPrice(_ context.Context, p *domain.ServicePrice) (*domain.ServicePrice, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.findPrice(p.ConsultantServiceID, p.DurationOptionID); ok {
		if existing.Price.Equal(p.Price) && existing.IsActive == p.IsActive {
			return &existing, false, nil
		}
		existing.Price = p.Price
		existing.IsActive = p.IsActive
		existing.UpdatedAt = s.now()
		s.data.prices[existing.ID] = existing
		return &existing, true, nil
	}
	created := *p
	created.ID = s.id()
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	s.data.prices[created.ID] = created
	return &created, true, nil
}

func (s *Store) CreateDefaultPrices(_ context.Context, consultantServiceID int64, options []*domain.DurationOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range options {
		if _, ok := s.findPrice(consultantServiceID, o.ID); ok {
			continue
		}
		p := domain.ServicePrice{
			ID:                  s.id(),
			ConsultantServiceID: consultantServiceID,
			DurationOptionID:    o.ID,
			Price:               o.MinPrice,
			CreatedAt:           s.now(),
		}
		p.UpdatedAt = p.CreatedAt
		s.data.prices[p.ID] = p
	}
	return nil
}

func (s *Store) ListPricesByServiceIDs(_ context.Context, serviceIDs []int64, activeOnly bool) ([]*domain.ServicePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int64]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		wanted[id] = struct{}{}
	}
	result := make([]*domain.ServicePrice, 0)
	for _, p := range s.data.prices {
		if _, ok := wanted[p.ConsultantServiceID]; !ok || (activeOnly && !p.IsActive) {
			continue
		}
		p := p
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ConsultantServiceID != result[j].ConsultantServiceID {
			return result[i].ConsultantServiceID < result[j].ConsultantServiceID
		}
		return result[i].DurationOptionID < result[j].DurationOptionID
	})
	return result, nil
}

func (s *Store) findPrice(consultantServiceID, durationOptionID int64) (domain.ServicePrice, bool) {
	for _, p := range s.data.prices {
		if p.ConsultantServiceID == consultantServiceID && p.DurationOptionID == durationOptionID {
			return p, true
		}
	}
	return domain.ServicePrice{}, false
}
