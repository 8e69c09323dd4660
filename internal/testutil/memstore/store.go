// Package memstore is an in-memory implementation of the repositories for use-case tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	scheduleRepo "github.com/m04kA/consult-booking/internal/infra/storage/schedule"
)

type state struct {
	consultants map[int64]domain.Consultant
	templates   map[int64]domain.ServiceTemplate
	durations   map[int64]domain.DurationOption
	services    map[int64]domain.ConsultantService
	prices      map[int64]domain.ServicePrice
	windows     map[int64]domain.AvailabilityWindow
	blocked     map[int64]domain.BlockedInterval
	bookings    map[int64]domain.Booking
	nextID      int64
}

func (s *state) clone() *state {
	c := &state{
		consultants: make(map[int64]domain.Consultant, len(s.consultants)),
		templates:   make(map[int64]domain.ServiceTemplate, len(s.templates)),
		durations:   make(map[int64]domain.DurationOption, len(s.durations)),
		services:    make(map[int64]domain.ConsultantService, len(s.services)),
		prices:      make(map[int64]domain.ServicePrice, len(s.prices)),
		windows:     make(map[int64]domain.AvailabilityWindow, len(s.windows)),
		blocked:     make(map[int64]domain.BlockedInterval, len(s.blocked)),
		bookings:    make(map[int64]domain.Booking, len(s.bookings)),
		nextID:      s.nextID,
	}
	for k, v := range s.consultants {
		c.consultants[k] = v
	}
	for k, v := range s.templates {
		c.templates[k] = v
	}
	for k, v := range s.durations {
		c.durations[k] = v
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.prices {
		c.prices[k] = v
	}
	for k, v := range s.windows {
		c.windows[k] = v
	}
	for k, v := range s.blocked {
		c.blocked[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	return c
}

// Store хранит все сущности в памяти. Реализует интерфейсы репозиториев
// бронирований, каталога, консультантов и расписания.
type Store struct {
	mu    sync.Mutex
	data  *state
	clock func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		data:  (&state{}).clone(),
		clock: time.Now,
	}
}

func (s *Store) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

func (s *Store) now() time.Time {
	return s.clock().UTC()
}

// --- Наполнение ---

// AddConsultant добавляет консультанта; ID назначается, если не задан
func (s *Store) AddConsultant(c domain.Consultant) *domain.Consultant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.data.consultants[c.ID] = c
	return &c
}

// AddWindow добавляет окно доступности
func (s *Store) AddWindow(w domain.AvailabilityWindow) *domain.AvailabilityWindow {
	created, _ := s.CreateWindow(context.Background(), &w)
	return created
}

// AddBooking добавляет бронирование в обход проверок
func (s *Store) AddBooking(b domain.Booking) *domain.Booking {
	created, _ := s.insertBooking(&b, false)
	return created
}

// Bookings возвращает все бронирования по возрастанию ID
func (s *Store) Bookings() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Booking, 0, len(s.data.bookings))
	for _, b := range s.data.bookings {
		b := b
		result = append(result, &b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// --- Консультанты ---

func (s *Store) getConsultant(id int64) (*domain.Consultant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.consultants[id]
	if !ok {
		return nil, consultantRepo.ErrConsultantNotFound
	}
	return &c, nil
}

// Consultants репозиторий консультантов; у Store свой GetByID для бронирований
func (s *Store) Consultants() *Consultants {
	return &Consultants{store: s}
}

// Consultants репозиторий консультантов поверх Store
type Consultants struct {
	store *Store
}

func (c *Consultants) GetByID(_ context.Context, id int64) (*domain.Consultant, error) {
	return c.store.getConsultant(id)
}

// --- Расписание ---

func (s *Store) ListActiveWindows(_ context.Context, consultantID int64, dayOfWeek *time.Weekday) ([]*domain.AvailabilityWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.AvailabilityWindow, 0)
	for _, w := range s.data.windows {
		if w.ConsultantID != consultantID || !w.IsActive {
			continue
		}
		if dayOfWeek != nil && w.DayOfWeek != *dayOfWeek {
			continue
		}
		w := w
		result = append(result, &w)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (s *Store) DeactivateWindows(_ context.Context, consultantID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.data.windows {
		if w.ConsultantID == consultantID && w.IsActive {
			w.IsActive = false
			w.UpdatedAt = s.now()
			s.data.windows[id] = w
		}
	}
	return nil
}

func (s *Store) CreateWindow(_ context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *w
	created.ID = s.id()
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	s.data.windows[created.ID] = created
	return &created, nil
}

func (s *Store) CreateBlocked(_ context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *b
	created.ID = s.id()
	created.CreatedAt = s.now()
	s.data.blocked[created.ID] = created
	return &created, nil
}

func (s *Store) DeleteBlocked(_ context.Context, consultantID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.blocked[id]
	if !ok || b.ConsultantID != consultantID {
		return scheduleRepo.ErrBlockedNotFound
	}
	delete(s.data.blocked, id)
	return nil
}

func (s *Store) ListBlocked(_ context.Context, consultantID int64, from, to time.Time) ([]*domain.BlockedInterval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.BlockedInterval, 0)
	for _, b := range s.data.blocked {
		if b.ConsultantID == consultantID && domain.Overlaps(b.StartAt, b.EndAt, from, to) {
			b := b
			result = append(result, &b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}
