package memstore

import (
	"context"
	"sync"

	"github.com/m04kA/consult-booking/internal/domain"
)

// Publisher запоминает опубликованные события
type Publisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent

	// Err, если задан, возвращается из Publish после записи события
	Err error
}

func (p *Publisher) Publish(_ context.Context, event domain.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

// Events возвращает копию опубликованных событий
func (p *Publisher) Events() []domain.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.BookingEvent(nil), p.events...)
}

// Types возвращает типы опубликованных событий по порядку
func (p *Publisher) Types() []domain.BookingEventType {
	events := p.Events()
	types := make([]domain.BookingEventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
