package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	bookingRepo "github.com/m04kA/consult-booking/internal/infra/storage/booking"
)

// LockConsultant ничего не делает: транзакции TxManager уже выполняются по одной
func (s *Store) LockConsultant(context.Context, int64) error {
	return nil
}

// Create вставляет бронирование, проверяя пересечение занимающих время бронирований
// так же, как ограничение EXCLUDE в базе
func (s *Store) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return s.insertBooking(booking, true)
}

func (s *Store) insertBooking(booking *domain.Booking, checkOverlap bool) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if checkOverlap && booking.IsBlocking() {
		for _, other := range s.data.bookings {
			if other.ConsultantID == booking.ConsultantID && other.IsBlocking() && other.Overlaps(booking.StartAt, booking.EndAt) {
				return nil, bookingRepo.ErrSlotNotAvailable
			}
		}
	}

	created := *booking
	created.ID = s.id()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = s.now()
	}
	created.UpdatedAt = created.CreatedAt
	s.data.bookings[created.ID] = created
	return &created, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (s *Store) ListByClient(_ context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := s.filterBookings(func(b domain.Booking) bool {
		return b.ClientID == clientID && (status == nil || b.Status == *status)
	})
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.After(result[j].StartAt) })
	return result, nil
}

func (s *Store) ListByConsultantWithFilter(_ context.Context, f domain.ConsultantBookingsFilter) ([]*domain.Booking, error) {
	result := s.filterBookings(func(b domain.Booking) bool {
		if b.ConsultantID != f.ConsultantID {
			return false
		}
		if f.From != nil && !b.EndAt.After(*f.From) {
			return false
		}
		if f.To != nil && !b.StartAt.Before(*f.To) {
			return false
		}
		if f.Status != nil {
			return b.Status == *f.Status
		}
		return f.IncludeInactive || (b.Status != domain.StatusCancelled && b.Status != domain.StatusRescheduled)
	})
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (s *Store) ListBlocking(_ context.Context, consultantID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error) {
	result := s.filterBookings(func(b domain.Booking) bool {
		if excludeID != nil && b.ID == *excludeID {
			return false
		}
		return b.ConsultantID == consultantID && b.IsBlocking() && b.Overlaps(from, to)
	})
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (s *Store) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	return s.updateBooking(id, func(b *domain.Booking) {
		b.Status = status
	})
}

func (s *Store) Cancel(_ context.Context, id int64, reason *string) error {
	now := s.clock().UTC()
	return s.updateBooking(id, func(b *domain.Booking) {
		b.Status = domain.StatusCancelled
		b.CancellationReason = reason
		b.CancelledAt = &now
	})
}

func (s *Store) MarkRescheduled(_ context.Context, id, newBookingID int64) error {
	return s.updateBooking(id, func(b *domain.Booking) {
		b.Status = domain.StatusRescheduled
		b.RescheduledToID = &newBookingID
	})
}

func (s *Store) UpdateExternalRefs(_ context.Context, id int64, refs domain.ExternalRefs) error {
	return s.updateBooking(id, func(b *domain.Booking) {
		if refs.MeetingURL != nil {
			b.MeetingURL = refs.MeetingURL
		}
		if refs.PaymentIntentID != nil {
			b.PaymentIntentID = refs.PaymentIntentID
		}
		if refs.PaymentStatus != nil {
			b.PaymentStatus = *refs.PaymentStatus
		}
	})
}

func (s *Store) CompleteExpired(_ context.Context, endedBefore time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for id, b := range s.data.bookings {
		if b.Status != domain.StatusConfirmed || b.EndAt.After(endedBefore) {
			continue
		}
		b.Status = domain.StatusCompleted
		b.UpdatedAt = s.now()
		s.data.bookings[id] = b
		b := b
		result = append(result, &b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) filterBookings(keep func(b domain.Booking) bool) []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range s.data.bookings {
		if keep(b) {
			b := b
			result = append(result, &b)
		}
	}
	return result
}

func (s *Store) updateBooking(id int64, apply func(b *domain.Booking)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	apply(&b)
	b.UpdatedAt = s.now()
	s.data.bookings[id] = b
	return nil
}
