package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRescheduled BookingStatus = "rescheduled"
	StatusDelayed     BookingStatus = "delayed"
)

// Valid returns true for known statuses
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduled, StatusDelayed:
		return true
	}
	return false
}

// PaymentStatus is set by the external payment flow and stored opaquely.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// Booking represents a consultation booking. Instants are absolute;
// ClientTimezone is archival metadata for display.
type Booking struct {
	ID                  int64
	ClientID            int64
	ConsultantID        int64
	ConsultantServiceID int64
	DurationOptionID    int64
	StartAt             time.Time
	EndAt               time.Time
	DurationMinutes     int
	ClientTimezone      string
	TotalPrice          decimal.Decimal // frozen at creation
	Status              BookingStatus
	PaymentStatus       PaymentStatus

	PaymentIntentID *string
	MeetingURL      *string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	RescheduledFromID *int64
	RescheduledToID   *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// transitions допустимые переходы статусов
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusRescheduled, StatusDelayed},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusRescheduled, StatusDelayed},
	StatusDelayed:   {StatusCompleted},
}

// CanTransitionTo returns true if the lifecycle allows moving to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsBlocking returns true if the booking occupies the consultant's time
func (b *Booking) IsBlocking() bool {
	for _, s := range BlockingStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// Overlaps reports whether the booking intersects [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartAt, b.EndAt, start, end)
}

// BookingAction is a state transition requested through the API.
type BookingAction string

const (
	ActionConfirm  BookingAction = "confirm"
	ActionCancel   BookingAction = "cancel"
	ActionComplete BookingAction = "complete"
	ActionDelay    BookingAction = "delay"
)

// Target returns the status the action moves a booking to
func (a BookingAction) Target() (BookingStatus, bool) {
	switch a {
	case ActionConfirm:
		return StatusConfirmed, true
	case ActionCancel:
		return StatusCancelled, true
	case ActionComplete:
		return StatusCompleted, true
	case ActionDelay:
		return StatusDelayed, true
	}
	return "", false
}

// ConsultantBookingsFilter фильтр для получения бронирований консультанта
type ConsultantBookingsFilter struct {
	ConsultantID    int64          // Обязательный параметр
	From            *time.Time     // Начало периода (опционально)
	To              *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать отмененные и перенесенные
}

// ExternalRefs are opaque references handed over by external collaborators.
// Nil fields are left unchanged.
type ExternalRefs struct {
	MeetingURL      *string
	PaymentIntentID *string
	PaymentStatus   *PaymentStatus
}

func (r ExternalRefs) IsEmpty() bool {
	return r.MeetingURL == nil && r.PaymentIntentID == nil && r.PaymentStatus == nil
}
