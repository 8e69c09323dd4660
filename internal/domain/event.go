package domain

import "time"

// BookingEventType names a booking state change.
type BookingEventType string

const (
	EventBookingCreated     BookingEventType = "booking.created"
	EventBookingConfirmed   BookingEventType = "booking.confirmed"
	EventBookingCancelled   BookingEventType = "booking.cancelled"
	EventBookingRescheduled BookingEventType = "booking.rescheduled"
	EventBookingCompleted   BookingEventType = "booking.completed"
	EventBookingDelayed     BookingEventType = "booking.delayed"
)

// BookingEvent is published after a state change commits.
type BookingEvent struct {
	ID           string           `json:"id"`
	Type         BookingEventType `json:"type"`
	BookingID    int64            `json:"bookingId"`
	ConsultantID int64            `json:"consultantId"`
	ClientID     int64            `json:"clientId"`
	Status       BookingStatus    `json:"status"`
	StartAt      time.Time        `json:"startAt"`
	OccurredAt   time.Time        `json:"occurredAt"`
}

// NewBookingEvent builds an event for b. ID is assigned by the publisher.
func NewBookingEvent(eventType BookingEventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:         eventType,
		BookingID:    b.ID,
		ConsultantID: b.ConsultantID,
		ClientID:     b.ClientID,
		Status:       b.Status,
		StartAt:      b.StartAt.UTC(),
		OccurredAt:   at.UTC(),
	}
}

// EventTypeFor maps a target status to its event type
func EventTypeFor(status BookingStatus) BookingEventType {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed
	case StatusCancelled:
		return EventBookingCancelled
	case StatusRescheduled:
		return EventBookingRescheduled
	case StatusCompleted:
		return EventBookingCompleted
	case StatusDelayed:
		return EventBookingDelayed
	default:
		return EventBookingCreated
	}
}
