package create_booking

import (
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	createBooking "github.com/m04kA/consult-booking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID            int64     `json:"clientId,omitempty" validate:"omitempty,gt=0"` // по умолчанию - сам вызывающий
	ConsultantID        int64     `json:"consultantId" validate:"required,gt=0"`
	ConsultantServiceID int64     `json:"consultantServiceId" validate:"required,gt=0"`
	DurationOptionID    int64     `json:"durationOptionId" validate:"required,gt=0"`
	StartAt             time.Time `json:"startAt" validate:"required"` // RFC3339 со смещением
	ClientTimezone      string    `json:"clientTimezone" validate:"required"`
	Notes               *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(identity domain.Identity) *createBooking.Request {
	return &createBooking.Request{
		Identity:            identity,
		ClientID:            r.ClientID,
		ConsultantID:        r.ConsultantID,
		ConsultantServiceID: r.ConsultantServiceID,
		DurationOptionID:    r.DurationOptionID,
		StartAt:             r.StartAt,
		ClientTimezone:      r.ClientTimezone,
		Notes:               r.Notes,
	}
}
