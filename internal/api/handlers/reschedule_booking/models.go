package reschedule_booking

import (
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/consult-booking/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model; пустые поля наследуются от исходного бронирования
type RescheduleBookingRequest struct {
	StartAt          time.Time `json:"startAt" validate:"required"`
	DurationOptionID *int64    `json:"durationOptionId,omitempty" validate:"omitempty,gt=0"`
	ClientTimezone   *string   `json:"clientTimezone,omitempty" validate:"omitempty,min=1"`
	Notes            *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	Original *models.BookingResponse `json:"original"`
	Booking  *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(identity domain.Identity, bookingID int64) *rescheduleBooking.Request {
	return &rescheduleBooking.Request{
		Identity:         identity,
		BookingID:        bookingID,
		StartAt:          r.StartAt,
		DurationOptionID: r.DurationOptionID,
		ClientTimezone:   r.ClientTimezone,
		Notes:            r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		Original: models.FromDomainBooking(resp.Original),
		Booking:  models.FromDomainBooking(resp.Booking),
	}
}
