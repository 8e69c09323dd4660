package update_external_refs

import "github.com/m04kA/consult-booking/internal/service/bookings/models"

// UpdateExternalRefsRequest HTTP request model; переданные поля сохраняются как есть
type UpdateExternalRefsRequest struct {
	MeetingURL      *string `json:"meetingUrl,omitempty" validate:"omitempty,url,max=2048"`
	PaymentIntentID *string `json:"paymentIntentId,omitempty" validate:"omitempty,max=255"`
	PaymentStatus   *string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending paid refunded failed"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateExternalRefsRequest) ToServiceRequest(bookingID int64) *models.UpdateExternalRefsRequest {
	return &models.UpdateExternalRefsRequest{
		BookingID:       bookingID,
		MeetingURL:      r.MeetingURL,
		PaymentIntentID: r.PaymentIntentID,
		PaymentStatus:   r.PaymentStatus,
	}
}
