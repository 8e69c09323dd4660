package get_available_slots

import (
	"github.com/m04kA/consult-booking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/consult-booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ConsultantID       int64                   `json:"consultantId"`
	Date               string                  `json:"date"` // в поясе консультанта
	ConsultantTimezone string                  `json:"consultantTimezone"`
	ClientTimezone     string                  `json:"clientTimezone"`
	DurationMinutes    int                     `json:"durationMinutes"`
	Slots              []handlers.SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		ConsultantID:       resp.ConsultantID,
		Date:               resp.Date.String(),
		ConsultantTimezone: resp.ConsultantTimezone,
		ClientTimezone:     resp.ClientTimezone,
		DurationMinutes:    resp.DurationMinutes,
		Slots:              handlers.FromDomainSlots(resp.Slots),
	}
}
