package get_available_slots

import (
	"fmt"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ConsultantID <= 0 {
		return fmt.Errorf("%w: consultantID must be positive", domain.ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return ErrInvalidDate
	}

	if !domain.ValidBookingDuration(req.DurationMinutes) {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidDuration, req.DurationMinutes)
	}

	if !tz.ValidTZ(req.ClientTimezone) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, req.ClientTimezone)
	}

	return nil
}
