package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ConsultantID <= 0 {
		return fmt.Errorf("%w: consultantID must be positive", domain.ErrInvalidInput)
	}

	if req.ConsultantServiceID <= 0 {
		return fmt.Errorf("%w: consultantServiceID must be positive", domain.ErrInvalidInput)
	}

	if req.DurationOptionID <= 0 {
		return fmt.Errorf("%w: durationOptionID must be positive", domain.ErrInvalidInput)
	}

	if req.ClientID < 0 {
		return fmt.Errorf("%w: clientID must not be negative", domain.ErrInvalidInput)
	}

	return ValidatePlacement(req.StartAt, req.ClientTimezone, req.Notes)
}

// ValidatePlacement проверяет поля, общие для создания и переноса
func ValidatePlacement(startAt time.Time, clientTimezone string, notes *string) error {
	if startAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", domain.ErrInvalidInput)
	}

	// Слоты начинаются на границе минуты
	if !startAt.Truncate(time.Minute).Equal(startAt) {
		return fmt.Errorf("%w: startAt must be a whole minute", domain.ErrInvalidInput)
	}

	if !tz.ValidTZ(clientTimezone) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, clientTimezone)
	}

	if notes != nil && len(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", domain.ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// containedInWindow проверяет, что [start, end) целиком лежит в протяженности
// одного из окон на дату начала в поясе консультанта
func containedInWindow(windows []*domain.AvailabilityWindow, date tz.Date, start, end time.Time) (bool, error) {
	for _, w := range windows {
		windowStart, windowEnd, err := w.Extent(date)
		if err != nil {
			return false, fmt.Errorf("window id=%d: %w", w.ID, err)
		}
		if !start.Before(windowStart) && !end.After(windowEnd) {
			return true, nil
		}
	}
	return false, nil
}
