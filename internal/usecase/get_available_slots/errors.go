package get_available_slots

import "github.com/m04kA/consult-booking/internal/domain"

var (
	// ErrConsultantNotFound возвращается, когда консультант не найден или неактивен
	ErrConsultantNotFound = domain.NewError(domain.CodeUnknownConsultant, "consultant not found")

	// ErrInvalidDate возвращается при некорректной дате запроса
	ErrInvalidDate = domain.NewError(domain.CodeInvalidInput, "date must be YYYY-MM-DD")

	// ErrDuplicateSlot возвращается, если два окна дали одинаковое начало.
	// Пересекающиеся окна запрещены при записи, так что это повреждение данных.
	ErrDuplicateSlot = domain.NewError(domain.CodeInternal, "availability windows produced a duplicate slot")
)
