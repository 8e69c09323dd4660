package create_booking

import "github.com/m04kA/consult-booking/internal/domain"

var (
	// ErrConsultantNotFound возвращается, когда консультант не найден или неактивен
	ErrConsultantNotFound = domain.NewError(domain.CodeUnknownConsultant, "consultant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у этого консультанта
	ErrServiceNotFound = domain.NewError(domain.CodeNotFound, "consultant service not found")

	// ErrDurationOptionNotFound возвращается, когда вариант длительности не найден
	ErrDurationOptionNotFound = domain.NewError(domain.CodeNotFound, "duration option not found")

	// ErrServiceInactive возвращается, когда консультант не продает услугу
	ErrServiceInactive = domain.NewError(domain.CodeNotPriced, "consultant service is not active")

	// ErrNotPriced возвращается, когда нет активной цены для длительности
	ErrNotPriced = domain.NewError(domain.CodeNotPriced, "service is not priced for this duration")

	// ErrPriceOutOfBand возвращается, если активная цена вышла из полосы после ее изменения администратором
	ErrPriceOutOfBand = domain.NewError(domain.CodePriceOutOfBand, "active price is outside the current price band")

	// ErrTooSoon возвращается, когда начало раньше минимального запаса времени
	ErrTooSoon = domain.NewError(domain.CodeOutsideAvailability, "booking must start after the minimum lead time")

	// ErrOutsideAvailability возвращается, когда интервал не лежит целиком в одном окне
	ErrOutsideAvailability = domain.NewError(domain.CodeOutsideAvailability, "requested time is outside the consultant's availability")

	// ErrBlocked возвращается, когда интервал пересекает блокировку
	ErrBlocked = domain.NewError(domain.CodeBlocked, "requested time is blocked by the consultant")

	// ErrConflict возвращается, когда интервал пересекает другое бронирование
	ErrConflict = domain.NewError(domain.CodeConflict, "requested time conflicts with another booking")

	// ErrAccessDenied возвращается при бронировании за другого клиента без прав
	ErrAccessDenied = domain.NewError(domain.CodeForbidden, "cannot create a booking for another client")
)
