package bookings

import "github.com/m04kA/consult-booking/internal/domain"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = domain.NewError(domain.CodeNotFound, "booking not found")

	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = domain.NewError(domain.CodeUnknownConsultant, "consultant not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = domain.NewError(domain.CodeForbidden, "access denied")

	// ErrUnknownAction возвращается для неизвестного действия над бронированием
	ErrUnknownAction = domain.NewError(domain.CodeInvalidInput, "unknown booking action")

	// ErrInvalidStatus возвращается при некорректном статусе в фильтре
	ErrInvalidStatus = domain.NewError(domain.CodeInvalidInput, "invalid booking status")

	// ErrInvalidTransition возвращается, если текущий статус не допускает действие
	ErrInvalidTransition = domain.NewError(domain.CodeInvalidTransition, "booking status does not allow this action")

	// ErrNothingToUpdate возвращается, если не передано ни одной внешней ссылки
	ErrNothingToUpdate = domain.NewError(domain.CodeInvalidInput, "no external references to update")
)
