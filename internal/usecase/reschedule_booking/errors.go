package reschedule_booking

import "github.com/m04kA/consult-booking/internal/domain"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = domain.NewError(domain.CodeNotFound, "booking not found")

	// ErrAccessDenied возвращается, если переносит не клиент бронирования и не администратор
	ErrAccessDenied = domain.NewError(domain.CodeForbidden, "only the client or an admin can reschedule a booking")

	// ErrInvalidTransition возвращается, если статус бронирования не допускает перенос
	ErrInvalidTransition = domain.NewError(domain.CodeInvalidTransition, "booking cannot be rescheduled in its current status")
)
