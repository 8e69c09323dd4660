package schedule

import "github.com/m04kA/consult-booking/internal/domain"

var (
	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = domain.NewError(domain.CodeUnknownConsultant, "consultant not found")

	// ErrBlockedNotFound возвращается, когда блокировка времени не найдена
	ErrBlockedNotFound = domain.NewError(domain.CodeNotFound, "blocked interval not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = domain.NewError(domain.CodeForbidden, "access denied")

	// ErrWindowsOverlap возвращается, если окна одного дня пересекаются
	ErrWindowsOverlap = domain.NewError(domain.CodeInvalidInput, "availability windows of the same day must not overlap")

	// ErrScheduleConflict возвращается, если расписание параллельно заменили другим набором
	ErrScheduleConflict = domain.NewError(domain.CodeConflict, "schedule was changed concurrently, retry")

	// ErrTimezoneMismatch возвращается, если часовой пояс окна отличается от домашнего пояса консультанта
	ErrTimezoneMismatch = domain.NewError(domain.CodeInvalidTimezone, "window timezone must equal the consultant's home timezone")

	// ErrInvalidRange возвращается, если начало интервала не раньше конца
	ErrInvalidRange = domain.NewError(domain.CodeInvalidInput, "start must be before end")
)
