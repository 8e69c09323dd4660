package catalog

import "github.com/m04kA/consult-booking/internal/domain"

var (
	// ErrTemplateNotFound возвращается, когда шаблон услуги не найден
	ErrTemplateNotFound = domain.NewError(domain.CodeNotFound, "service template not found")

	// ErrTemplateInactive возвращается при подключении неактивного шаблона
	ErrTemplateInactive = domain.NewError(domain.CodeInvalidInput, "service template is not active")

	// ErrDurationOptionNotFound возвращается, когда вариант длительности не найден
	ErrDurationOptionNotFound = domain.NewError(domain.CodeNotFound, "duration option not found")

	// ErrServiceNotFound возвращается, когда услуга консультанта не найдена
	ErrServiceNotFound = domain.NewError(domain.CodeNotFound, "consultant service not found")

	// ErrServiceAlreadyExists возвращается при повторном подключении шаблона
	ErrServiceAlreadyExists = domain.NewError(domain.CodeConflict, "consultant already offers this service template")

	// ErrDuplicate возвращается при дублировании шаблона или длительности
	ErrDuplicate = domain.NewError(domain.CodeConflict, "catalog entry already exists")

	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = domain.NewError(domain.CodeUnknownConsultant, "consultant not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = domain.NewError(domain.CodeForbidden, "access denied")
)
