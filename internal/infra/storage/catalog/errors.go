package catalog

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон услуги не найден
	ErrTemplateNotFound = errors.New("catalog.repository: template not found")

	// ErrDurationOptionNotFound возвращается, когда вариант длительности не найден
	ErrDurationOptionNotFound = errors.New("catalog.repository: duration option not found")

	// ErrServiceNotFound возвращается, когда услуга консультанта не найдена
	ErrServiceNotFound = errors.New("catalog.repository: consultant service not found")

	// ErrPriceNotFound возвращается, когда активная цена не найдена
	ErrPriceNotFound = errors.New("catalog.repository: price not found")

	// ErrServiceAlreadyExists возвращается при повторном подключении шаблона консультантом
	ErrServiceAlreadyExists = errors.New("catalog.repository: consultant service already exists")

	// ErrDuplicate возвращается при нарушении уникальности шаблона или длительности
	ErrDuplicate = errors.New("catalog.repository: duplicate entry")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
