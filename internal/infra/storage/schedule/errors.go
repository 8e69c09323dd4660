package schedule

import "errors"

var (
	// ErrBlockedNotFound возвращается, когда блокировка времени не найдена
	ErrBlockedNotFound = errors.New("schedule.repository: blocked interval not found")

	// ErrWindowOverlap возвращается, если новое активное окно пересекается с уже активным
	ErrWindowOverlap = errors.New("schedule.repository: active windows overlap")

	// ErrTransaction возвращается, если операция требует транзакцию, а ее нет в контексте
	ErrTransaction = errors.New("schedule.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
