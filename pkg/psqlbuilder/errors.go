package psqlbuilder

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые репозитории переводят в доменные
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// IsUniqueViolation возвращает true для нарушения UNIQUE ограничения
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsExclusionViolation возвращает true для нарушения EXCLUDE ограничения
func IsExclusionViolation(err error) bool {
	return hasCode(err, codeExclusionViolation)
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == code
}
