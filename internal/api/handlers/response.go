// Package handlers contains helpers shared by the HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/consult-booking/internal/domain"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code          domain.ErrorCode `json:"code"`
	Message       string           `json:"message"`
	CorrelationID string           `json:"correlationId"`
}

// Logger интерфейс для логирования ошибок ответа
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type requestIDKey struct{}

// WithRequestID кладет id запроса в контекст
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID возвращает id запроса; без middleware генерирует новый
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondNoContent отправляет 204
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError отправляет ошибку со стабильным кодом
func RespondError(w http.ResponseWriter, r *http.Request, status int, code domain.ErrorCode, message string) {
	RespondJSON(w, status, ErrorResponse{
		Code:          code,
		Message:       message,
		CorrelationID: RequestID(r.Context()),
	})
}

// RespondBadRequest отправляет 400 InvalidInput
func RespondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	RespondError(w, r, http.StatusBadRequest, domain.CodeInvalidInput, message)
}

// RespondUnauthorized отправляет 401
func RespondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	RespondError(w, r, http.StatusUnauthorized, domain.CodeUnauthorized, message)
}

// RespondForbidden отправляет 403
func RespondForbidden(w http.ResponseWriter, r *http.Request, message string) {
	RespondError(w, r, http.StatusForbidden, domain.CodeForbidden, message)
}

// RespondInternalError отправляет 500 без подробностей, только correlation id
func RespondInternalError(w http.ResponseWriter, r *http.Request) {
	RespondError(w, r, http.StatusInternalServerError, domain.CodeInternal, domain.ErrInternal.Message)
}

// RespondServiceError переводит ошибку сервиса или use case в HTTP ответ.
// Детали внутренних ошибок пишутся в лог вместе с correlation id и не уходят клиенту.
func RespondServiceError(w http.ResponseWriter, r *http.Request, logger Logger, op string, err error) {
	code := domain.CodeOf(err)
	status := StatusOf(code)

	if code == domain.CodeInternal {
		id := RequestID(r.Context())
		logger.Error("%s - internal error: correlation_id=%s, error=%v", op, id, err)
		RespondJSON(w, status, ErrorResponse{Code: code, Message: domain.ErrInternal.Message, CorrelationID: id})
		return
	}

	logger.Warn("%s - %s: %v", op, code, err)

	// Ошибки валидации собираются из наших сообщений, их текст безопасно отдавать целиком
	message := domain.MessageOf(err)
	if code == domain.CodeInvalidInput || code == domain.CodeInvalidTimezone {
		message = err.Error()
	}
	RespondError(w, r, status, code, message)
}

// StatusOf возвращает HTTP статус для кода ошибки
func StatusOf(code domain.ErrorCode) int {
	switch code {
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound, domain.CodeUnknownConsultant:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeInvalidTimezone, domain.CodeInvalidDuration,
		domain.CodeInvalidTransition, domain.CodeAmbiguousLocalTime, domain.CodeNonexistentLocalTime:
		return http.StatusBadRequest
	case domain.CodePriceOutOfBand, domain.CodeTemplateMismatch, domain.CodeNotPriced, domain.CodeOutsideAvailability:
		return http.StatusUnprocessableEntity
	case domain.CodeBlocked, domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
