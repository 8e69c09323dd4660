package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/consult-booking/internal/api/handlers"
)

// RequestIDHeader заголовок с id запроса
const RequestIDHeader = "X-Request-ID"

// RequestID берет id из заголовка или генерирует новый; id попадает в ответ и в тела ошибок
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(handlers.WithRequestID(r.Context(), id)))
	})
}
