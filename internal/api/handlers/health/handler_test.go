package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/consult-booking/pkg/logger"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		ping   error
		status int
		body   string
	}{
		{name: "healthy", status: http.StatusOK, body: `"database":"ok"`},
		{name: "database down", ping: errors.New("dial tcp: connection refused"), status: http.StatusServiceUnavailable, body: "database unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(pingerFunc(func(ctx context.Context) error {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return tt.ping
			}), logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}
