package profileservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/consultants/7/profile":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"consultant_id":7,"display_name":"Asha Rao","license_number":"R123456","languages":["en","hi"]}`))
		case "/internal/consultants/8/profile":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second, nopLogger{})

	t.Run("found", func(t *testing.T) {
		profile, err := client.GetProfile(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", profile.DisplayName)
		assert.Equal(t, "R123456", profile.LicenseNumber)
		assert.Equal(t, []string{"en", "hi"}, profile.Languages)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetProfileWithGracefulDegradation(context.Background(), 8)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("upstream failure degrades", func(t *testing.T) {
		_, err := client.GetProfileWithGracefulDegradation(context.Background(), 9)
		assert.True(t, errors.Is(err, ErrServiceDegraded))
	})
}
