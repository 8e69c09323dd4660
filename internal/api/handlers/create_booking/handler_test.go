package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
	createBooking "github.com/m04kA/consult-booking/internal/usecase/create_booking"
	"github.com/m04kA/consult-booking/pkg/logger"
)

type useCaseStub struct {
	got *createBooking.Request
	err error
}

func (s *useCaseStub) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &createBooking.Response{Booking: &domain.Booking{
		ID:              10,
		ClientID:        req.Identity.UserID,
		ConsultantID:    req.ConsultantID,
		StartAt:         req.StartAt.UTC(),
		EndAt:           req.StartAt.UTC().Add(30 * time.Minute),
		DurationMinutes: 30,
		ClientTimezone:  req.ClientTimezone,
		TotalPrice:      decimal.RequireFromString("120"),
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPending,
	}}, nil
}

const body = `{
	"consultantId": 3,
	"consultantServiceId": 4,
	"durationOptionId": 5,
	"startAt": "2025-03-03T19:30:00+05:30",
	"clientTimezone": "Asia/Kolkata"
}`

func serve(h *Handler, identity *domain.Identity, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload))
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	stub := &useCaseStub{}
	h := NewHandler(stub, logger.NewNop())
	client := domain.Identity{UserID: 42, Role: domain.RoleClient}

	rec := serve(h, &client, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.got)
	assert.Equal(t, client, stub.got.Identity)
	assert.Equal(t, time.Date(2025, 3, 3, 14, 0, 0, 0, time.UTC), stub.got.StartAt.UTC())

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 19, resp.StartClient.Hour())
}

func TestHandle_Errors(t *testing.T) {
	client := domain.Identity{UserID: 42, Role: domain.RoleClient}

	tests := []struct {
		name     string
		identity *domain.Identity
		payload  string
		ucErr    error
		status   int
	}{
		{name: "anonymous", payload: body, status: http.StatusUnauthorized},
		{name: "missing fields", identity: &client, payload: `{"consultantId": 3}`, status: http.StatusBadRequest},
		{name: "unknown field", identity: &client, payload: `{"price": 1}`, status: http.StatusBadRequest},
		{name: "conflict", identity: &client, payload: body, ucErr: domain.ErrConflict, status: http.StatusConflict},
		{name: "outside availability", identity: &client, payload: body, ucErr: domain.ErrOutsideAvailability, status: http.StatusUnprocessableEntity},
		{name: "not priced", identity: &client, payload: body, ucErr: domain.ErrNotPriced, status: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&useCaseStub{err: tt.ucErr}, logger.NewNop())
			rec := serve(h, tt.identity, tt.payload)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
