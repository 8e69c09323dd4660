package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	getAvailableSlots "github.com/m04kA/consult-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/consult-booking/pkg/logger"
	"github.com/m04kA/consult-booking/pkg/tz"
)

type useCaseStub struct {
	got *getAvailableSlots.Request
	err error
}

func (s *useCaseStub) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	kolkata, _ := tz.Load("Asia/Kolkata")
	toronto, _ := tz.Load("America/Toronto")
	start := time.Date(2025, 3, 3, 14, 0, 0, 0, time.UTC)
	return &getAvailableSlots.Response{
		ConsultantID:       req.ConsultantID,
		Date:               req.Date,
		ConsultantTimezone: "America/Toronto",
		ClientTimezone:     req.ClientTimezone,
		DurationMinutes:    req.DurationMinutes,
		Slots: []domain.Slot{{
			StartClient:     start.In(kolkata),
			EndClient:       start.Add(30 * time.Minute).In(kolkata),
			StartConsultant: start.In(toronto),
		}},
	}, nil
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/consultants/{consultantId}/available-slots", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	stub := &useCaseStub{}
	rec := serve(NewHandler(stub, logger.NewNop()),
		"/api/v1/consultants/3/available-slots?date=2025-03-03&tz=Asia/Kolkata&durationMinutes=30")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), stub.got.ConsultantID)
	assert.Equal(t, "2025-03-03", stub.got.Date.String())
	assert.Equal(t, 30, stub.got.DurationMinutes)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	slots := raw["slots"].([]interface{})
	require.Len(t, slots, 1)
	slot := slots[0].(map[string]interface{})
	assert.Equal(t, "2025-03-03T14:00:00Z", slot["start"])
	assert.Equal(t, "2025-03-03T19:30:00+05:30", slot["startClient"])
	assert.Equal(t, "2025-03-03T09:00:00-05:00", slot["startConsultant"])
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		ucErr  error
		status int
	}{
		{name: "missing date", target: "/api/v1/consultants/3/available-slots?tz=UTC", status: http.StatusBadRequest},
		{name: "bad duration", target: "/api/v1/consultants/3/available-slots?date=2025-03-03&durationMinutes=half", status: http.StatusBadRequest},
		{name: "unknown consultant", target: "/api/v1/consultants/3/available-slots?date=2025-03-03&tz=UTC&durationMinutes=30", ucErr: domain.ErrUnknownConsultant, status: http.StatusNotFound},
		{name: "invalid timezone", target: "/api/v1/consultants/3/available-slots?date=2025-03-03&tz=Nowhere&durationMinutes=30", ucErr: domain.ErrInvalidTimezone, status: http.StatusBadRequest},
		{name: "deadline", target: "/api/v1/consultants/3/available-slots?date=2025-03-03&tz=UTC&durationMinutes=30", ucErr: domain.ErrDeadlineExceeded, status: http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&useCaseStub{err: tt.ucErr}, logger.NewNop()), tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
