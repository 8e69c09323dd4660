package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/testutil/memstore"
	"github.com/m04kA/consult-booking/pkg/logger"
	"github.com/m04kA/consult-booking/pkg/ptr"
	"github.com/m04kA/consult-booking/pkg/types"
)

const toronto = "America/Toronto"

type fixture struct {
	store      *memstore.Store
	tx         *memstore.TxManager
	publisher  *memstore.Publisher
	uc         *UseCase
	consultant *domain.Consultant
	priced     memstore.PricedService
}

func newFixture(t *testing.T, minLead time.Duration) *fixture {
	t.Helper()
	clock := memstore.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	store := memstore.New().WithClock(clock)
	consultant := store.AddConsultant(domain.Consultant{UserID: 500, Timezone: toronto, IsActive: true})
	store.AddWindow(domain.AvailabilityWindow{
		ConsultantID:        consultant.ID,
		DayOfWeek:           time.Monday,
		StartTime:           types.TimeString("09:00"),
		EndTime:             types.TimeString("12:00"),
		Timezone:            toronto,
		SlotIntervalMinutes: 30,
		IsActive:            true,
	})
	priced := store.SeedPricedService(consultant.ID, 60, "120.00")

	tx := memstore.NewTxManager(store)
	publisher := &memstore.Publisher{}
	uc := NewUseCase(store, store.Consultants(), store, store, publisher, nil, tx, minLead, logger.NewNop()).
		WithTimeProvider(clock)

	return &fixture{store: store, tx: tx, publisher: publisher, uc: uc, consultant: consultant, priced: priced}
}

func torontoTime(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(toronto)
	require.NoError(t, err)
	return time.Date(2025, 3, day, hour, minute, 0, 0, loc)
}

func (f *fixture) request(clientID int64, start time.Time) *Request {
	return &Request{
		Identity:            domain.Identity{UserID: clientID, Role: domain.RoleClient},
		ConsultantID:        f.consultant.ID,
		ConsultantServiceID: f.priced.Service.ID,
		DurationOptionID:    f.priced.Option.ID,
		StartAt:             start,
		ClientTimezone:      "Asia/Kolkata",
		Notes:               ptr.Ptr("first visit"),
	}
}

func TestExecute_CreatesPendingBookingWithFrozenPrice(t *testing.T) {
	f := newFixture(t, 0)
	start := torontoTime(t, 3, 10, 0)

	resp, err := f.uc.Execute(context.Background(), f.request(7, start))
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, int64(7), b.ClientID)
	assert.True(t, b.StartAt.Equal(start))
	assert.True(t, b.EndAt.Equal(start.Add(time.Hour)))
	assert.Equal(t, 60, b.DurationMinutes)
	assert.True(t, decimal.RequireFromString("120").Equal(b.TotalPrice))
	assert.Equal(t, "Asia/Kolkata", b.ClientTimezone)
	assert.Equal(t, time.UTC, b.StartAt.Location())

	// Изменение цены после создания не трогает бронирование
	_, _, err = f.store.UpsertPrice(context.Background(), &domain.ServicePrice{
		ConsultantServiceID: f.priced.Service.ID,
		DurationOptionID:    f.priced.Option.ID,
		Price:               decimal.NewFromInt(300),
		IsActive:            true,
	})
	require.NoError(t, err)
	stored, err := f.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("120").Equal(stored.TotalPrice))

	assert.Equal(t, []domain.BookingEventType{domain.EventBookingCreated}, f.publisher.Types())
}

func TestExecute_ConcurrentRaceHasOneWinner(t *testing.T) {
	f := newFixture(t, 0)
	start := torontoTime(t, 3, 10, 0)

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		codes   []domain.ErrorCode
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(clientID int64) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), f.request(clientID, start))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
				return
			}
			codes = append(codes, domain.CodeOf(err))
		}(int64(10 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	for _, code := range codes {
		assert.Equal(t, domain.CodeConflict, code)
	}
	assert.Len(t, f.store.Bookings(), 1)
}

func TestExecute_AdjacentBookingsAllowed(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.uc.Execute(context.Background(), f.request(7, torontoTime(t, 3, 9, 0)))
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background(), f.request(8, torontoTime(t, 3, 10, 0)))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request(9, torontoTime(t, 3, 9, 30)))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_PlacementRejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture, req *Request)
		code  domain.ErrorCode
	}{
		{
			name: "spills past window end",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.StartAt = torontoTime(t, 3, 11, 30)
			},
			code: domain.CodeOutsideAvailability,
		},
		{
			name: "no window on weekday",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.StartAt = torontoTime(t, 4, 10, 0)
			},
			code: domain.CodeOutsideAvailability,
		},
		{
			name: "in the past",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.StartAt = time.Date(2025, 2, 24, 15, 0, 0, 0, time.UTC)
			},
			code: domain.CodeOutsideAvailability,
		},
		{
			name: "blocked",
			setup: func(t *testing.T, f *fixture, req *Request) {
				_, err := f.store.CreateBlocked(context.Background(), &domain.BlockedInterval{
					ConsultantID: f.consultant.ID,
					StartAt:      torontoTime(t, 3, 10, 45),
					EndAt:        torontoTime(t, 3, 11, 15),
				})
				require.NoError(t, err)
			},
			code: domain.CodeBlocked,
		},
		{
			name: "start not on whole minute",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.StartAt = req.StartAt.Add(30 * time.Second)
			},
			code: domain.CodeInvalidInput,
		},
		{
			name: "unknown client timezone",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.ClientTimezone = "Europe/Atlantis"
			},
			code: domain.CodeInvalidTimezone,
		},
		{
			name: "notes too long",
			setup: func(t *testing.T, f *fixture, req *Request) {
				long := make([]byte, domain.MaxNotesLength+1)
				for i := range long {
					long[i] = 'x'
				}
				req.Notes = ptr.Ptr(string(long))
			},
			code: domain.CodeInvalidInput,
		},
		{
			name: "unknown consultant",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.ConsultantID = 9999
			},
			code: domain.CodeUnknownConsultant,
		},
		{
			name: "service of another consultant",
			setup: func(t *testing.T, f *fixture, req *Request) {
				other := f.store.AddConsultant(domain.Consultant{UserID: 501, Timezone: toronto, IsActive: true})
				foreign := f.store.SeedPricedService(other.ID, 60, "100")
				req.ConsultantServiceID = foreign.Service.ID
				req.DurationOptionID = foreign.Option.ID
			},
			code: domain.CodeNotFound,
		},
		{
			name: "option of another template",
			setup: func(t *testing.T, f *fixture, req *Request) {
				other := f.store.SeedPricedService(f.consultant.ID, 30, "80")
				req.DurationOptionID = other.Option.ID
			},
			code: domain.CodeTemplateMismatch,
		},
		{
			name: "no price for duration",
			setup: func(t *testing.T, f *fixture, req *Request) {
				option := f.store.AddDurationOption(f.priced.Template.ID, 90)
				req.DurationOptionID = option.ID
			},
			code: domain.CodeNotPriced,
		},
		{
			name: "inactive price",
			setup: func(t *testing.T, f *fixture, req *Request) {
				_, _, err := f.store.UpsertPrice(context.Background(), &domain.ServicePrice{
					ConsultantServiceID: f.priced.Service.ID,
					DurationOptionID:    f.priced.Option.ID,
					Price:               decimal.NewFromInt(120),
					IsActive:            false,
				})
				require.NoError(t, err)
			},
			code: domain.CodeNotPriced,
		},
		{
			name: "inactive service",
			setup: func(t *testing.T, f *fixture, req *Request) {
				service := *f.priced.Service
				service.IsActive = false
				require.NoError(t, f.store.UpdateConsultantService(context.Background(), &service))
			},
			code: domain.CodeNotPriced,
		},
		{
			name: "band narrowed below active price",
			setup: func(t *testing.T, f *fixture, req *Request) {
				option := *f.priced.Option
				option.MaxPrice = decimal.NewFromInt(100)
				_, err := f.store.UpsertDurationOption(context.Background(), &option)
				require.NoError(t, err)
			},
			code: domain.CodePriceOutOfBand,
		},
		{
			name: "client books for someone else",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.ClientID = 42
			},
			code: domain.CodeForbidden,
		},
		{
			name: "consultant books with a colleague",
			setup: func(t *testing.T, f *fixture, req *Request) {
				req.Identity = domain.Identity{UserID: 777, Role: domain.RoleConsultant}
				req.ClientID = 42
			},
			code: domain.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			req := f.request(7, torontoTime(t, 3, 10, 0))
			tt.setup(t, f, req)

			_, err := f.uc.Execute(context.Background(), req)

			require.Error(t, err)
			assert.Equal(t, tt.code, domain.CodeOf(err), err.Error())
			assert.Empty(t, f.store.Bookings())
			assert.Empty(t, f.publisher.Events())
		})
	}
}

func TestExecute_MinimumLeadTime(t *testing.T) {
	f := newFixture(t, 48*time.Hour)

	// Сейчас 2025-03-01 12:00 UTC, граница 2025-03-03 12:00 UTC = 07:00 Торонто
	_, err := f.uc.Execute(context.Background(), f.request(7, torontoTime(t, 3, 9, 0)))
	require.NoError(t, err)

	f.uc.minLead = 72 * time.Hour
	_, err = f.uc.Execute(context.Background(), f.request(8, torontoTime(t, 3, 11, 0)))
	assert.ErrorIs(t, err, ErrTooSoon)
}

func TestExecute_OnBehalfOfClient(t *testing.T) {
	f := newFixture(t, 0)

	owner := f.request(0, torontoTime(t, 3, 9, 0))
	owner.Identity = domain.Identity{UserID: f.consultant.UserID, Role: domain.RoleConsultant}
	owner.ClientID = 42
	resp, err := f.uc.Execute(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.Booking.ClientID)

	admin := f.request(0, torontoTime(t, 3, 10, 0))
	admin.Identity = domain.Identity{UserID: 1, Role: domain.RoleAdmin}
	admin.ClientID = 43
	resp, err = f.uc.Execute(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, int64(43), resp.Booking.ClientID)
}

func TestExecute_SerializationRetriesExhausted(t *testing.T) {
	f := newFixture(t, 0)
	f.tx.Fail = &pq.Error{Code: "40001", Message: "could not serialize access"}

	_, err := f.uc.Execute(context.Background(), f.request(7, torontoTime(t, 3, 10, 0)))

	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
}

func TestExecute_InternalErrorDoesNotLeak(t *testing.T) {
	f := newFixture(t, 0)
	f.tx.Fail = errors.New("connection reset by peer")

	_, err := f.uc.Execute(context.Background(), f.request(7, torontoTime(t, 3, 10, 0)))

	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))
	assert.Equal(t, "internal error", domain.MessageOf(err))
}

func TestExecute_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, 0)
	f.publisher.Err = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), f.request(7, torontoTime(t, 3, 10, 0)))

	require.NoError(t, err)
	assert.NotZero(t, resp.Booking.ID)
	assert.Len(t, f.store.Bookings(), 1)
}
