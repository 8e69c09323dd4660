package get_consultant_detail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/integrations/profileservice"
	catalogService "github.com/m04kA/consult-booking/internal/service/catalog"
	"github.com/m04kA/consult-booking/internal/testutil/memstore"
	"github.com/m04kA/consult-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/consult-booking/pkg/logger"
	"github.com/m04kA/consult-booking/pkg/types"
	"github.com/m04kA/consult-booking/pkg/tz"
)

const toronto = "America/Toronto"

type stubProfiles struct {
	profile *profileservice.Profile
	err     error
}

func (s stubProfiles) GetProfileWithGracefulDegradation(context.Context, int64) (*profileservice.Profile, error) {
	return s.profile, s.err
}

type fixture struct {
	store      *memstore.Store
	consultant *domain.Consultant
	build      func(profiles ProfileClient) *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	// Воскресенье 2025-03-02 23:30 в Торонто, в UTC уже понедельник
	clock := memstore.NewClock(time.Date(2025, 3, 3, 4, 30, 0, 0, time.UTC))
	store := memstore.New().WithClock(clock)
	consultant := store.AddConsultant(domain.Consultant{UserID: 500, DisplayName: "R. Chen", Timezone: toronto, IsActive: true})
	store.AddWindow(domain.AvailabilityWindow{
		ConsultantID:        consultant.ID,
		DayOfWeek:           time.Monday,
		StartTime:           types.TimeString("09:00"),
		EndTime:             types.TimeString("11:00"),
		Timezone:            toronto,
		SlotIntervalMinutes: 30,
		IsActive:            true,
	})

	log := logger.NewNop()
	tx := memstore.NewTxManager(store)
	catalog := catalogService.NewService(store, store.Consultants(), tx, log)
	slots := get_available_slots.NewUseCase(store.Consultants(), store, store, nil, 0, log).WithTimeProvider(clock)

	return &fixture{
		store:      store,
		consultant: consultant,
		build: func(profiles ProfileClient) *UseCase {
			return NewUseCase(store.Consultants(), profiles, catalog, slots, log).WithTimeProvider(clock)
		},
	}
}

func TestExecute_FullCard(t *testing.T) {
	f := newFixture(t)
	f.store.SeedPricedService(f.consultant.ID, 60, "150")
	f.store.SeedPricedService(f.consultant.ID, 30, "90")

	uc := f.build(stubProfiles{profile: &profileservice.Profile{ConsultantID: f.consultant.ID, DisplayName: "Rita Chen"}})
	resp, err := uc.Execute(context.Background(), &Request{
		ConsultantID:   f.consultant.ID,
		ViewerTimezone: "Asia/Kolkata",
		Days:           2,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Rita Chen", resp.Profile.DisplayName)
	assert.False(t, resp.ProfileDegraded)
	assert.Len(t, resp.Services, 2)
	assert.Equal(t, 30, resp.DurationMinutes, "smallest priced duration")
	assert.Equal(t, "Asia/Kolkata", resp.ViewerTimezone)

	// Сегодня по Торонто еще воскресенье
	require.Len(t, resp.Days, 2)
	assert.Equal(t, tz.NewDate(2025, 3, 2), resp.Days[0].Date)
	assert.Empty(t, resp.Days[0].Slots)
	assert.Equal(t, tz.NewDate(2025, 3, 3), resp.Days[1].Date)
	require.Len(t, resp.Days[1].Slots, 4)
	assert.Equal(t, "19:30", resp.Days[1].Slots[0].StartClient.Format("15:04"))
}

func TestExecute_DefaultsAndNoSlots(t *testing.T) {
	f := newFixture(t)
	f.store.SeedPricedService(f.consultant.ID, 60, "150")

	resp, err := f.build(nil).Execute(context.Background(), &Request{ConsultantID: f.consultant.ID})
	require.NoError(t, err)

	assert.Nil(t, resp.Profile)
	assert.False(t, resp.ProfileDegraded)
	assert.Equal(t, toronto, resp.ViewerTimezone)
	assert.Empty(t, resp.Days)
	assert.Zero(t, resp.DurationMinutes)
}

func TestExecute_ProfileOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		degraded bool
	}{
		{name: "missing profile", err: profileservice.ErrProfileNotFound, degraded: false},
		{name: "service down", err: fmt.Errorf("%w: timeout", profileservice.ErrServiceDegraded), degraded: true},
		{name: "garbage response", err: profileservice.ErrInvalidResponse, degraded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			resp, err := f.build(stubProfiles{err: tt.err}).Execute(context.Background(), &Request{ConsultantID: f.consultant.ID})

			require.NoError(t, err)
			assert.Nil(t, resp.Profile)
			assert.Equal(t, tt.degraded, resp.ProfileDegraded)
		})
	}
}

func TestExecute_ExplicitDuration(t *testing.T) {
	f := newFixture(t)

	resp, err := f.build(nil).Execute(context.Background(), &Request{
		ConsultantID:    f.consultant.ID,
		Days:            2,
		DurationMinutes: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, 120, resp.DurationMinutes)
	require.Len(t, resp.Days[1].Slots, 1)
	assert.Equal(t, "09:00", resp.Days[1].Slots[0].StartConsultant.Format("15:04"))
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	uc := f.build(nil)

	tests := []struct {
		name string
		req  Request
		err  error
	}{
		{name: "too many days", req: Request{ConsultantID: f.consultant.ID, Days: MaxDays + 1}, err: ErrInvalidDays},
		{name: "negative days", req: Request{ConsultantID: f.consultant.ID, Days: -1}, err: ErrInvalidDays},
		{name: "bad viewer tz", req: Request{ConsultantID: f.consultant.ID, ViewerTimezone: "Moon/Tranquility"}, err: domain.ErrInvalidTimezone},
		{name: "bad duration", req: Request{ConsultantID: f.consultant.ID, DurationMinutes: 20}, err: domain.ErrInvalidDuration},
		{name: "unknown consultant", req: Request{ConsultantID: 4242}, err: ErrConsultantNotFound},
		{name: "nothing priced", req: Request{ConsultantID: f.consultant.ID, Days: 1}, err: ErrNoPricedDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := uc.Execute(context.Background(), &req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), err.Error())
		})
	}
}
