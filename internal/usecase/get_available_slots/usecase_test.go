package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/testutil/memstore"
	"github.com/m04kA/consult-booking/pkg/logger"
	"github.com/m04kA/consult-booking/pkg/tz"
)

const (
	toronto = "America/Toronto"
	kolkata = "Asia/Kolkata"
)

type fixture struct {
	store      *memstore.Store
	clock      *memstore.Clock
	uc         *UseCase
	consultant *domain.Consultant
}

func newFixture(t *testing.T, now time.Time, minLead time.Duration) *fixture {
	t.Helper()
	clock := memstore.NewClock(now)
	store := memstore.New().WithClock(clock)
	consultant := store.AddConsultant(domain.Consultant{UserID: 100, DisplayName: "A. Singh", Timezone: toronto, IsActive: true})

	uc := NewUseCase(store.Consultants(), store, store, nil, minLead, logger.NewNop()).WithTimeProvider(clock)
	return &fixture{store: store, clock: clock, uc: uc, consultant: consultant}
}

func (f *fixture) addWindow(day time.Weekday, start, end string, interval int) {
	f.store.AddWindow(domain.AvailabilityWindow{
		ConsultantID:        f.consultant.ID,
		DayOfWeek:           day,
		StartTime:           mustTimeString(start),
		EndTime:             mustTimeString(end),
		Timezone:            f.consultant.Timezone,
		SlotIntervalMinutes: interval,
		IsActive:            true,
	})
}

func (f *fixture) query(t *testing.T, date tz.Date, clientTZ string, minutes int) *Response {
	t.Helper()
	resp, err := f.uc.Execute(context.Background(), &Request{
		ConsultantID:    f.consultant.ID,
		Date:            date,
		ClientTimezone:  clientTZ,
		DurationMinutes: minutes,
	})
	require.NoError(t, err)
	return resp
}

func at(t *testing.T, name string, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := tz.Load(name)
	require.NoError(t, err)
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func wallClock(slots []domain.Slot, pick func(domain.Slot) time.Time) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = pick(s).Format("15:04")
	}
	return result
}

func clientStarts(slots []domain.Slot) []string {
	return wallClock(slots, func(s domain.Slot) time.Time { return s.StartClient })
}

func consultantStarts(slots []domain.Slot) []string {
	return wallClock(slots, func(s domain.Slot) time.Time { return s.StartConsultant })
}

var march1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestExecute_HappyPathRenderedForClient(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "12:00", 30)

	resp := f.query(t, tz.NewDate(2025, 3, 3), kolkata, 30)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, consultantStarts(resp.Slots))
	// EST -05:00, IST +05:30
	assert.Equal(t, []string{"19:30", "20:00", "20:30", "21:00", "21:30", "22:00"}, clientStarts(resp.Slots))

	for _, s := range resp.Slots {
		assert.Equal(t, 30*time.Minute, s.Duration())
		assert.Equal(t, kolkata, s.StartClient.Location().String())
		assert.True(t, s.StartClient.Equal(s.StartConsultant))
	}
	assert.Equal(t, toronto, resp.ConsultantTimezone)
}

func TestExecute_AfterSpringForward(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Sunday, "09:00", "12:00", 30)
	f.addWindow(time.Monday, "09:00", "12:00", 30)

	// 2025-03-09 воскресенье, переход 02:00 -> 03:00 вне окна
	sunday := f.query(t, tz.NewDate(2025, 3, 9), kolkata, 30)
	monday := f.query(t, tz.NewDate(2025, 3, 10), kolkata, 30)

	for _, resp := range []*Response{sunday, monday} {
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, consultantStarts(resp.Slots))
		// EDT -04:00
		assert.Equal(t, []string{"18:30", "19:00", "19:30", "20:00", "20:30", "21:00"}, clientStarts(resp.Slots))
	}
}

func TestExecute_WindowAcrossDSTGap(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Sunday, "00:00", "06:00", 60)

	resp := f.query(t, tz.NewDate(2025, 3, 9), "UTC", 60)

	// Шесть часов по стене, пять по шкале моментов
	assert.Equal(t, []string{"00:00", "01:00", "03:00", "04:00", "05:00"}, consultantStarts(resp.Slots))
	assert.Equal(t, []string{"05:00", "06:00", "07:00", "08:00", "09:00"}, clientStarts(resp.Slots))
}

func TestExecute_WindowAcrossFallBack(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Sunday, "00:00", "04:00", 60)

	// 2025-11-02: 02:00 EDT -> 01:00 EST, час 01:00 повторяется
	resp := f.query(t, tz.NewDate(2025, 11, 2), "UTC", 60)

	assert.Equal(t, []string{"00:00", "01:00", "01:00", "02:00", "03:00"}, consultantStarts(resp.Slots))
	assert.Equal(t, []string{"04:00", "05:00", "06:00", "07:00", "08:00"}, clientStarts(resp.Slots))
}

func TestExecute_ExcludesOverlappingBooking(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "12:00", 30)
	f.store.AddBooking(domain.Booking{
		ConsultantID:    f.consultant.ID,
		ClientID:        7,
		StartAt:         at(t, toronto, 2025, 3, 3, 9, 30).UTC(),
		EndAt:           at(t, toronto, 2025, 3, 3, 10, 30).UTC(),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	})

	resp := f.query(t, tz.NewDate(2025, 3, 3), toronto, 30)

	assert.Equal(t, []string{"09:00", "10:30", "11:00", "11:30"}, consultantStarts(resp.Slots))
}

func TestExecute_ReleasedBookingsDoNotBlock(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "10:00", 30)
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusRescheduled, domain.StatusCompleted} {
		f.store.AddBooking(domain.Booking{
			ConsultantID: f.consultant.ID,
			StartAt:      at(t, toronto, 2025, 3, 3, 9, 0).UTC(),
			EndAt:        at(t, toronto, 2025, 3, 3, 10, 0).UTC(),
			Status:       status,
		})
	}

	resp := f.query(t, tz.NewDate(2025, 3, 3), toronto, 30)

	assert.Equal(t, []string{"09:00", "09:30"}, consultantStarts(resp.Slots))
}

func TestExecute_ExcludesBlockedInterval(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "12:00", 30)
	_, err := f.store.CreateBlocked(context.Background(), &domain.BlockedInterval{
		ConsultantID: f.consultant.ID,
		StartAt:      at(t, toronto, 2025, 3, 3, 11, 15).UTC(),
		EndAt:        at(t, toronto, 2025, 3, 3, 11, 45).UTC(),
	})
	require.NoError(t, err)

	resp := f.query(t, tz.NewDate(2025, 3, 3), toronto, 30)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, consultantStarts(resp.Slots))
}

func TestExecute_LastSlotEndsAtWindowEnd(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "12:00", 30)

	resp := f.query(t, tz.NewDate(2025, 3, 3), toronto, 90)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, consultantStarts(resp.Slots))
	assert.Equal(t, "12:00", resp.Slots[len(resp.Slots)-1].EndClient.Format("15:04"))
}

func TestExecute_WindowEndingAtMidnight(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "22:00", "24:00", 60)

	resp := f.query(t, tz.NewDate(2025, 3, 3), toronto, 60)

	assert.Equal(t, []string{"22:00", "23:00"}, consultantStarts(resp.Slots))
}

func TestExecute_DurationLongerThanWindow(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "10:00", 30)

	resp := f.query(t, tz.NewDate(2025, 3, 3), toronto, 90)

	assert.Empty(t, resp.Slots)
}

func TestExecute_MinimumLeadAndPast(t *testing.T) {
	now := at(t, toronto, 2025, 3, 3, 9, 40)
	f := newFixture(t, now, time.Hour)
	f.addWindow(time.Monday, "09:00", "12:00", 30)

	today := f.query(t, tz.NewDate(2025, 3, 3), toronto, 30)
	// Начало должно быть строго позже 10:40
	assert.Equal(t, []string{"11:00", "11:30"}, consultantStarts(today.Slots))

	past := f.query(t, tz.NewDate(2025, 2, 24), toronto, 30)
	assert.Empty(t, past.Slots)
}

func TestExecute_NoWindowsOnWeekday(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "12:00", 30)

	resp := f.query(t, tz.NewDate(2025, 3, 4), toronto, 30)

	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InactiveWindowIgnored(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.store.AddWindow(domain.AvailabilityWindow{
		ConsultantID:        f.consultant.ID,
		DayOfWeek:           time.Monday,
		StartTime:           mustTimeString("09:00"),
		EndTime:             mustTimeString("12:00"),
		Timezone:            toronto,
		SlotIntervalMinutes: 30,
		IsActive:            false,
	})

	resp := f.query(t, tz.NewDate(2025, 3, 3), toronto, 30)

	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t, march1, 0)
	inactive := f.store.AddConsultant(domain.Consultant{Timezone: toronto, IsActive: false})

	tests := []struct {
		name string
		req  Request
		code domain.ErrorCode
	}{
		{
			name: "unknown consultant",
			req:  Request{ConsultantID: 999, Date: tz.NewDate(2025, 3, 3), ClientTimezone: toronto, DurationMinutes: 30},
			code: domain.CodeUnknownConsultant,
		},
		{
			name: "inactive consultant",
			req:  Request{ConsultantID: inactive.ID, Date: tz.NewDate(2025, 3, 3), ClientTimezone: toronto, DurationMinutes: 30},
			code: domain.CodeUnknownConsultant,
		},
		{
			name: "bad timezone",
			req:  Request{ConsultantID: f.consultant.ID, Date: tz.NewDate(2025, 3, 3), ClientTimezone: "Mars/Base", DurationMinutes: 30},
			code: domain.CodeInvalidTimezone,
		},
		{
			name: "duration not multiple of 15",
			req:  Request{ConsultantID: f.consultant.ID, Date: tz.NewDate(2025, 3, 3), ClientTimezone: toronto, DurationMinutes: 40},
			code: domain.CodeInvalidDuration,
		},
		{
			name: "duration too long",
			req:  Request{ConsultantID: f.consultant.ID, Date: tz.NewDate(2025, 3, 3), ClientTimezone: toronto, DurationMinutes: 255},
			code: domain.CodeInvalidDuration,
		},
		{
			name: "zero date",
			req:  Request{ConsultantID: f.consultant.ID, ClientTimezone: toronto, DurationMinutes: 30},
			code: domain.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.uc.Execute(context.Background(), &req)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.CodeOf(err))
		})
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	f := newFixture(t, march1, 0)
	f.addWindow(time.Monday, "09:00", "12:00", 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.uc.consultantRepo = failingConsultants{err: context.Canceled}
	_, err := f.uc.Execute(ctx, &Request{
		ConsultantID: f.consultant.ID, Date: tz.NewDate(2025, 3, 3), ClientTimezone: toronto, DurationMinutes: 30,
	})

	assert.Equal(t, domain.CodeDeadlineExceeded, domain.CodeOf(err))
}

func TestGenerateCandidates_DuplicateStart(t *testing.T) {
	windows := []*domain.AvailabilityWindow{
		{ID: 1, DayOfWeek: time.Monday, StartTime: mustTimeString("09:00"), EndTime: mustTimeString("10:00"), Timezone: toronto, SlotIntervalMinutes: 30},
		{ID: 2, DayOfWeek: time.Monday, StartTime: mustTimeString("09:30"), EndTime: mustTimeString("11:00"), Timezone: toronto, SlotIntervalMinutes: 30},
	}

	_, err := generateCandidates(windows, tz.NewDate(2025, 3, 3), 30*time.Minute)

	assert.ErrorIs(t, err, ErrDuplicateSlot)
}

type failingConsultants struct {
	err error
}

func (f failingConsultants) GetByID(context.Context, int64) (*domain.Consultant, error) {
	return nil, f.err
}
