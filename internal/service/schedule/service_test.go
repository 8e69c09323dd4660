package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	scheduleRepo "github.com/m04kA/consult-booking/internal/infra/storage/schedule"
	"github.com/m04kA/consult-booking/internal/service/schedule/models"
	"github.com/m04kA/consult-booking/internal/testutil/memstore"
	"github.com/m04kA/consult-booking/pkg/logger"
	"github.com/m04kA/consult-booking/pkg/ptr"
)

const toronto = "America/Toronto"

var owner = domain.Identity{UserID: 500, Role: domain.RoleConsultant}

type fixture struct {
	store      *memstore.Store
	tx         *memstore.TxManager
	svc        *Service
	consultant *domain.Consultant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	tx := memstore.NewTxManager(store)
	consultant := store.AddConsultant(domain.Consultant{UserID: owner.UserID, Timezone: toronto, IsActive: true})
	return &fixture{
		store:      store,
		tx:         tx,
		svc:        NewService(store, store.Consultants(), tx, logger.NewNop()),
		consultant: consultant,
	}
}

func window(day time.Weekday, start, end string) models.WindowInput {
	return models.WindowInput{DayOfWeek: day, StartTime: start, EndTime: end, SlotIntervalMinutes: 30}
}

func TestSetWeeklySchedule_ReplacesAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetWeeklySchedule(ctx, owner, &models.SetWeeklyScheduleRequest{
		ConsultantID: f.consultant.ID,
		Windows:      []models.WindowInput{window(time.Monday, "09:00", "12:00")},
	})
	require.NoError(t, err)

	resp, err := f.svc.SetWeeklySchedule(ctx, owner, &models.SetWeeklyScheduleRequest{
		ConsultantID: f.consultant.ID,
		Windows: []models.WindowInput{
			window(time.Tuesday, "13:00", "17:00"),
			window(time.Tuesday, "09:00", "12:00"),
			window(time.Friday, "18:00", "24:00"),
		},
	})
	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, "09:00", resp[0].StartTime)
	assert.Equal(t, toronto, resp[0].Timezone, "timezone defaults to the consultant's")
	assert.Equal(t, "24:00", resp[2].EndTime)

	current, err := f.svc.GetWeeklySchedule(ctx, owner, f.consultant.ID)
	require.NoError(t, err)
	require.Len(t, current, 3)
	for _, w := range current {
		assert.NotEqual(t, int(time.Monday), w.DayOfWeek)
	}
}

func TestSetWeeklySchedule_RejectsWholeSet(t *testing.T) {
	tests := []struct {
		name    string
		windows []models.WindowInput
		code    domain.ErrorCode
		target  error
	}{
		{
			name:    "overlap within a day",
			windows: []models.WindowInput{window(time.Monday, "09:00", "12:00"), window(time.Monday, "11:30", "13:00")},
			target:  ErrWindowsOverlap,
		},
		{
			name:    "start after end",
			windows: []models.WindowInput{window(time.Monday, "12:00", "09:00")},
			code:    domain.CodeInvalidInput,
		},
		{
			name:    "malformed time",
			windows: []models.WindowInput{window(time.Monday, "9am", "12:00")},
			code:    domain.CodeInvalidInput,
		},
		{
			name: "bad slot interval",
			windows: []models.WindowInput{{
				DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 20,
			}},
			code: domain.CodeInvalidInput,
		},
		{
			name: "foreign timezone",
			windows: []models.WindowInput{{
				DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "12:00", Timezone: "Asia/Kolkata", SlotIntervalMinutes: 30,
			}},
			target: ErrTimezoneMismatch,
		},
		{
			name: "unknown timezone",
			windows: []models.WindowInput{{
				DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "12:00", Timezone: "Mars/Olympus", SlotIntervalMinutes: 30,
			}},
			code: domain.CodeInvalidTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.AddWindow(domain.AvailabilityWindow{
				ConsultantID: f.consultant.ID, DayOfWeek: time.Wednesday, StartTime: "10:00", EndTime: "11:00",
				Timezone: toronto, SlotIntervalMinutes: 30, IsActive: true,
			})

			_, err := f.svc.SetWeeklySchedule(context.Background(), owner, &models.SetWeeklyScheduleRequest{
				ConsultantID: f.consultant.ID,
				Windows:      append([]models.WindowInput{window(time.Sunday, "08:00", "09:00")}, tt.windows...),
			})
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			} else {
				assert.Equal(t, tt.code, domain.CodeOf(err))
			}

			current, err := f.svc.GetWeeklySchedule(context.Background(), owner, f.consultant.ID)
			require.NoError(t, err)
			require.Len(t, current, 1, "previous schedule stays in place")
			assert.Equal(t, int(time.Wednesday), current[0].DayOfWeek)
		})
	}
}

func TestSetWeeklySchedule_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.tx.Fail = errors.New("connection reset")

	_, err := f.svc.SetWeeklySchedule(context.Background(), owner, &models.SetWeeklyScheduleRequest{
		ConsultantID: f.consultant.ID,
		Windows:      []models.WindowInput{window(time.Monday, "09:00", "12:00")},
	})

	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestSetWeeklySchedule_Access(t *testing.T) {
	f := newFixture(t)
	req := &models.SetWeeklyScheduleRequest{
		ConsultantID: f.consultant.ID,
		Windows:      []models.WindowInput{window(time.Monday, "09:00", "12:00")},
	}

	_, err := f.svc.SetWeeklySchedule(context.Background(), domain.Identity{UserID: 9, Role: domain.RoleConsultant}, req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.SetWeeklySchedule(context.Background(), domain.Identity{UserID: owner.UserID, Role: domain.RoleClient}, req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.SetWeeklySchedule(context.Background(), domain.Identity{UserID: 1, Role: domain.RoleAdmin}, req)
	assert.NoError(t, err)

	req.ConsultantID = 404
	_, err = f.svc.SetWeeklySchedule(context.Background(), domain.Identity{UserID: 1, Role: domain.RoleAdmin}, req)
	assert.ErrorIs(t, err, ErrConsultantNotFound)
}

func TestBlockedIntervals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	first, err := f.svc.AddBlocked(ctx, owner, &models.AddBlockedRequest{
		ConsultantID: f.consultant.ID,
		StartAt:      day.Add(14 * time.Hour),
		EndAt:        day.Add(15 * time.Hour),
		Reason:       ptr.Ptr("dentist"),
	})
	require.NoError(t, err)

	_, err = f.svc.AddBlocked(ctx, owner, &models.AddBlockedRequest{
		ConsultantID: f.consultant.ID,
		StartAt:      day.Add(9 * time.Hour),
		EndAt:        day.Add(10 * time.Hour),
	})
	require.NoError(t, err)

	list, err := f.svc.ListBlocked(ctx, owner, &models.ListBlockedRequest{
		ConsultantID: f.consultant.ID, From: day, To: day.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].StartAt.Before(list[1].StartAt))

	// Полуоткрытые интервалы: касание по границе не считается пересечением
	touching, err := f.svc.ListBlocked(ctx, owner, &models.ListBlockedRequest{
		ConsultantID: f.consultant.ID, From: day.Add(10 * time.Hour), To: day.Add(14 * time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, touching)

	require.NoError(t, f.svc.RemoveBlocked(ctx, owner, f.consultant.ID, first.ID))
	assert.ErrorIs(t, f.svc.RemoveBlocked(ctx, owner, f.consultant.ID, first.ID), ErrBlockedNotFound)

	list, err = f.svc.ListBlocked(ctx, owner, &models.ListBlockedRequest{
		ConsultantID: f.consultant.ID, From: day, To: day.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddBlocked_Rejects(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2025, 3, 3, 14, 0, 0, 0, time.UTC)
	long := string(make([]byte, domain.MaxBlockedReasonLength+1))

	tests := []struct {
		name     string
		identity domain.Identity
		req      models.AddBlockedRequest
		target   error
	}{
		{
			name:     "empty range",
			identity: owner,
			req:      models.AddBlockedRequest{ConsultantID: f.consultant.ID, StartAt: start, EndAt: start},
			target:   ErrInvalidRange,
		},
		{
			name:     "reason too long",
			identity: owner,
			req:      models.AddBlockedRequest{ConsultantID: f.consultant.ID, StartAt: start, EndAt: start.Add(time.Hour), Reason: &long},
			target:   domain.ErrInvalidInput,
		},
		{
			name:     "client",
			identity: domain.Identity{UserID: 42, Role: domain.RoleClient},
			req:      models.AddBlockedRequest{ConsultantID: f.consultant.ID, StartAt: start, EndAt: start.Add(time.Hour)},
			target:   ErrAccessDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.AddBlocked(context.Background(), tt.identity, &req)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

// recordingRepo пишет порядок вызовов и может вернуть ошибку вставки окна
type recordingRepo struct {
	*memstore.Store
	calls     *[]string
	createErr error
}

func (r recordingRepo) LockConsultant(ctx context.Context, consultantID int64) error {
	*r.calls = append(*r.calls, "lock")
	return r.Store.LockConsultant(ctx, consultantID)
}

func (r recordingRepo) DeactivateWindows(ctx context.Context, consultantID int64) error {
	*r.calls = append(*r.calls, "deactivate")
	return r.Store.DeactivateWindows(ctx, consultantID)
}

func (r recordingRepo) CreateWindow(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	*r.calls = append(*r.calls, "create")
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.Store.CreateWindow(ctx, w)
}

type recordingTx struct {
	*memstore.TxManager
	calls *[]string
}

func (t recordingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	*t.calls = append(*t.calls, "tx")
	return t.TxManager.Do(ctx, fn)
}

func TestSetWeeklySchedule_LocksConsultantBeforeReplacing(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		wantCalls []string
		wantErr   error
	}{
		{
			name:      "replaced",
			wantCalls: []string{"tx", "lock", "deactivate", "create", "create"},
		},
		{
			name:      "concurrent overlap rejected by storage",
			createErr: scheduleRepo.ErrWindowOverlap,
			wantCalls: []string{"tx", "lock", "deactivate", "create"},
			wantErr:   ErrScheduleConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			consultant := store.AddConsultant(domain.Consultant{UserID: owner.UserID, Timezone: toronto, IsActive: true})
			store.AddWindow(domain.AvailabilityWindow{
				ConsultantID: consultant.ID, DayOfWeek: time.Monday, StartTime: "10:00", EndTime: "11:00",
				Timezone: toronto, SlotIntervalMinutes: 30, IsActive: true,
			})

			var calls []string
			repo := recordingRepo{Store: store, calls: &calls, createErr: tt.createErr}
			tx := recordingTx{TxManager: memstore.NewTxManager(store), calls: &calls}
			svc := NewService(repo, store.Consultants(), tx, logger.NewNop())

			_, err := svc.SetWeeklySchedule(context.Background(), owner, &models.SetWeeklyScheduleRequest{
				ConsultantID: consultant.ID,
				Windows: []models.WindowInput{
					window(time.Monday, "09:00", "12:00"),
					window(time.Monday, "13:00", "15:00"),
				},
			})
			assert.Equal(t, tt.wantCalls, calls)

			current, listErr := svc.GetWeeklySchedule(context.Background(), owner, consultant.ID)
			require.NoError(t, listErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
				// Старое расписание сохранилось
				require.Len(t, current, 1)
				assert.Equal(t, "10:00", current[0].StartTime)
				return
			}
			require.NoError(t, err)
			require.Len(t, current, 2)
		})
	}
}
