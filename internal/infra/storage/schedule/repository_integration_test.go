//go:build integration

package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/testutil/pgtest"
	"github.com/m04kA/consult-booking/pkg/txmanager"
	"github.com/m04kA/consult-booking/pkg/types"
)

func TestRepository_ActiveWindowsExclusion(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	var consultantID int64
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO consultants (user_id, display_name, timezone) VALUES (500, 'Anna', 'America/Toronto') RETURNING id`,
	).Scan(&consultantID))

	newWindow := func(day time.Weekday, start, end string) *domain.AvailabilityWindow {
		return &domain.AvailabilityWindow{
			ConsultantID:        consultantID,
			DayOfWeek:           day,
			StartTime:           types.TimeString(start),
			EndTime:             types.TimeString(end),
			Timezone:            "America/Toronto",
			SlotIntervalMinutes: 30,
		}
	}

	_, err := repo.CreateWindow(ctx, newWindow(time.Monday, "09:00", "12:00"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		day        time.Weekday
		start, end string
		wantErr    error
	}{
		{name: "overlap same day", day: time.Monday, start: "11:00", end: "13:00", wantErr: ErrWindowOverlap},
		{name: "inside", day: time.Monday, start: "10:00", end: "11:00", wantErr: ErrWindowOverlap},
		{name: "touching", day: time.Monday, start: "12:00", end: "14:00"},
		{name: "other day", day: time.Tuesday, start: "09:00", end: "12:00"},
		{name: "until midnight", day: time.Friday, start: "18:00", end: "24:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.CreateWindow(ctx, newWindow(tt.day, tt.start, tt.end))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	// Неактивные окна ограничению не мешают
	require.NoError(t, repo.DeactivateWindows(ctx, consultantID))
	_, err = repo.CreateWindow(ctx, newWindow(time.Monday, "09:00", "12:00"))
	assert.NoError(t, err)

	monday := time.Monday
	active, err := repo.ListActiveWindows(ctx, consultantID, &monday)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "09:00", string(active[0].StartTime))
}

func TestRepository_LockConsultant(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewRepository(db)

	err := repo.LockConsultant(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTransaction)

	err = txmanager.NewTransactionManager(db).DoSerializable(context.Background(), func(txCtx context.Context) error {
		return repo.LockConsultant(txCtx, 1)
	})
	assert.NoError(t, err)
}
