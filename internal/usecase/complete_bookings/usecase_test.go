package complete_bookings

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/testutil/memstore"
	"github.com/m04kA/consult-booking/pkg/logger"
)

type countingMetrics struct {
	total int
}

func (m *countingMetrics) AddAutoCompleted(n int) {
	m.total += n
}

func TestExecute_CompletesConfirmedAfterGrace(t *testing.T) {
	now := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	clock := memstore.NewClock(now)
	store := memstore.New().WithClock(clock)

	add := func(status domain.BookingStatus, end time.Time) *domain.Booking {
		return store.AddBooking(domain.Booking{
			ConsultantID: 1,
			ClientID:     2,
			StartAt:      end.Add(-time.Hour),
			EndAt:        end,
			Status:       status,
		})
	}
	ended := add(domain.StatusConfirmed, now.Add(-time.Hour))
	atCutoff := add(domain.StatusConfirmed, now.Add(-15*time.Minute))
	withinGrace := add(domain.StatusConfirmed, now.Add(-5*time.Minute))
	pending := add(domain.StatusPending, now.Add(-2*time.Hour))
	delayed := add(domain.StatusDelayed, now.Add(-2*time.Hour))

	publisher := &memstore.Publisher{}
	metrics := &countingMetrics{}
	uc := NewUseCase(store, publisher, metrics, 15*time.Minute, logger.NewNop()).WithTimeProvider(clock)

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, metrics.total)

	statusOf := func(b *domain.Booking) domain.BookingStatus {
		stored, err := store.GetByID(context.Background(), b.ID)
		require.NoError(t, err)
		return stored.Status
	}
	assert.Equal(t, domain.StatusCompleted, statusOf(ended))
	assert.Equal(t, domain.StatusCompleted, statusOf(atCutoff))
	assert.Equal(t, domain.StatusConfirmed, statusOf(withinGrace))
	assert.Equal(t, domain.StatusPending, statusOf(pending))
	assert.Equal(t, domain.StatusDelayed, statusOf(delayed))

	assert.Equal(t, []domain.BookingEventType{domain.EventBookingCompleted, domain.EventBookingCompleted}, publisher.Types())

	// Повторный прогон ничего не меняет
	n, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, publisher.Events(), 2)
}

func TestSchedule(t *testing.T) {
	uc := NewUseCase(memstore.New(), nil, nil, 0, logger.NewNop())
	c := cron.New()

	id, err := uc.Schedule(c, "@every 5m")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = uc.Schedule(c, "every now and then")
	assert.Error(t, err)
}
