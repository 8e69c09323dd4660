package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_IsBlocking(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{status: StatusPending, want: true},
		{status: StatusConfirmed, want: true},
		{status: StatusDelayed, want: true},
		{status: StatusRescheduled, want: false},
		{status: StatusCancelled, want: false},
		{status: StatusCompleted, want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.want, b.IsBlocking())
		})
	}
}
