package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/consult-booking/pkg/tz"
	"github.com/m04kA/consult-booking/pkg/types"
)

// WallTime is a recurring weekly wall-clock moment in a named zone.
// It is never an instant on its own; see AvailabilityWindow.Extent.
type WallTime struct {
	DayOfWeek time.Weekday
	TimeOfDay types.TimeString
	Timezone  string
}

// AvailabilityWindow is a recurring weekly bookable range authored in the consultant's zone.
// Timezone is denormalized from the consultant at creation time.
type AvailabilityWindow struct {
	ID                  int64
	ConsultantID        int64
	DayOfWeek           time.Weekday
	StartTime           types.TimeString
	EndTime             types.TimeString // "24:00" allowed
	Timezone            string
	SlotIntervalMinutes int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (w *AvailabilityWindow) Start() WallTime {
	return WallTime{DayOfWeek: w.DayOfWeek, TimeOfDay: w.StartTime, Timezone: w.Timezone}
}

func (w *AvailabilityWindow) End() WallTime {
	return WallTime{DayOfWeek: w.DayOfWeek, TimeOfDay: w.EndTime, Timezone: w.Timezone}
}

// Minutes returns start and end as minutes after local midnight.
func (w *AvailabilityWindow) Minutes() (int, int, error) {
	start, err := w.StartTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	end, err := w.EndTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Validate checks the window on its own, without its neighbours.
func (w *AvailabilityWindow) Validate() error {
	if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week must be 0..6", ErrInvalidInput)
	}
	start, end, err := w.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if start >= end {
		return fmt.Errorf("%w: window start %s must be before end %s", ErrInvalidInput, w.StartTime, w.EndTime)
	}
	if !ValidSlotInterval(w.SlotIntervalMinutes) {
		return fmt.Errorf("%w: slot interval must be one of 15, 30, 60", ErrInvalidInput)
	}
	if !tz.ValidTZ(w.Timezone) {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, w.Timezone)
	}
	return nil
}

// OverlapsWallClock reports whether two windows of the same weekday overlap in wall-clock.
func (w *AvailabilityWindow) OverlapsWallClock(other *AvailabilityWindow) bool {
	if w.DayOfWeek != other.DayOfWeek {
		return false
	}
	aStart, aEnd, errA := w.Minutes()
	bStart, bEnd, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// Extent returns the instant interval the window covers on date, resolving DST
// anomalies with the tz kernel policy.
func (w *AvailabilityWindow) Extent(date tz.Date) (time.Time, time.Time, error) {
	loc, err := tz.Load(w.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	startMin, endMin, err := w.Minutes()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return tz.ToInstant(date.At(startMin), loc), tz.ToInstant(date.At(endMin), loc), nil
}

// BlockedInterval is a one-off unavailability stored as absolute instants.
type BlockedInterval struct {
	ID           int64
	ConsultantID int64
	StartAt      time.Time
	EndAt        time.Time
	Reason       *string
	CreatedAt    time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
