package get_available_slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// candidate полуоткрытый интервал [start, end) возможного бронирования
type candidate struct {
	start time.Time
	end   time.Time
}

// generateCandidates строит кандидатов по всем окнам дня.
// Шаг делается по шкале моментов от начала окна, поэтому в день перехода на
// летнее время окно, накрывающее разрыв, дает на час меньше слотов, а в день
// перехода на зимнее - на час больше.
func generateCandidates(windows []*domain.AvailabilityWindow, date tz.Date, duration time.Duration) ([]candidate, error) {
	result := make([]candidate, 0)
	seen := make(map[int64]int64)

	for _, w := range windows {
		windowStart, windowEnd, err := w.Extent(date)
		if err != nil {
			return nil, fmt.Errorf("window id=%d: %w", w.ID, err)
		}

		step := time.Duration(w.SlotIntervalMinutes) * time.Minute
		if step <= 0 {
			return nil, fmt.Errorf("window id=%d: slot interval %d", w.ID, w.SlotIntervalMinutes)
		}

		// Последний допустимый слот заканчивается ровно в конце окна
		for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(step) {
			key := start.UnixNano()
			if other, ok := seen[key]; ok {
				return nil, fmt.Errorf("%w: windows %d and %d at %s", ErrDuplicateSlot, other, w.ID, start.UTC().Format(time.RFC3339))
			}
			seen[key] = w.ID
			result = append(result, candidate{start: start, end: start.Add(duration)})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].start.Before(result[j].start)
	})

	return result, nil
}

// filterCandidates отбрасывает кандидатов, пересекающих блокировки и занимающие
// время бронирования, а также начинающихся не позже notBefore.
//
// Пересечение строгое: слот, заканчивающийся ровно в начале блокировки
// или брони, остается доступным.
//
// Примеры (бронь 09:30-10:30):
// - Слот 09:00-09:30 → доступен (граничат)
// - Слот 10:00-10:30 → недоступен
// - Слот 10:30-11:00 → доступен (граничат)
func filterCandidates(
	candidates []candidate,
	blocked []*domain.BlockedInterval,
	bookings []*domain.Booking,
	notBefore time.Time,
) []candidate {
	result := make([]candidate, 0, len(candidates))

	for _, c := range candidates {
		if !c.start.After(notBefore) {
			continue
		}
		if intersectsBlocked(c, blocked) || intersectsBookings(c, bookings) {
			continue
		}
		result = append(result, c)
	}

	return result
}

func intersectsBlocked(c candidate, blocked []*domain.BlockedInterval) bool {
	for _, b := range blocked {
		if domain.Overlaps(c.start, c.end, b.StartAt, b.EndAt) {
			return true
		}
	}
	return false
}

// intersectsBookings учитывает собственную длительность каждой брони
func intersectsBookings(c candidate, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if b.IsBlocking() && b.Overlaps(c.start, c.end) {
			return true
		}
	}
	return false
}

// renderSlots переводит кандидатов в пояс клиента и пояс консультанта
func renderSlots(candidates []candidate, clientLoc, consultantLoc *time.Location) []domain.Slot {
	slots := make([]domain.Slot, len(candidates))
	for i, c := range candidates {
		slots[i] = domain.Slot{
			StartClient:     c.start.In(clientLoc),
			EndClient:       c.end.In(clientLoc),
			StartConsultant: c.start.In(consultantLoc),
		}
	}
	return slots
}

// candidatesRange возвращает общий интервал кандидатов, не уже суток консультанта
func candidatesRange(candidates []candidate, dayStart, dayEnd time.Time) (time.Time, time.Time) {
	from, to := dayStart, dayEnd
	for _, c := range candidates {
		if c.start.Before(from) {
			from = c.start
		}
		if c.end.After(to) {
			to = c.end
		}
	}
	return from, to
}
