package domain

// Ограничения длительности бронирования
const (
	DurationStepMinutes       = 15
	MinBookingDurationMinutes = 15
	MaxBookingDurationMinutes = 240
)

// Допустимые шаги начала слотов в окне доступности
var AllowedSlotIntervals = []int{15, 30, 60}

// Лимиты текстовых полей
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBlockedReasonLength      = 255
	MaxURLLength                = 2048
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, занимающие время консультанта.
// Используется при генерации слотов, проверке конфликтов и в ограничении EXCLUDE таблицы bookings.
// delayed держит слот до окончания интервала.
// rescheduled слот освобождает, время занимает новое бронирование по rescheduled_to_id.
// cancelled и completed время не занимают.
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusDelayed,
}

// InactiveStatuses статусы, скрываемые из списков по умолчанию
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusRescheduled,
}

// ValidBookingDuration проверяет, что длительность кратна 15 и лежит в [15, 240]
func ValidBookingDuration(minutes int) bool {
	return minutes >= MinBookingDurationMinutes &&
		minutes <= MaxBookingDurationMinutes &&
		minutes%DurationStepMinutes == 0
}

// ValidSlotInterval проверяет шаг слотов окна
func ValidSlotInterval(minutes int) bool {
	for _, allowed := range AllowedSlotIntervals {
		if minutes == allowed {
			return true
		}
	}
	return false
}
