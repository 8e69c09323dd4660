package reschedule_booking

import (
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	Identity         domain.Identity
	BookingID        int64
	StartAt          time.Time // Новое начало
	DurationOptionID *int64    // nil - прежняя длительность
	ClientTimezone   *string   // nil - прежний пояс клиента
	Notes            *string   // nil - прежние заметки
}

// Response модель ответа: исходное бронирование в статусе rescheduled и новое в pending
type Response struct {
	Original *domain.Booking
	Booking  *domain.Booking
}
