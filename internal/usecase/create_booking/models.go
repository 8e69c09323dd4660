package create_booking

import (
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Identity            domain.Identity // Кто создает бронирование
	ClientID            int64           // Клиент; 0 - сам вызывающий
	ConsultantID        int64
	ConsultantServiceID int64
	DurationOptionID    int64
	StartAt             time.Time // Абсолютный момент начала
	ClientTimezone      string    // IANA пояс клиента, сохраняется для отображения
	Notes               *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}

// PlaceParams параметры размещения бронирования внутри уже открытой транзакции.
// Используются и при создании, и при переносе.
type PlaceParams struct {
	ClientID            int64
	ConsultantID        int64
	ConsultantServiceID int64
	DurationOptionID    int64
	StartAt             time.Time
	ClientTimezone      string
	Notes               *string
	RescheduledFromID   *int64
}
