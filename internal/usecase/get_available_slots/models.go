package get_available_slots

import (
	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ConsultantID    int64   // ID консультанта
	Date            tz.Date // Дата в часовом поясе консультанта
	ClientTimezone  string  // IANA пояс, в котором показываются слоты
	DurationMinutes int     // Желаемая длительность консультации
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ConsultantID       int64
	Date               tz.Date
	ConsultantTimezone string
	ClientTimezone     string
	DurationMinutes    int
	Slots              []domain.Slot // по возрастанию начала
}
