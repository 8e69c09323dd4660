package get_consultant_detail

import (
	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/integrations/profileservice"
	catalogModels "github.com/m04kA/consult-booking/internal/service/catalog/models"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// MaxDays наибольший горизонт слотов в карточке консультанта
const MaxDays = 14

// Request модель запроса карточки консультанта
type Request struct {
	ConsultantID    int64
	ViewerTimezone  string // пусто - пояс консультанта
	Days            int    // 0 - без слотов
	DurationMinutes int    // 0 - наименьшая длительность с активной ценой
}

// DaySlots слоты одной даты (в поясе консультанта)
type DaySlots struct {
	Date  tz.Date
	Slots []domain.Slot
}

// Response модель ответа
type Response struct {
	Consultant      *domain.Consultant
	Profile         *profileservice.Profile // nil, если профиля нет или сервис недоступен
	ProfileDegraded bool
	Services        []catalogModels.ServiceResponse
	ViewerTimezone  string
	DurationMinutes int
	Days            []DaySlots
}
