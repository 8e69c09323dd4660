package set_schedule

import (
	"time"

	"github.com/m04kA/consult-booking/internal/service/schedule/models"
)

// WindowRequest окно доступности; время - стенное в поясе окна
type WindowRequest struct {
	DayOfWeek           int    `json:"dayOfWeek" validate:"min=0,max=6"` // 0 - воскресенье
	StartTime           string `json:"startTime" validate:"required"`    // "09:00"
	EndTime             string `json:"endTime" validate:"required"`      // "17:00", "24:00"
	Timezone            string `json:"timezone,omitempty"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes" validate:"required,oneof=15 30 60"`
}

// SetScheduleRequest HTTP request model: полная замена недельного расписания
type SetScheduleRequest struct {
	Windows []WindowRequest `json:"windows" validate:"dive"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetScheduleRequest) ToServiceRequest(consultantID int64) *models.SetWeeklyScheduleRequest {
	windows := make([]models.WindowInput, len(r.Windows))
	for i, w := range r.Windows {
		windows[i] = models.WindowInput{
			DayOfWeek:           time.Weekday(w.DayOfWeek),
			StartTime:           w.StartTime,
			EndTime:             w.EndTime,
			Timezone:            w.Timezone,
			SlotIntervalMinutes: w.SlotIntervalMinutes,
		}
	}
	return &models.SetWeeklyScheduleRequest{ConsultantID: consultantID, Windows: windows}
}
