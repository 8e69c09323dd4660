package get_schedule

import "github.com/m04kA/consult-booking/internal/service/schedule/models"

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	ConsultantID int64                   `json:"consultantId"`
	Windows      []models.WindowResponse `json:"windows"`
}
