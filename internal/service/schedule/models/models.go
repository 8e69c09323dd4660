package models

import (
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// Request модели

// WindowInput окно доступности в запросе на замену расписания
type WindowInput struct {
	DayOfWeek           time.Weekday
	StartTime           string // "HH:MM"
	EndTime             string // "HH:MM", "24:00" - конец дня
	Timezone            string // пусто - домашний пояс консультанта
	SlotIntervalMinutes int
}

// SetWeeklyScheduleRequest запрос на атомарную замену активных окон
type SetWeeklyScheduleRequest struct {
	ConsultantID int64
	Windows      []WindowInput
}

// AddBlockedRequest запрос на блокировку времени
type AddBlockedRequest struct {
	ConsultantID int64
	StartAt      time.Time
	EndAt        time.Time
	Reason       *string
}

// ListBlockedRequest запрос на список блокировок в диапазоне [From, To)
type ListBlockedRequest struct {
	ConsultantID int64
	From         time.Time
	To           time.Time
}

// Response модели

// WindowResponse окно доступности
type WindowResponse struct {
	ID                  int64  `json:"id"`
	DayOfWeek           int    `json:"dayOfWeek"` // 0 - воскресенье
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	Timezone            string `json:"timezone"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
}

// BlockedResponse блокировка времени
type BlockedResponse struct {
	ID      int64     `json:"id"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  *string   `json:"reason,omitempty"`
}

// Методы конвертации

// FromDomainWindows конвертирует список окон
func FromDomainWindows(windows []*domain.AvailabilityWindow) []WindowResponse {
	resp := make([]WindowResponse, len(windows))
	for i, w := range windows {
		resp[i] = WindowResponse{
			ID:                  w.ID,
			DayOfWeek:           int(w.DayOfWeek),
			StartTime:           w.StartTime.String(),
			EndTime:             w.EndTime.String(),
			Timezone:            w.Timezone,
			SlotIntervalMinutes: w.SlotIntervalMinutes,
		}
	}
	return resp
}

// FromDomainBlocked конвертирует блокировку
func FromDomainBlocked(b *domain.BlockedInterval) BlockedResponse {
	return BlockedResponse{
		ID:      b.ID,
		StartAt: b.StartAt.UTC(),
		EndAt:   b.EndAt.UTC(),
		Reason:  b.Reason,
	}
}

// FromDomainBlockedList конвертирует список блокировок
func FromDomainBlockedList(blocked []*domain.BlockedInterval) []BlockedResponse {
	resp := make([]BlockedResponse, len(blocked))
	for i, b := range blocked {
		resp[i] = FromDomainBlocked(b)
	}
	return resp
}
