package handlers

import (
	"time"

	"github.com/m04kA/consult-booking/internal/domain"
)

// SlotResponse слот в трех представлениях одного момента
type SlotResponse struct {
	Start           time.Time `json:"start"`       // UTC
	StartClient     time.Time `json:"startClient"` // со смещением пояса клиента
	EndClient       time.Time `json:"endClient"`
	StartConsultant time.Time `json:"startConsultant"`
}

// FromDomainSlots конвертирует слоты
func FromDomainSlots(slots []domain.Slot) []SlotResponse {
	resp := make([]SlotResponse, len(slots))
	for i, s := range slots {
		resp[i] = SlotResponse{
			Start:           s.Start(),
			StartClient:     s.StartClient,
			EndClient:       s.EndClient,
			StartConsultant: s.StartConsultant,
		}
	}
	return resp
}
