package domain

import "time"

// Slot is a bookable start rendered for the client and the consultant.
type Slot struct {
	StartClient     time.Time // in the client's zone
	EndClient       time.Time // in the client's zone
	StartConsultant time.Time // same instant in the consultant's zone
}

// Start returns the slot's start instant in UTC
func (s Slot) Start() time.Time {
	return s.StartClient.UTC()
}

// Duration returns the slot length
func (s Slot) Duration() time.Duration {
	return s.EndClient.Sub(s.StartClient)
}
