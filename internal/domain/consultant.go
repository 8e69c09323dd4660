package domain

import "time"

// Consultant is created by onboarding; the booking core only reads it.
type Consultant struct {
	ID          int64
	UserID      int64 // account in the identity provider
	DisplayName string
	Timezone    string // IANA home timezone
	Locale      string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
