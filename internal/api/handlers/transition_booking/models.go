package transition_booking

// TransitionBookingRequest HTTP request model; тело необязательно
type TransitionBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"` // только для cancel
}
