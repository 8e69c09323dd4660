package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceTemplate is an admin-curated catalog entry with a hard price band.
type ServiceTemplate struct {
	ID          int64
	Name        string
	Description string
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	OrderIndex  int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks 0 <= min < max.
func (t *ServiceTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: template name is required", ErrInvalidInput)
	}
	if t.MinPrice.IsNegative() {
		return fmt.Errorf("%w: min price must not be negative", ErrPriceOutOfBand)
	}
	if !t.MinPrice.LessThan(t.MaxPrice) {
		return fmt.Errorf("%w: min price must be below max price", ErrPriceOutOfBand)
	}
	return nil
}

// DurationOption is a sellable duration of a template with its own band.
type DurationOption struct {
	ID              int64
	TemplateID      int64
	DurationMinutes int
	Label           string
	MinPrice        decimal.Decimal
	MaxPrice        decimal.Decimal
	OrderIndex      int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateWithin checks the option's duration and that its band sits inside the template band.
func (o *DurationOption) ValidateWithin(t *ServiceTemplate) error {
	if !ValidBookingDuration(o.DurationMinutes) {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, o.DurationMinutes)
	}
	if !o.MinPrice.LessThan(o.MaxPrice) {
		return fmt.Errorf("%w: min price must be below max price", ErrPriceOutOfBand)
	}
	if o.MinPrice.LessThan(t.MinPrice) || o.MaxPrice.GreaterThan(t.MaxPrice) {
		return fmt.Errorf("%w: band [%s, %s] exceeds template band [%s, %s]",
			ErrPriceOutOfBand, o.MinPrice, o.MaxPrice, t.MinPrice, t.MaxPrice)
	}
	return nil
}

// Contains reports whether price lies in [min, max].
func (o *DurationOption) Contains(price decimal.Decimal) bool {
	return !price.LessThan(o.MinPrice) && !price.GreaterThan(o.MaxPrice)
}

// ConsultantService is a consultant's decision to sell a template.
type ConsultantService struct {
	ID                int64
	ConsultantID      int64
	TemplateID        int64
	CustomDescription *string
	// LegacyPrice is display-only and never used for booking validation.
	LegacyPrice *decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServicePrice is the consultant's price for one duration option of a service.
// (consultant_service, duration_option) is unique, so at most one row is active.
type ServicePrice struct {
	ID                  int64
	ConsultantServiceID int64
	DurationOptionID    int64
	Price               decimal.Decimal
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
