package update_external_refs

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
)

type BookingService interface {
	UpdateExternalRefs(ctx context.Context, identity domain.Identity, req *models.UpdateExternalRefsRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
