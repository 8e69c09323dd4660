package get_consultant_bookings

import (
	"context"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
)

type BookingService interface {
	ListConsultantBookings(ctx context.Context, identity domain.Identity, req *models.ListConsultantBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
