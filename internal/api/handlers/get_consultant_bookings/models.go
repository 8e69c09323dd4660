package get_consultant_bookings

import (
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров
// from, to - RFC3339; status - статус бронирования; includeInactive - bool
func ToServiceRequest(r *http.Request, consultantID int64) (*models.ListConsultantBookingsRequest, error) {
	req := &models.ListConsultantBookingsRequest{
		ConsultantID: consultantID,
		Status:       handlers.QueryString(r, "status"),
	}

	var err error
	if req.From, err = parseInstant(r, "from"); err != nil {
		return nil, err
	}
	if req.To, err = parseInstant(r, "to"); err != nil {
		return nil, err
	}
	if req.IncludeInactive, err = handlers.QueryBool(r, "includeInactive"); err != nil {
		return nil, err
	}

	return req, nil
}

func parseInstant(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q, expected RFC3339", domain.ErrInvalidInput, name, raw)
	}
	return &t, nil
}
