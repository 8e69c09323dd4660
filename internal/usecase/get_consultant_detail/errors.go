package get_consultant_detail

import "github.com/m04kA/consult-booking/internal/domain"

var (
	// ErrConsultantNotFound возвращается для неизвестного или неактивного консультанта
	ErrConsultantNotFound = domain.NewError(domain.CodeUnknownConsultant, "consultant not found")

	// ErrInvalidDays возвращается при недопустимом горизонте слотов
	ErrInvalidDays = domain.NewError(domain.CodeInvalidInput, "days must be between 0 and 14")

	// ErrNoPricedDuration возвращается, если слоты запрошены, а у консультанта нет ни одной цены
	ErrNoPricedDuration = domain.NewError(domain.CodeNotPriced, "consultant has no priced durations")
)
