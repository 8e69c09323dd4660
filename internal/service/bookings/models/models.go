package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/tz"
)

// Request модели

// TransitionRequest запрос на смену статуса бронирования
type TransitionRequest struct {
	BookingID int64
	Action    domain.BookingAction
	Reason    *string // только для отмены
}

// ListClientBookingsRequest запрос на получение бронирований клиента
type ListClientBookingsRequest struct {
	ClientID int64
	Status   *string
}

// ListConsultantBookingsRequest запрос на получение бронирований консультанта
type ListConsultantBookingsRequest struct {
	ConsultantID    int64
	From            *time.Time // Начало периода (опционально)
	To              *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить отмененные и перенесенные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListConsultantBookingsRequest) ToDomainFilter() (domain.ConsultantBookingsFilter, error) {
	filter := domain.ConsultantBookingsFilter{
		ConsultantID:    r.ConsultantID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateExternalRefsRequest запрос на сохранение внешних ссылок
type UpdateExternalRefsRequest struct {
	BookingID       int64
	MeetingURL      *string
	PaymentIntentID *string
	PaymentStatus   *string
}

// Response модели

// BookingResponse ответ с данными бронирования.
// StartAt/EndAt в UTC, StartClient/EndClient в часовом поясе клиента.
type BookingResponse struct {
	ID                  int64           `json:"id"`
	ClientID            int64           `json:"clientId"`
	ConsultantID        int64           `json:"consultantId"`
	ConsultantServiceID int64           `json:"consultantServiceId"`
	DurationOptionID    int64           `json:"durationOptionId"`
	StartAt             time.Time       `json:"startAt"`
	EndAt               time.Time       `json:"endAt"`
	StartClient         time.Time       `json:"startClient"`
	EndClient           time.Time       `json:"endClient"`
	DurationMinutes     int             `json:"durationMinutes"`
	ClientTimezone      string          `json:"clientTimezone"`
	TotalPrice          decimal.Decimal `json:"totalPrice"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"paymentStatus"`

	PaymentIntentID *string `json:"paymentIntentId,omitempty"`
	MeetingURL      *string `json:"meetingUrl,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	RescheduledFromID *int64 `json:"rescheduledFromId,omitempty"`
	RescheduledToID   *int64 `json:"rescheduledToId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	// Архивный пояс клиента мог устареть в базе IANA - тогда показываем UTC
	loc, err := tz.Load(b.ClientTimezone)
	if err != nil {
		loc = time.UTC
	}

	return &BookingResponse{
		ID:                  b.ID,
		ClientID:            b.ClientID,
		ConsultantID:        b.ConsultantID,
		ConsultantServiceID: b.ConsultantServiceID,
		DurationOptionID:    b.DurationOptionID,
		StartAt:             b.StartAt.UTC(),
		EndAt:               b.EndAt.UTC(),
		StartClient:         b.StartAt.In(loc),
		EndClient:           b.EndAt.In(loc),
		DurationMinutes:     b.DurationMinutes,
		ClientTimezone:      b.ClientTimezone,
		TotalPrice:          b.TotalPrice,
		Status:              string(b.Status),
		PaymentStatus:       string(b.PaymentStatus),
		PaymentIntentID:     b.PaymentIntentID,
		MeetingURL:          b.MeetingURL,
		Notes:               b.Notes,
		CancellationReason:  b.CancellationReason,
		CancelledAt:         b.CancelledAt,
		RescheduledFromID:   b.RescheduledFromID,
		RescheduledToID:     b.RescheduledToID,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", domain.ErrInvalidInput
	}
	return s, nil
}

// ToDomainPaymentStatus конвертирует строку в domain.PaymentStatus с валидацией
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)
	if !s.Valid() {
		return "", domain.ErrInvalidInput
	}
	return s, nil
}
