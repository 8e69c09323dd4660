package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/dbmetrics"
	"github.com/m04kA/consult-booking/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var columns = []string{
	"id",
	"client_id",
	"consultant_id",
	"consultant_service_id",
	"duration_option_id",
	"start_at",
	"end_at",
	"duration_minutes",
	"client_timezone",
	"total_price",
	"status",
	"payment_status",
	"payment_intent_id",
	"meeting_url",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"rescheduled_from_id",
	"rescheduled_to_id",
	"created_at",
	"updated_at",
}

// LockConsultant берет транзакционную advisory-блокировку по консультанту.
// Все проверки и вставка бронирования одного консультанта выполняются строго по очереди;
// блокировка снимается при коммите или откате.
func (r *Repository) LockConsultant(ctx context.Context, consultantID int64) error {
	tx, ok := dbmetrics.GetTx(ctx)
	if !ok {
		return fmt.Errorf("%w: LockConsultant", ErrTransaction)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", consultantID); err != nil {
		return fmt.Errorf("%w: LockConsultant - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Пересечение с другим занимающим время бронированием возвращает ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"client_id",
			"consultant_id",
			"consultant_service_id",
			"duration_option_id",
			"start_at",
			"end_at",
			"duration_minutes",
			"client_timezone",
			"total_price",
			"status",
			"payment_status",
			"notes",
			"rescheduled_from_id",
		).
		Values(
			booking.ClientID,
			booking.ConsultantID,
			booking.ConsultantServiceID,
			booking.DurationOptionID,
			booking.StartAt.UTC(),
			booking.EndAt.UTC(),
			booking.DurationMinutes,
			booking.ClientTimezone,
			booking.TotalPrice,
			booking.Status,
			booking.PaymentStatus,
			booking.Notes,
			booking.RescheduledFromID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if psqlbuilder.IsExclusionViolation(err) {
		return nil, ErrSlotNotAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// В транзакции строка блокируется (FOR UPDATE) до коммита
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListByClient получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) ListByClient(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("start_at DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByConsultantWithFilter получает бронирования консультанта с гибкой фильтрацией
// Поддерживает фильтрацию по:
// - Периоду [From, To) - опционально, по пересечению интервалов
// - Статусу (Status) - опционально
// - Включению отмененных и перенесенных бронирований (IncludeInactive)
//
// Пример: подтвержденные бронирования за неделю
//
//	status := domain.StatusConfirmed
//	filter := domain.ConsultantBookingsFilter{ConsultantID: 7, From: &monday, To: &nextMonday, Status: &status}
func (r *Repository) ListByConsultantWithFilter(ctx context.Context, filter domain.ConsultantBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"consultant_id": filter.ConsultantID}).
		OrderBy("start_at ASC")

	// Фильтрация по периоду
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": filter.To.UTC()})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны неактивные - исключаем их
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByConsultantWithFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByConsultantWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListBlocking возвращает занимающие время бронирования консультанта,
// пересекающие [from, to). excludeID исключает бронирование из выборки (перенос).
func (r *Repository) ListBlocking(ctx context.Context, consultantID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{
			"consultant_id": consultantID,
			"status":        statusStrings(domain.BlockingStatuses),
		}).
		Where(squirrel.Lt{"start_at": to.UTC()}).
		Where(squirrel.Gt{"end_at": from.UTC()}).
		OrderBy("start_at ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocking - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// MarkRescheduled переводит бронирование в rescheduled и связывает его с новым
func (r *Repository) MarkRescheduled(ctx context.Context, id, newBookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusRescheduled).
		Set("rescheduled_to_id", newBookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkRescheduled - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkRescheduled", query, args)
}

// UpdateExternalRefs сохраняет ссылки внешних систем; nil поля не меняются
func (r *Repository) UpdateExternalRefs(ctx context.Context, id int64, refs domain.ExternalRefs) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if refs.MeetingURL != nil {
		updateBuilder = updateBuilder.Set("meeting_url", *refs.MeetingURL)
	}
	if refs.PaymentIntentID != nil {
		updateBuilder = updateBuilder.Set("payment_intent_id", *refs.PaymentIntentID)
	}
	if refs.PaymentStatus != nil {
		updateBuilder = updateBuilder.Set("payment_status", *refs.PaymentStatus)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateExternalRefs - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateExternalRefs", query, args)
}

// CompleteExpired завершает подтвержденные бронирования, закончившиеся не позже endedBefore.
// Возвращает завершенные бронирования.
func (r *Repository) CompleteExpired(ctx context.Context, endedBefore time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.LtOrEq{"end_at": endedBefore.UTC()}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CompleteExpired - build update query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CompleteExpired - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking                 domain.Booking
		paymentIntent, meeting  sql.NullString
		notes, cancelReason     sql.NullString
		cancelledAt             sql.NullTime
		rescheduledFrom, rescTo sql.NullInt64
	)

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ConsultantID,
		&booking.ConsultantServiceID,
		&booking.DurationOptionID,
		&booking.StartAt,
		&booking.EndAt,
		&booking.DurationMinutes,
		&booking.ClientTimezone,
		&booking.TotalPrice,
		&booking.Status,
		&booking.PaymentStatus,
		&paymentIntent,
		&meeting,
		&notes,
		&cancelReason,
		&cancelledAt,
		&rescheduledFrom,
		&rescTo,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.StartAt = booking.StartAt.UTC()
	booking.EndAt = booking.EndAt.UTC()
	booking.PaymentIntentID = nullString(paymentIntent)
	booking.MeetingURL = nullString(meeting)
	booking.Notes = nullString(notes)
	booking.CancellationReason = nullString(cancelReason)
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	if rescheduledFrom.Valid {
		booking.RescheduledFromID = &rescheduledFrom.Int64
	}
	if rescTo.Valid {
		booking.RescheduledToID = &rescTo.Int64
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
