package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/dbmetrics"
	"github.com/m04kA/consult-booking/pkg/psqlbuilder"
)

// Repository репозиторий еженедельного расписания и блокировок времени
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var windowColumns = []string{
	"id",
	"consultant_id",
	"day_of_week",
	"start_minute",
	"end_minute",
	"timezone",
	"slot_interval_minutes",
	"is_active",
	"created_at",
	"updated_at",
}

// LockConsultant берет транзакционную advisory-блокировку по консультанту.
// Ключ общий с репозиторием бронирований: замена расписания и бронирование
// одного консультанта не идут параллельно.
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

// ListActiveWindows возвращает активные окна консультанта по возрастанию начала.
// Если dayOfWeek задан, возвращает окна только этого дня.
func (r *Repository) ListActiveWindows(ctx context.Context, consultantID int64, dayOfWeek *time.Weekday) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(windowColumns...).
		From("availability_windows").
		Where(squirrel.Eq{"consultant_id": consultantID, "is_active": true}).
		OrderBy("day_of_week ASC", "start_minute ASC")

	if dayOfWeek != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"day_of_week": int(*dayOfWeek)})
	}

	// При бронировании окна блокируются до коммита, чтобы замена расписания ждала
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveWindows - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.AvailabilityWindow, 0)
	for rows.Next() {
		var (
			w   domain.AvailabilityWindow
			dow int
		)
		err := rows.Scan(
			&w.ID,
			&w.ConsultantID,
			&dow,
			&w.StartTime,
			&w.EndTime,
			&w.Timezone,
			&w.SlotIntervalMinutes,
			&w.IsActive,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveWindows - scan row: %w", ErrScanRow, err)
		}
		w.DayOfWeek = time.Weekday(dow)
		windows = append(windows, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveWindows - rows error: %w", ErrScanRow, err)
	}

	return windows, nil
}

// DeactivateWindows снимает активность со всех окон консультанта
func (r *Repository) DeactivateWindows(ctx context.Context, consultantID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_windows").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"consultant_id": consultantID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeactivateWindows - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeactivateWindows - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// CreateWindow создает активное окно доступности.
// Пересечение с активным окном того же дня возвращает ErrWindowOverlap.
func (r *Repository) CreateWindow(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_windows").
		Columns(
			"consultant_id",
			"day_of_week",
			"start_minute",
			"end_minute",
			"timezone",
			"slot_interval_minutes",
			"is_active",
		).
		Values(
			w.ConsultantID,
			int(w.DayOfWeek),
			w.StartTime,
			w.EndTime,
			w.Timezone,
			w.SlotIntervalMinutes,
			true,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWindow - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if psqlbuilder.IsExclusionViolation(err) {
		return nil, ErrWindowOverlap
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWindow - execute insert: %w", ErrExecQuery, err)
	}
	w.IsActive = true

	return w, nil
}

// CreateBlocked создает блокировку времени
func (r *Repository) CreateBlocked(ctx context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_intervals").
		Columns("consultant_id", "start_at", "end_at", "reason").
		Values(b.ConsultantID, b.StartAt.UTC(), b.EndAt.UTC(), b.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlocked - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlocked - execute insert: %w", ErrExecQuery, err)
	}

	return b, nil
}

// DeleteBlocked удаляет блокировку консультанта
func (r *Repository) DeleteBlocked(ctx context.Context, consultantID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_intervals").
		Where(squirrel.Eq{"id": id, "consultant_id": consultantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockedNotFound
	}

	return nil
}

// ListBlocked возвращает блокировки, пересекающие полуинтервал [from, to), по возрастанию начала
func (r *Repository) ListBlocked(ctx context.Context, consultantID int64, from, to time.Time) ([]*domain.BlockedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "consultant_id", "start_at", "end_at", "reason", "created_at").
		From("blocked_intervals").
		Where(squirrel.Eq{"consultant_id": consultantID}).
		Where(squirrel.Lt{"start_at": to.UTC()}).
		Where(squirrel.Gt{"end_at": from.UTC()}).
		OrderBy("start_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]*domain.BlockedInterval, 0)
	for rows.Next() {
		var (
			b      domain.BlockedInterval
			reason sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.ConsultantID, &b.StartAt, &b.EndAt, &reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlocked - scan row: %w", ErrScanRow, err)
		}
		if reason.Valid {
			b.Reason = &reason.String
		}
		blocked = append(blocked, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - rows error: %w", ErrScanRow, err)
	}

	return blocked, nil
}
