package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/dbmetrics"
	"github.com/m04kA/consult-booking/pkg/psqlbuilder"
)

var priceColumns = []string{
	"id",
	"consultant_service_id",
	"duration_option_id",
	"price",
	"is_active",
	"created_at",
	"updated_at",
}

// upsertPriceSuffix обновляет строку на месте только если значения действительно изменились,
// иначе RETURNING не вернет строк
const upsertPriceSuffix = `ON CONFLICT (consultant_service_id, duration_option_id) DO UPDATE
	SET price = EXCLUDED.price, is_active = EXCLUDED.is_active, updated_at = NOW()
	WHERE (service_prices.price, service_prices.is_active) IS DISTINCT FROM (EXCLUDED.price, EXCLUDED.is_active)
	RETURNING id, created_at, updated_at`

// GetActivePrice возвращает активную цену для пары (услуга, длительность)
func (r *Repository) GetActivePrice(ctx context.Context, consultantServiceID, durationOptionID int64) (*domain.ServicePrice, error) {
	return r.getPrice(ctx, "GetActivePrice", consultantServiceID, durationOptionID, true)
}

// GetPrice возвращает цену для пары (услуга, длительность) независимо от активности
func (r *Repository) GetPrice(ctx context.Context, consultantServiceID, durationOptionID int64) (*domain.ServicePrice, error) {
	return r.getPrice(ctx, "GetPrice", consultantServiceID, durationOptionID, false)
}

func (r *Repository) getPrice(ctx context.Context, op string, consultantServiceID, durationOptionID int64, activeOnly bool) (*domain.ServicePrice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.Eq{
		"consultant_service_id": consultantServiceID,
		"duration_option_id":    durationOptionID,
	}
	if activeOnly {
		where["is_active"] = true
	}

	selectBuilder := psqlbuilder.Select(priceColumns...).
		From("service_prices").
		Where(where)

	// Цена фиксируется в бронировании, поэтому блокируем строку до коммита
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	p, err := scanPrice(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPriceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan price: %w", ErrScanRow, op, err)
	}

	return p, nil
}

// UpsertPrice вставляет цену или обновляет существующую строку на месте.
// Возвращает changed=false, если строка уже содержала те же значения.
func (r *Repository) UpsertPrice(ctx context.Context, p *domain.ServicePrice) (*domain.ServicePrice, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_prices").
		Columns("consultant_service_id", "duration_option_id", "price", "is_active").
		Values(p.ConsultantServiceID, p.DurationOptionID, p.Price, p.IsActive).
		Suffix(upsertPriceSuffix).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: UpsertPrice - build upsert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		existing, err := r.GetPrice(ctx, p.ConsultantServiceID, p.DurationOptionID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: UpsertPrice - execute upsert: %w", ErrExecQuery, err)
	}

	return p, true, nil
}

// CreateDefaultPrices создает неактивные цены по минимальной границе каждого варианта.
// Уже существующие пары не трогает.
func (r *Repository) CreateDefaultPrices(ctx context.Context, consultantServiceID int64, options []*domain.DurationOption) error {
	if len(options) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("service_prices").
		Columns("consultant_service_id", "duration_option_id", "price", "is_active")
	for _, o := range options {
		insertBuilder = insertBuilder.Values(consultantServiceID, o.ID, o.MinPrice, false)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (consultant_service_id, duration_option_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateDefaultPrices - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateDefaultPrices - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListPricesByServiceIDs возвращает цены нескольких услуг одним запросом
func (r *Repository) ListPricesByServiceIDs(ctx context.Context, serviceIDs []int64, activeOnly bool) ([]*domain.ServicePrice, error) {
	if len(serviceIDs) == 0 {
		return []*domain.ServicePrice{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(priceColumns...).
		From("service_prices").
		Where(squirrel.Eq{"consultant_service_id": serviceIDs}).
		OrderBy("consultant_service_id ASC", "duration_option_id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPricesByServiceIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPricesByServiceIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	prices := make([]*domain.ServicePrice, 0)
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListPricesByServiceIDs - scan row: %w", ErrScanRow, err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPricesByServiceIDs - rows error: %w", ErrScanRow, err)
	}

	return prices, nil
}

func scanPrice(row rowScanner) (*domain.ServicePrice, error) {
	var p domain.ServicePrice
	err := row.Scan(
		&p.ID,
		&p.ConsultantServiceID,
		&p.DurationOptionID,
		&p.Price,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
