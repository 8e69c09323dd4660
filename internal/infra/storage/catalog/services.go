package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/dbmetrics"
	"github.com/m04kA/consult-booking/pkg/psqlbuilder"
)

var serviceColumns = []string{
	"id",
	"consultant_id",
	"template_id",
	"custom_description",
	"legacy_price",
	"is_active",
	"created_at",
	"updated_at",
}

// CreateConsultantService подключает шаблон консультанту.
// Повторное подключение того же шаблона возвращает ErrServiceAlreadyExists.
func (r *Repository) CreateConsultantService(ctx context.Context, s *domain.ConsultantService) (*domain.ConsultantService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var legacy decimal.NullDecimal
	if s.LegacyPrice != nil {
		legacy = decimal.NewNullDecimal(*s.LegacyPrice)
	}

	query, args, err := psqlbuilder.Insert("consultant_services").
		Columns("consultant_id", "template_id", "custom_description", "legacy_price", "is_active").
		Values(s.ConsultantID, s.TemplateID, s.CustomDescription, legacy, s.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateConsultantService - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if psqlbuilder.IsUniqueViolation(err) {
		return nil, ErrServiceAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateConsultantService - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}

// GetConsultantServiceByID получает услугу консультанта по ID
func (r *Repository) GetConsultantServiceByID(ctx context.Context, id int64) (*domain.ConsultantService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("consultant_services").
		Where(squirrel.Eq{"id": id})

	// В транзакции бронирования услуга не должна меняться до коммита
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetConsultantServiceByID - build select query: %w", ErrBuildQuery, err)
	}

	s, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConsultantServiceByID - scan service: %w", ErrScanRow, err)
	}

	return s, nil
}

// ListConsultantServices возвращает услуги консультанта
func (r *Repository) ListConsultantServices(ctx context.Context, consultantID int64, activeOnly bool) ([]*domain.ConsultantService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(prefixed("cs", serviceColumns)...).
		From("consultant_services cs").
		Join("service_templates t ON t.id = cs.template_id").
		Where(squirrel.Eq{"cs.consultant_id": consultantID}).
		OrderBy("t.order_index ASC", "cs.id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"cs.is_active": true, "t.is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListConsultantServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConsultantServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.ConsultantService, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListConsultantServices - scan row: %w", ErrScanRow, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListConsultantServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

// UpdateConsultantService обновляет описание и флаг активности услуги
func (r *Repository) UpdateConsultantService(ctx context.Context, s *domain.ConsultantService) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("consultant_services").
		Set("custom_description", s.CustomDescription).
		Set("is_active", s.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateConsultantService - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrServiceNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateConsultantService - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

func scanService(row rowScanner) (*domain.ConsultantService, error) {
	var (
		s      domain.ConsultantService
		desc   sql.NullString
		legacy decimal.NullDecimal
	)
	err := row.Scan(
		&s.ID,
		&s.ConsultantID,
		&s.TemplateID,
		&desc,
		&legacy,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		s.CustomDescription = &desc.String
	}
	if legacy.Valid {
		s.LegacyPrice = &legacy.Decimal
	}
	return &s, nil
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
