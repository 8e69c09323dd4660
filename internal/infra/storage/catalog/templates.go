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

// Repository репозиторий каталога: шаблоны, длительности, услуги консультантов и цены
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var templateColumns = []string{
	"id",
	"name",
	"description",
	"min_price",
	"max_price",
	"order_index",
	"is_active",
	"created_at",
	"updated_at",
}

// ListTemplates возвращает шаблоны в порядке order_index
func (r *Repository) ListTemplates(ctx context.Context, activeOnly bool) ([]*domain.ServiceTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(templateColumns...).
		From("service_templates").
		OrderBy("order_index ASC", "id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.ServiceTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTemplates - scan row: %w", ErrScanRow, err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - rows error: %w", ErrScanRow, err)
	}

	return templates, nil
}

// GetTemplateByID получает шаблон по ID
func (r *Repository) GetTemplateByID(ctx context.Context, id int64) (*domain.ServiceTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("service_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - build select query: %w", ErrBuildQuery, err)
	}

	t, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - scan template: %w", ErrScanRow, err)
	}

	return t, nil
}

// UpsertTemplate создает шаблон (ID == 0) или обновляет существующий
func (r *Repository) UpsertTemplate(ctx context.Context, t *domain.ServiceTemplate) (*domain.ServiceTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		query string
		args  []interface{}
		err   error
	)
	if t.ID == 0 {
		query, args, err = psqlbuilder.Insert("service_templates").
			Columns("name", "description", "min_price", "max_price", "order_index", "is_active").
			Values(t.Name, t.Description, t.MinPrice, t.MaxPrice, t.OrderIndex, t.IsActive).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
	} else {
		query, args, err = psqlbuilder.Update("service_templates").
			Set("name", t.Name).
			Set("description", t.Description).
			Set("min_price", t.MinPrice).
			Set("max_price", t.MaxPrice).
			Set("order_index", t.OrderIndex).
			Set("is_active", t.IsActive).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": t.ID}).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertTemplate - build query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if psqlbuilder.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: template %q", ErrDuplicate, t.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertTemplate - execute: %w", ErrExecQuery, err)
	}

	return t, nil
}

var durationColumns = []string{
	"id",
	"template_id",
	"duration_minutes",
	"label",
	"min_price",
	"max_price",
	"order_index",
	"is_active",
	"created_at",
	"updated_at",
}

// ListDurations возвращает варианты длительности шаблона в порядке order_index
func (r *Repository) ListDurations(ctx context.Context, templateID int64, activeOnly bool) ([]*domain.DurationOption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(durationColumns...).
		From("duration_options").
		Where(squirrel.Eq{"template_id": templateID}).
		OrderBy("order_index ASC", "duration_minutes ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDurations - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDurations - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	options := make([]*domain.DurationOption, 0)
	for rows.Next() {
		o, err := scanDuration(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDurations - scan row: %w", ErrScanRow, err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDurations - rows error: %w", ErrScanRow, err)
	}

	return options, nil
}

// GetDurationOptionByID получает вариант длительности по ID
func (r *Repository) GetDurationOptionByID(ctx context.Context, id int64) (*domain.DurationOption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(durationColumns...).
		From("duration_options").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDurationOptionByID - build select query: %w", ErrBuildQuery, err)
	}

	o, err := scanDuration(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDurationOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDurationOptionByID - scan option: %w", ErrScanRow, err)
	}

	return o, nil
}

// UpsertDurationOption создает вариант длительности (ID == 0) или обновляет существующий
func (r *Repository) UpsertDurationOption(ctx context.Context, o *domain.DurationOption) (*domain.DurationOption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		query string
		args  []interface{}
		err   error
	)
	if o.ID == 0 {
		query, args, err = psqlbuilder.Insert("duration_options").
			Columns("template_id", "duration_minutes", "label", "min_price", "max_price", "order_index", "is_active").
			Values(o.TemplateID, o.DurationMinutes, o.Label, o.MinPrice, o.MaxPrice, o.OrderIndex, o.IsActive).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
	} else {
		query, args, err = psqlbuilder.Update("duration_options").
			Set("duration_minutes", o.DurationMinutes).
			Set("label", o.Label).
			Set("min_price", o.MinPrice).
			Set("max_price", o.MaxPrice).
			Set("order_index", o.OrderIndex).
			Set("is_active", o.IsActive).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": o.ID, "template_id": o.TemplateID}).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertDurationOption - build query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDurationOptionNotFound
	}
	if psqlbuilder.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %d minutes", ErrDuplicate, o.DurationMinutes)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertDurationOption - execute: %w", ErrExecQuery, err)
	}

	return o, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*domain.ServiceTemplate, error) {
	var t domain.ServiceTemplate
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.MinPrice,
		&t.MaxPrice,
		&t.OrderIndex,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanDuration(row rowScanner) (*domain.DurationOption, error) {
	var o domain.DurationOption
	err := row.Scan(
		&o.ID,
		&o.TemplateID,
		&o.DurationMinutes,
		&o.Label,
		&o.MinPrice,
		&o.MaxPrice,
		&o.OrderIndex,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
