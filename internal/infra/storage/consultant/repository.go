package consultant

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

// Repository читает консультантов. Создание и изменение профиля выполняет онбординг.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория консультантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var columns = []string{
	"id",
	"user_id",
	"display_name",
	"timezone",
	"locale",
	"is_active",
	"created_at",
	"updated_at",
}

// GetByID получает консультанта по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Consultant, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByUserID получает консультанта по ID аккаунта
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Consultant, error) {
	return r.getOne(ctx, "GetByUserID", squirrel.Eq{"user_id": userID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Consultant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("consultants").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	var c domain.Consultant
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.UserID,
		&c.DisplayName,
		&c.Timezone,
		&c.Locale,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConsultantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan consultant: %w", ErrScanRow, op, err)
	}

	return &c, nil
}
