package offer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/pkg/dbmetrics"
	"github.com/m04kA/VMP-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с предложениями (скидками)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория предложений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает предложение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"venue_id",
		"title",
		"discount_type",
		"discount_value",
		"min_booking_hours",
		"max_uses",
		"used_count",
		"start_date",
		"end_date",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("offers").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку - used_count меняется read-modify-write
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var offer domain.Offer
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&offer.ID,
		&offer.VenueID,
		&offer.Title,
		&offer.DiscountType,
		&offer.DiscountValue,
		&offer.MinBookingHours,
		&offer.MaxUses,
		&offer.UsedCount,
		&offer.StartDate,
		&offer.EndDate,
		&offer.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan offer: %v", ErrScanRow, err)
	}

	offer.CreatedAt = createdAt.Time
	offer.UpdatedAt = updatedAt.Time

	return &offer, nil
}

// IncrementUsage атомарно увеличивает used_count предложения на 1
// Условие в WHERE не даёт превысить max_uses при конкурентных подтверждениях:
// 0 затронутых строк у существующего предложения означает исчерпанный лимит
//
// used_count никогда не уменьшается, в том числе при отмене бронирования
// или возврате платежа (так ведёт себя продукт; помечено как вопрос к продукту)
func (r *Repository) IncrementUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("offers").
		Set("used_count", squirrel.Expr("used_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"max_uses": nil},
			squirrel.Expr("used_count < max_uses"),
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return ErrOfferNotFound
		}
		return ErrUsageExhausted
	}

	return nil
}
