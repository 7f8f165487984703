package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/pkg/dbmetrics"
	"github.com/m04kA/VMP-BookingService/pkg/psqlbuilder"
)

const paymentColumns = "id, booking_id, method, amount, currency, status, transaction_ref, " +
	"raw_response, paid_at, refund_amount, refund_ref, created_at, updated_at"

// Repository репозиторий для работы с платежами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платеж в статусе pending
// У бронирования может быть только один платеж (unique на booking_id)
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"booking_id",
			"method",
			"amount",
			"currency",
			"status",
			"transaction_ref",
			"raw_response",
		).
		Values(
			payment.BookingID,
			payment.Method,
			payment.Amount,
			payment.Currency,
			payment.Status,
			payment.TransactionRef,
			payment.RawResponse,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrPaymentExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return payment, nil
}

// GetByID получает платеж по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByBookingID получает платеж бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	return r.getOne(ctx, squirrel.Eq{"booking_id": bookingID}, "GetByBookingID")
}

// GetByTransactionRef получает платеж по внешнему ID шлюза
// Используется webhook-обработчиком
func (r *Repository) GetByTransactionRef(ctx context.Context, transactionRef string) (*domain.Payment, error) {
	return r.getOne(ctx, squirrel.Eq{"transaction_ref": transactionRef}, "GetByTransactionRef")
}

// UpdateStatus переводит платеж из expected в status (compare-and-set)
// ErrStatusConflict при 0 затронутых строк делает повторную доставку webhook идемпотентной:
// переход уже применён другим обработчиком
func (r *Repository) UpdateStatus(ctx context.Context, id int64, expected, status domain.PaymentStatus, paidAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("payments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expected})

	if paidAt != nil {
		updateBuilder = updateBuilder.Set("paid_at", *paidAt)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return ErrPaymentNotFound
		}
		return ErrStatusConflict
	}

	return nil
}

// MergeRawResponse дописывает сырой ответ шлюза к raw_response платежа (append-only)
func (r *Repository) MergeRawResponse(ctx context.Context, id int64, raw []byte) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// jsonb-конкатенация: новые поля перекрывают старые, история не теряется в аудит-логах
	query, args, err := psqlbuilder.Update("payments").
		Set("raw_response", squirrel.Expr("COALESCE(raw_response, '{}'::jsonb) || ?::jsonb", string(raw))).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MergeRawResponse - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MergeRawResponse - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MergeRawResponse - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// MarkRefunded переводит платеж completed -> refunded с данными возврата
func (r *Repository) MarkRefunded(ctx context.Context, id int64, refundAmount float64, refundRef string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentRefunded).
		Set("refund_amount", refundAmount).
		Set("refund_ref", refundRef).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.PaymentCompleted}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return ErrPaymentNotFound
		}
		return ErrStatusConflict
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, site string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns).
		From("payments").
		Where(where)

	// Внутри транзакции блокируем строку платежа (per-payment lock для идемпотентности)
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, site, err)
	}

	var payment domain.Payment
	var createdAt, updatedAt sql.NullTime
	var rawResponse []byte

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Method,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.TransactionRef,
		&rawResponse,
		&payment.PaidAt,
		&payment.RefundAmount,
		&payment.RefundRef,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan payment: %v", ErrScanRow, site, err)
	}

	payment.RawResponse = rawResponse
	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return &payment, nil
}
