package payment

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("payment.repository: payment not found")

	// ErrPaymentExists возвращается при попытке создать второй платеж для бронирования
	ErrPaymentExists = errors.New("payment.repository: payment already exists for booking")

	// ErrStatusConflict возвращается, когда guard по ожидаемому статусу не прошёл
	// Для повторных webhook-доставок это означает "переход уже применён"
	ErrStatusConflict = errors.New("payment.repository: payment status conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
