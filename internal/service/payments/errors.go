package payments

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrPaymentExists возвращается при повторной инициации платежа для бронирования
	ErrPaymentExists = errors.New("payment already exists for this booking")

	// ErrInvalidAmount возвращается при неположительной сумме платежа
	// Проверяется до любого сетевого вызова
	ErrInvalidAmount = errors.New("payment amount must be positive")

	// ErrRefundNotAllowed возвращается при попытке возврата платежа не в статусе completed
	ErrRefundNotAllowed = errors.New("payment cannot be refunded")

	// ErrMissingTransactionID возвращается, когда в webhook payload нет ID транзакции
	// ни под одним из известных имен полей
	ErrMissingTransactionID = errors.New("webhook payload has no transaction id")

	// ErrMissingStatus возвращается, когда в webhook payload нет статуса
	// ни под одним из известных имен полей
	ErrMissingStatus = errors.New("webhook payload has no status")

	// ErrMalformedPayload возвращается при некорректном JSON в webhook payload
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
