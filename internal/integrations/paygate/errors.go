package paygate

import "errors"

var (
	// ErrGatewayUnavailable возвращается при 502/503/504 от шлюза
	// Временная ошибка, вызывающая сторона может повторить с backoff
	ErrGatewayUnavailable = errors.New("paygate client: gateway unavailable")

	// ErrGatewayAuthFailed возвращается при 401/403 от шлюза
	// Фатальная ошибка - оператор должен починить учетные данные терминала
	ErrGatewayAuthFailed = errors.New("paygate client: gateway authentication failed")

	// ErrGateway возвращается при прочих не-2xx ответах шлюза
	// Тело ответа сохраняется в ошибке для диагностики
	ErrGateway = errors.New("paygate client: gateway error")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paygate client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("paygate client: invalid response")
)
