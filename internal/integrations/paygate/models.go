package paygate

// PaymentRequest запрос на создание платежа в шлюзе
// Amount всегда в минорных единицах валюты (копейки/центы)
type PaymentRequest struct {
	RequestID       string `json:"requestId"` // Уникален для каждой попытки инициации
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	MerchantOrderID string `json:"merchantOrderId"`
	ReturnURL       string `json:"returnUrl"`
	NotificationURL string `json:"notificationUrl"`
}

// PaymentResponse ответ шлюза на создание платежа
type PaymentResponse struct {
	PaymentID string `json:"paymentId"` // Внешний ID, присвоенный шлюзом
	Status    string `json:"status"`
	FormURL   string `json:"formUrl"` // URL платежной формы для редиректа клиента

	Raw []byte `json:"-"` // Сырое тело ответа для аудита
}

// StatusResponse ответ шлюза на запрос статуса платежа
type StatusResponse struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`

	Raw []byte `json:"-"`
}

// RefundRequest запрос на возврат платежа
type RefundRequest struct {
	RequestID string `json:"requestId"`
	Amount    int64  `json:"amount"`
}

// RefundResponse ответ шлюза на возврат
type RefundResponse struct {
	RefundID string `json:"refundId"`
	Status   string `json:"status"`

	Raw []byte `json:"-"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
