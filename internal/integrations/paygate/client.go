package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client HTTP клиент платежного шлюза
// Аутентификация: HTTP Basic + заголовок с ID терминала
// Все суммы - целые числа в минорных единицах валюты
type Client struct {
	baseURL    string
	username   string
	password   string
	terminalID string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(baseURL, username, password, terminalID string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		terminalID: terminalID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreatePayment инициирует платеж в шлюзе
// POST {base}/payment
func (c *Client) CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	body, err := c.post(ctx, fmt.Sprintf("%s/payment", c.baseURL), req)
	if err != nil {
		return nil, err
	}

	var resp PaymentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode payment response: %v", ErrInvalidResponse, err)
	}
	if resp.PaymentID == "" {
		return nil, fmt.Errorf("%w: payment response has no paymentId: %s", ErrInvalidResponse, string(body))
	}

	resp.Raw = body
	return &resp, nil
}

// GetPaymentStatus запрашивает статус платежа (pull-путь сверки)
// GET {base}/payment/{id}/status
func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (*StatusResponse, error) {
	url := fmt.Sprintf("%s/payment/%s/status", c.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	body, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	var resp StatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode status response: %v", ErrInvalidResponse, err)
	}

	resp.Raw = body
	return &resp, nil
}

// Refund выполняет возврат платежа
// POST {base}/refunds/{paymentId}
func (c *Client) Refund(ctx context.Context, paymentID string, req *RefundRequest) (*RefundResponse, error) {
	body, err := c.post(ctx, fmt.Sprintf("%s/refunds/%s", c.baseURL, paymentID), req)
	if err != nil {
		return nil, err
	}

	var resp RefundResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode refund response: %v", ErrInvalidResponse, err)
	}

	resp.Raw = body
	return &resp, nil
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	return c.execute(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Terminal-Id", c.terminalID)
	req.SetBasicAuth(c.username, c.password)
}

// execute выполняет запрос и транслирует не-2xx статусы в ошибки клиента
func (c *Client) execute(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Таймаут и сетевые ошибки - временная недоступность,
		// платеж остаётся pending и досверяется polling-путём
		return nil, fmt.Errorf("%w: %s %s: %v", ErrGatewayUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrInvalidResponse, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		c.log.Warn("Gateway unavailable: %s %s status=%d", req.Method, req.URL.Path, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		c.log.Error("Gateway auth failed: %s %s status=%d, check terminal credentials", req.Method, req.URL.Path, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrGatewayAuthFailed, resp.StatusCode)
	default:
		c.log.Error("Gateway error: %s %s status=%d body=%s", req.Method, req.URL.Path, resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d: %s", ErrGateway, resp.StatusCode, string(body))
	}
}
