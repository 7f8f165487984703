package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/payment"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/internal/integrations/paygate"
	bookingsService "github.com/m04kA/VMP-BookingService/internal/service/bookings"
	"github.com/m04kA/VMP-BookingService/internal/service/payments/models"
	"github.com/m04kA/VMP-BookingService/pkg/ptr"
)

// In-memory реализация PaymentRepository с теми же compare-and-set
// semantics, что и у настоящего репозитория

type fakePaymentRepo struct {
	byID   map[int64]*domain.Payment
	nextID int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byID: make(map[int64]*domain.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	for _, existing := range f.byID {
		if existing.BookingID == p.BookingID {
			return nil, paymentRepo.ErrPaymentExists
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePaymentRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Payment, error) {
	for _, p := range f.byID {
		if p.BookingID == bookingID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) GetByTransactionRef(_ context.Context, ref string) (*domain.Payment, error) {
	for _, p := range f.byID {
		if p.TransactionRef == ref {
			copied := *p
			return &copied, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id int64, expected, status domain.PaymentStatus, paidAt *time.Time) error {
	p, ok := f.byID[id]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	if p.Status != expected {
		return paymentRepo.ErrStatusConflict
	}
	p.Status = status
	if paidAt != nil {
		p.PaidAt = paidAt
	}
	return nil
}

func (f *fakePaymentRepo) MergeRawResponse(_ context.Context, id int64, raw []byte) error {
	p, ok := f.byID[id]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	p.RawResponse = append(p.RawResponse, raw...)
	return nil
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, id int64, amount float64, ref string) error {
	p, ok := f.byID[id]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	if p.Status != domain.PaymentCompleted {
		return paymentRepo.ErrStatusConflict
	}
	p.Status = domain.PaymentRefunded
	p.RefundAmount = &amount
	p.RefundRef = &ref
	return nil
}

type fakeBookingRepo struct {
	byID map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	b, ok := f.byID[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = status
	return nil
}

type fakeScheduleRepo struct {
	venue *domain.Venue
}

func (f *fakeScheduleRepo) GetVenue(_ context.Context, _ int64) (*domain.Venue, error) {
	if f.venue == nil {
		return nil, scheduleRepo.ErrVenueNotFound
	}
	return f.venue, nil
}

// fakeBookings воспроизводит guard сервиса бронирований:
// подтвердить можно только pending бронирование
type fakeBookings struct {
	bookings     *fakeBookingRepo
	confirmCalls map[int64]int
}

func (f *fakeBookings) Confirm(_ context.Context, bookingID int64) error {
	b, ok := f.bookings.byID[bookingID]
	if !ok {
		return bookingsService.ErrBookingNotFound
	}
	if !b.CanBeConfirmed() {
		return bookingsService.ErrInvalidTransition
	}
	b.Status = domain.StatusConfirmed
	if f.confirmCalls == nil {
		f.confirmCalls = make(map[int64]int)
	}
	f.confirmCalls[bookingID]++
	return nil
}

type fakeGateway struct {
	createResp *paygate.PaymentResponse
	createErr  error
	statusResp *paygate.StatusResponse
	statusErr  error
	refundResp *paygate.RefundResponse
	refundErr  error

	createCalls int
	refundCalls int
}

func (f *fakeGateway) CreatePayment(_ context.Context, _ *paygate.PaymentRequest) (*paygate.PaymentResponse, error) {
	f.createCalls++
	return f.createResp, f.createErr
}

func (f *fakeGateway) GetPaymentStatus(_ context.Context, _ string) (*paygate.StatusResponse, error) {
	return f.statusResp, f.statusErr
}

func (f *fakeGateway) Refund(_ context.Context, _ string, _ *paygate.RefundRequest) (*paygate.RefundResponse, error) {
	f.refundCalls++
	return f.refundResp, f.refundErr
}

type fakeTxManager struct {
	// Вызывается перед телом транзакции: эмулирует конкурентный коммит,
	// завершившийся пока транзакция ждала блокировку строки
	beforeTx func()
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.beforeTx != nil {
		f.beforeTx()
		f.beforeTx = nil
	}
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Сборка окружения: pending бронирование на 2000.00 и шлюз со сценарием

type testEnv struct {
	svc      *Service
	payments *fakePaymentRepo
	bookings *fakeBookingRepo
	confirms *fakeBookings
	gateway  *fakeGateway
	tx       *fakeTxManager
}

func newTestEnv(gateway *fakeGateway) *testEnv {
	bookings := &fakeBookingRepo{byID: map[int64]*domain.Booking{
		1: {
			ID:            1,
			VenueID:       10,
			CustomerID:    100,
			Status:        domain.StatusPending,
			TotalPrice:    2000.00,
			PaymentStatus: domain.PaymentPending,
		},
	}}
	payments := newFakePaymentRepo()
	confirms := &fakeBookings{bookings: bookings}
	tx := &fakeTxManager{}

	svc := NewService(
		payments,
		bookings,
		&fakeScheduleRepo{venue: &domain.Venue{ID: 10, Currency: "RUB", IsActive: true}},
		confirms,
		gateway,
		tx,
		&fakeTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)},
		nopLogger{},
		Config{
			ReturnURL:       "https://booking.example.com/payment/result",
			NotificationURL: "https://booking.example.com/api/v1/payments/webhook",
		},
	)

	return &testEnv{svc: svc, payments: payments, bookings: bookings, confirms: confirms, gateway: gateway, tx: tx}
}

func TestInitiateVerifyConfirm(t *testing.T) {
	gateway := &fakeGateway{
		createResp: &paygate.PaymentResponse{
			PaymentID: "X",
			Status:    "CREATED",
			FormURL:   "https://pay.example.com/form/X",
			Raw:       []byte(`{"paymentId":"X","status":"CREATED"}`),
		},
		statusResp: &paygate.StatusResponse{
			PaymentID: "X",
			Status:    "SUCCESS",
			Raw:       []byte(`{"paymentId":"X","status":"SUCCESS"}`),
		},
	}
	env := newTestEnv(gateway)
	ctx := context.Background()

	// Инициация: платеж создан в pending с внешним transactionRef
	initResp, err := env.svc.Initiate(ctx, &models.InitiatePaymentRequest{BookingID: 1})
	require.NoError(t, err)
	assert.Equal(t, "X", initResp.TransactionRef)
	assert.Equal(t, string(domain.PaymentPending), initResp.Status)
	assert.Equal(t, "https://pay.example.com/form/X", initResp.FormURL)

	// Verify: шлюз вернул SUCCESS - платеж completed, бронирование confirmed
	verifyResp, err := env.svc.Verify(ctx, initResp.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentCompleted), verifyResp.Status)
	require.NotNil(t, verifyResp.PaidAt)

	assert.Equal(t, domain.StatusConfirmed, env.bookings.byID[1].Status)
	assert.Equal(t, domain.PaymentCompleted, env.bookings.byID[1].PaymentStatus)
	assert.Equal(t, 1, env.confirms.confirmCalls[1])
}

func TestInitiate_DuplicateRejected(t *testing.T) {
	gateway := &fakeGateway{
		createResp: &paygate.PaymentResponse{PaymentID: "X", Status: "CREATED"},
	}
	env := newTestEnv(gateway)
	ctx := context.Background()

	_, err := env.svc.Initiate(ctx, &models.InitiatePaymentRequest{BookingID: 1})
	require.NoError(t, err)

	_, err = env.svc.Initiate(ctx, &models.InitiatePaymentRequest{BookingID: 1})
	assert.ErrorIs(t, err, ErrPaymentExists)
	// Повторная инициация не должна дергать шлюз
	assert.Equal(t, 1, gateway.createCalls)
}

func TestInitiate_ConcurrentLoserNeverReachesGateway(t *testing.T) {
	gateway := &fakeGateway{}
	env := newTestEnv(gateway)

	// Конкурентная инициация коммитит платеж, пока этот запрос ждет FOR UPDATE
	// на строке бронирования
	env.tx.beforeTx = func() {
		env.payments.nextID++
		env.payments.byID[env.payments.nextID] = &domain.Payment{
			ID:             env.payments.nextID,
			BookingID:      1,
			Status:         domain.PaymentPending,
			TransactionRef: "other",
		}
	}

	_, err := env.svc.Initiate(context.Background(), &models.InitiatePaymentRequest{BookingID: 1})
	assert.ErrorIs(t, err, ErrPaymentExists)
	assert.Zero(t, gateway.createCalls)
}

func TestInitiate_NonPositiveAmountRejectedBeforeGateway(t *testing.T) {
	gateway := &fakeGateway{}
	env := newTestEnv(gateway)
	env.bookings.byID[1].TotalPrice = 0

	_, err := env.svc.Initiate(context.Background(), &models.InitiatePaymentRequest{BookingID: 1})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Zero(t, gateway.createCalls)
}

func TestInitiate_BookingNotFound(t *testing.T) {
	env := newTestEnv(&fakeGateway{})

	_, err := env.svc.Initiate(context.Background(), &models.InitiatePaymentRequest{BookingID: 99})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestVerify_TerminalSkipsGateway(t *testing.T) {
	gateway := &fakeGateway{
		statusErr: paygate.ErrGatewayUnavailable, // упадет, если Verify дойдет до шлюза
	}
	env := newTestEnv(gateway)
	env.payments.byID[1] = &domain.Payment{
		ID:        1,
		BookingID: 1,
		Status:    domain.PaymentFailed,
	}

	resp, err := env.svc.Verify(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentFailed), resp.Status)
}

func TestWebhook_Idempotent(t *testing.T) {
	gateway := &fakeGateway{
		createResp: &paygate.PaymentResponse{PaymentID: "X", Status: "CREATED"},
	}
	env := newTestEnv(gateway)
	ctx := context.Background()

	// Бронирование с предложением: used_count инкрементируется в Confirm
	env.bookings.byID[1].OfferID = ptr.Ptr(int64(7))

	_, err := env.svc.Initiate(ctx, &models.InitiatePaymentRequest{BookingID: 1})
	require.NoError(t, err)

	payload := []byte(`{"paymentId":"X","status":"SUCCESS"}`)

	// Первая доставка: платеж completed, бронирование подтверждено
	require.NoError(t, env.svc.HandleCallback(ctx, payload))
	assert.Equal(t, domain.StatusConfirmed, env.bookings.byID[1].Status)
	assert.Equal(t, 1, env.confirms.confirmCalls[1])

	// Повторная доставка того же payload: идемпотентный no-op
	require.NoError(t, env.svc.HandleCallback(ctx, payload))
	assert.Equal(t, 1, env.confirms.confirmCalls[1])
}

func TestWebhook_AliasedFields(t *testing.T) {
	gateway := &fakeGateway{
		createResp: &paygate.PaymentResponse{PaymentID: "X", Status: "CREATED"},
	}
	env := newTestEnv(gateway)
	ctx := context.Background()

	_, err := env.svc.Initiate(ctx, &models.InitiatePaymentRequest{BookingID: 1})
	require.NoError(t, err)

	// ID и статус под альтернативными именами полей
	payload := []byte(`{"orderId":"X","orderStatus":"PAID"}`)
	require.NoError(t, env.svc.HandleCallback(ctx, payload))
	assert.Equal(t, domain.StatusConfirmed, env.bookings.byID[1].Status)
}

func TestWebhook_RejectedPayloads(t *testing.T) {
	env := newTestEnv(&fakeGateway{})
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"not json", `not json at all`, ErrMalformedPayload},
		{"no transaction id", `{"status":"SUCCESS"}`, ErrMissingTransactionID},
		{"no status", `{"paymentId":"X"}`, ErrMissingStatus},
		{"unknown transaction", `{"paymentId":"nope","status":"SUCCESS"}`, ErrPaymentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.HandleCallback(ctx, []byte(tt.payload))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseWebhookPayload_NumericID(t *testing.T) {
	ref, status, err := parseWebhookPayload([]byte(`{"id":123456,"state":"declined"}`))
	require.NoError(t, err)
	assert.Equal(t, "123456", ref)
	assert.Equal(t, "declined", status)
}

func TestRefund(t *testing.T) {
	completedPayment := func(env *testEnv) {
		env.payments.byID[1] = &domain.Payment{
			ID:             1,
			BookingID:      1,
			Amount:         2000.00,
			Currency:       "RUB",
			Status:         domain.PaymentCompleted,
			TransactionRef: "X",
		}
		env.payments.nextID = 1
	}

	t.Run("full refund by default", func(t *testing.T) {
		gateway := &fakeGateway{
			refundResp: &paygate.RefundResponse{RefundID: "R-1", Status: "REFUNDED"},
		}
		env := newTestEnv(gateway)
		completedPayment(env)

		resp, err := env.svc.Refund(context.Background(), 1, &models.RefundPaymentRequest{})
		require.NoError(t, err)
		assert.Equal(t, 2000.00, resp.RefundAmount)
		assert.Equal(t, "R-1", resp.RefundRef)
		assert.Equal(t, domain.PaymentRefunded, env.payments.byID[1].Status)
		assert.Equal(t, domain.PaymentRefunded, env.bookings.byID[1].PaymentStatus)
		// Возврат не меняет статус самого бронирования
		assert.Equal(t, domain.StatusPending, env.bookings.byID[1].Status)
	})

	t.Run("partial amount capped at payment amount", func(t *testing.T) {
		gateway := &fakeGateway{
			refundResp: &paygate.RefundResponse{RefundID: "R-2", Status: "REFUNDED"},
		}
		env := newTestEnv(gateway)
		completedPayment(env)

		resp, err := env.svc.Refund(context.Background(), 1, &models.RefundPaymentRequest{
			Amount: ptr.Ptr(5000.00),
		})
		require.NoError(t, err)
		assert.Equal(t, 2000.00, resp.RefundAmount)
	})

	t.Run("concurrent refund loser never reaches gateway", func(t *testing.T) {
		gateway := &fakeGateway{}
		env := newTestEnv(gateway)
		completedPayment(env)

		// Конкурентный возврат коммитит, пока этот запрос ждет FOR UPDATE:
		// после получения блокировки guard видит refunded и отсекает запрос
		// до вызова шлюза
		env.tx.beforeTx = func() {
			env.payments.byID[1].Status = domain.PaymentRefunded
		}

		_, err := env.svc.Refund(context.Background(), 1, &models.RefundPaymentRequest{})
		assert.ErrorIs(t, err, ErrRefundNotAllowed)
		assert.Zero(t, gateway.refundCalls)
	})

	t.Run("repeat refund rejected without second gateway call", func(t *testing.T) {
		gateway := &fakeGateway{
			refundResp: &paygate.RefundResponse{RefundID: "R-3", Status: "REFUNDED"},
		}
		env := newTestEnv(gateway)
		completedPayment(env)

		_, err := env.svc.Refund(context.Background(), 1, &models.RefundPaymentRequest{})
		require.NoError(t, err)

		_, err = env.svc.Refund(context.Background(), 1, &models.RefundPaymentRequest{})
		assert.ErrorIs(t, err, ErrRefundNotAllowed)
		assert.Equal(t, 1, gateway.refundCalls)
	})

	t.Run("pending payment cannot be refunded", func(t *testing.T) {
		gateway := &fakeGateway{}
		env := newTestEnv(gateway)
		env.payments.byID[1] = &domain.Payment{ID: 1, BookingID: 1, Status: domain.PaymentPending}

		_, err := env.svc.Refund(context.Background(), 1, &models.RefundPaymentRequest{})
		assert.ErrorIs(t, err, ErrRefundNotAllowed)
		assert.Zero(t, gateway.refundCalls)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		env := newTestEnv(&fakeGateway{})
		completedPayment(env)

		_, err := env.svc.Refund(context.Background(), 1, &models.RefundPaymentRequest{
			Amount: ptr.Ptr(-1.0),
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}
