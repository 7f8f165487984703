package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/payment"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/internal/integrations/paygate"
	bookingsService "github.com/m04kA/VMP-BookingService/internal/service/bookings"
	"github.com/m04kA/VMP-BookingService/internal/service/payments/models"
)

// DefaultMethod способ оплаты по умолчанию
const DefaultMethod = "card"

// Config настройки сервиса платежей
type Config struct {
	ReturnURL       string // URL возврата клиента после оплаты
	NotificationURL string // URL webhook эндпоинта этого сервиса
}

// Service сервис реконсиляции платежей
//
// Статус платежа меняется только по данным шлюза: polling verify (pull)
// или webhook callback (push). Оба пути сходятся в applyStatus, где
// идемпотентность обеспечивается compare-and-set по ожидаемому статусу:
// повторная доставка того же терминального статуса не запускает side effects
// (подтверждение бронирования, инкремент предложения) второй раз
type Service struct {
	paymentRepo  PaymentRepository
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	bookings     BookingService
	gateway      GatewayClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	paymentRepo PaymentRepository,
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	bookings BookingService,
	gateway GatewayClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
	cfg Config,
) *Service {
	return &Service{
		paymentRepo:  paymentRepo,
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		bookings:     bookings,
		gateway:      gateway,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// Initiate инициирует платеж по бронированию
//
// Сумма валидируется до любого сетевого вызова: неположительная сумма - это
// ошибка данных, а не шлюза. В шлюз сумма уходит целым числом минорных единиц.
// RequestID уникален для каждой попытки инициации.
//
// Весь путь выполняется в транзакции: чтение бронирования берет FOR UPDATE,
// поэтому конкурентная инициация того же бронирования ждет на блокировке
// и видит уже созданный платеж до своего вызова шлюза. Без этого гонка
// оставляла бы в шлюзе брошенный неоплачиваемый заказ
func (s *Service) Initiate(ctx context.Context, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	s.logger.Info("Initiate: initiating payment for booking id=%d", req.BookingID)

	var resp *models.InitiatePaymentResponse
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Initiate: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Initiate: repository error for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: Initiate - repository error: %v", ErrInternal, err)
		}

		// Платеж строго 1:1 с бронированием
		if _, err := s.paymentRepo.GetByBookingID(txCtx, req.BookingID); err == nil {
			s.logger.Warn("Initiate: payment already exists for booking id=%d", req.BookingID)
			return ErrPaymentExists
		} else if !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Error("Initiate: failed to check existing payment for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: Initiate - repository error: %v", ErrInternal, err)
		}

		// Валидация суммы до сетевого вызова
		amountMinor := domain.ToMinorUnits(booking.TotalPrice)
		if amountMinor <= 0 {
			s.logger.Warn("Initiate: non-positive amount %.2f for booking id=%d", booking.TotalPrice, req.BookingID)
			return ErrInvalidAmount
		}

		venue, err := s.scheduleRepo.GetVenue(txCtx, booking.VenueID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrVenueNotFound) {
				s.logger.Warn("Initiate: venue id=%d not found for booking id=%d", booking.VenueID, req.BookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Initiate: failed to get venue id=%d: %v", booking.VenueID, err)
			return fmt.Errorf("%w: Initiate - failed to get venue: %v", ErrInternal, err)
		}

		gatewayReq := &paygate.PaymentRequest{
			RequestID:       uuid.NewString(),
			Amount:          amountMinor,
			Currency:        venue.Currency,
			MerchantOrderID: fmt.Sprintf("booking-%d", booking.ID),
			ReturnURL:       s.cfg.ReturnURL,
			NotificationURL: s.cfg.NotificationURL,
		}

		gatewayResp, err := s.gateway.CreatePayment(txCtx, gatewayReq)
		if err != nil {
			// Ошибки шлюза отдаем без ретраев: stuck платеж добирается через Verify
			s.logger.Error("Initiate: gateway error for booking id=%d, requestId=%s: %v",
				req.BookingID, gatewayReq.RequestID, err)
			return err
		}

		method := DefaultMethod
		if req.Method != nil && *req.Method != "" {
			method = *req.Method
		}

		payment := &domain.Payment{
			BookingID:      booking.ID,
			Method:         method,
			Amount:         booking.TotalPrice,
			Currency:       venue.Currency,
			Status:         domain.PaymentPending,
			TransactionRef: gatewayResp.PaymentID,
			RawResponse:    gatewayResp.Raw,
		}

		created, err := s.paymentRepo.Create(txCtx, payment)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentExists) {
				s.logger.Warn("Initiate: concurrent payment creation for booking id=%d", req.BookingID)
				return ErrPaymentExists
			}
			s.logger.Error("Initiate: failed to persist payment for booking id=%d, transactionRef=%s: %v",
				req.BookingID, gatewayResp.PaymentID, err)
			return fmt.Errorf("%w: Initiate - failed to persist payment: %v", ErrInternal, err)
		}

		s.logger.Info("Initiate: created payment id=%d, booking id=%d, transactionRef=%s, amount=%d %s",
			created.ID, booking.ID, created.TransactionRef, amountMinor, created.Currency)

		resp = &models.InitiatePaymentResponse{
			PaymentID:      created.ID,
			TransactionRef: created.TransactionRef,
			Status:         string(created.Status),
			FormURL:        gatewayResp.FormURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// GetByBookingID получает платеж по ID бронирования
func (s *Service) GetByBookingID(ctx context.Context, bookingID int64) (*models.PaymentResponse, error) {
	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("GetByBookingID: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByBookingID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainPayment(payment), nil
}

// Verify опрашивает шлюз о статусе платежа и применяет результат (pull путь)
//
// Единственный механизм добора stuck платежей: если webhook потерялся
// или инициация оборвалась по таймауту, платеж остается pending
// и добирается этим опросом
func (s *Service) Verify(ctx context.Context, paymentID int64) (*models.PaymentResponse, error) {
	s.logger.Info("Verify: verifying payment id=%d", paymentID)

	payment, err := s.getPayment(ctx, paymentID, "Verify")
	if err != nil {
		return nil, err
	}

	// Из терминальных статусов переходов нет, опрос шлюза не нужен
	if payment.IsTerminal() {
		s.logger.Info("Verify: payment id=%d already in terminal status=%s", paymentID, payment.Status)
		return models.FromDomainPayment(payment), nil
	}

	statusResp, err := s.gateway.GetPaymentStatus(ctx, payment.TransactionRef)
	if err != nil {
		s.logger.Error("Verify: gateway error for payment id=%d, transactionRef=%s: %v",
			paymentID, payment.TransactionRef, err)
		return nil, err
	}

	mapped := mapGatewayStatus(statusResp.Status)
	s.logger.Info("Verify: payment id=%d gateway status=%q mapped to %s", paymentID, statusResp.Status, mapped)

	if err := s.applyStatus(ctx, payment, mapped, statusResp.Raw); err != nil {
		return nil, err
	}

	refreshed, err := s.getPayment(ctx, paymentID, "Verify")
	if err != nil {
		return nil, err
	}

	return models.FromDomainPayment(refreshed), nil
}

// Refund выполняет возврат платежа (completed -> refunded)
// Сумма по умолчанию - полная сумма платежа; больше неё вернуть нельзя.
// Статус бронирования при возврате НЕ меняется автоматически
//
// Чтение платежа, guard по статусу и вызов шлюза выполняются внутри одной
// транзакции: чтение берет FOR UPDATE на строку платежа, поэтому конкурентный
// возврат ждет на блокировке и после коммита первого видит refunded ДО своего
// вызова шлюза. Иначе оба запроса прошли бы guard и шлюз вернул бы деньги дважды
func (s *Service) Refund(ctx context.Context, paymentID int64, req *models.RefundPaymentRequest) (*models.RefundPaymentResponse, error) {
	s.logger.Info("Refund: refunding payment id=%d", paymentID)

	var resp *models.RefundPaymentResponse
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		payment, err := s.getPayment(txCtx, paymentID, "Refund")
		if err != nil {
			return err
		}

		if !payment.CanBeRefunded() {
			s.logger.Warn("Refund: payment id=%d cannot be refunded, status=%s", paymentID, payment.Status)
			return ErrRefundNotAllowed
		}

		amount := payment.Amount
		if req.Amount != nil {
			if *req.Amount <= 0 {
				return ErrInvalidAmount
			}
			amount = *req.Amount
			if amount > payment.Amount {
				amount = payment.Amount
			}
		}

		gatewayReq := &paygate.RefundRequest{
			RequestID: uuid.NewString(),
			Amount:    domain.ToMinorUnits(amount),
		}

		refundResp, err := s.gateway.Refund(txCtx, payment.TransactionRef, gatewayReq)
		if err != nil {
			s.logger.Error("Refund: gateway error for payment id=%d, transactionRef=%s: %v",
				paymentID, payment.TransactionRef, err)
			return err
		}

		if err := s.paymentRepo.MarkRefunded(txCtx, paymentID, amount, refundResp.RefundID); err != nil {
			if errors.Is(err, paymentRepo.ErrStatusConflict) {
				s.logger.Warn("Refund: payment id=%d status changed concurrently", paymentID)
				return ErrRefundNotAllowed
			}
			s.logger.Error("Refund: failed to mark payment id=%d refunded: %v", paymentID, err)
			return fmt.Errorf("%w: Refund - repository error: %v", ErrInternal, err)
		}

		if err := s.paymentRepo.MergeRawResponse(txCtx, paymentID, refundResp.Raw); err != nil {
			s.logger.Error("Refund: failed to merge raw response for payment id=%d: %v", paymentID, err)
			return fmt.Errorf("%w: Refund - repository error: %v", ErrInternal, err)
		}

		// Зеркальное поле payment_status бронирования
		if err := s.bookingRepo.UpdatePaymentStatus(txCtx, payment.BookingID, domain.PaymentRefunded); err != nil {
			s.logger.Error("Refund: failed to mirror payment status to booking id=%d: %v", payment.BookingID, err)
			return fmt.Errorf("%w: Refund - repository error: %v", ErrInternal, err)
		}

		resp = &models.RefundPaymentResponse{
			PaymentID:    paymentID,
			RefundRef:    refundResp.RefundID,
			RefundAmount: amount,
			Status:       string(domain.PaymentRefunded),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Refund: successfully refunded payment id=%d, amount=%.2f, refundRef=%s",
		paymentID, resp.RefundAmount, resp.RefundRef)

	return resp, nil
}

// applyStatus применяет статус, пришедший от шлюза (общий путь verify и webhook)
//
// Идемпотентность на compare-and-set: UPDATE со старым статусом в WHERE.
// 0 затронутых строк означает, что этот переход уже применен конкурентной
// доставкой - side effects пропускаются
func (s *Service) applyStatus(ctx context.Context, payment *domain.Payment, status domain.PaymentStatus, raw []byte) error {
	// Сырой ответ шлюза дописывается всегда, в том числе при повторных доставках
	if len(raw) > 0 {
		if err := s.paymentRepo.MergeRawResponse(ctx, payment.ID, raw); err != nil {
			s.logger.Error("applyStatus: failed to merge raw response for payment id=%d: %v", payment.ID, err)
			return fmt.Errorf("%w: applyStatus - repository error: %v", ErrInternal, err)
		}
	}

	switch status {
	case domain.PaymentPending:
		// Шлюз еще обрабатывает платеж
		return nil

	case domain.PaymentCompleted:
		return s.applyCompleted(ctx, payment)

	case domain.PaymentFailed:
		return s.applyTransition(ctx, payment, domain.PaymentPending, domain.PaymentFailed)

	case domain.PaymentRefunded:
		// Возврат, выполненный на стороне шлюза
		return s.applyTransition(ctx, payment, domain.PaymentCompleted, domain.PaymentRefunded)

	default:
		return fmt.Errorf("%w: applyStatus - unexpected status %q", ErrInternal, status)
	}
}

// applyCompleted применяет успешную оплату: payment completed + подтверждение бронирования
// Статусный переход платежа и side effects выполняются в одной сериализуемой транзакции
func (s *Service) applyCompleted(ctx context.Context, payment *domain.Payment) error {
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		now := s.timeProvider.Now()

		err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentPending, domain.PaymentCompleted, &now)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrStatusConflict) {
				// Уже применено конкурентной доставкой - идемпотентный no-op
				s.logger.Info("applyCompleted: payment id=%d already processed", payment.ID)
				return nil
			}
			s.logger.Error("applyCompleted: failed to update payment id=%d: %v", payment.ID, err)
			return fmt.Errorf("%w: applyCompleted - repository error: %v", ErrInternal, err)
		}

		if err := s.bookingRepo.UpdatePaymentStatus(txCtx, payment.BookingID, domain.PaymentCompleted); err != nil {
			s.logger.Error("applyCompleted: failed to mirror payment status to booking id=%d: %v",
				payment.BookingID, err)
			return fmt.Errorf("%w: applyCompleted - repository error: %v", ErrInternal, err)
		}

		// Подтверждение бронирования - side effect успешной оплаты.
		// Если бронирование уже подтверждено вручную, это не ошибка оплаты
		if err := s.bookings.Confirm(txCtx, payment.BookingID); err != nil {
			if errors.Is(err, bookingsService.ErrInvalidTransition) {
				s.logger.Warn("applyCompleted: booking id=%d is not pending, skipping confirm", payment.BookingID)
				return nil
			}
			s.logger.Error("applyCompleted: failed to confirm booking id=%d: %v", payment.BookingID, err)
			return fmt.Errorf("%w: applyCompleted - failed to confirm booking: %v", ErrInternal, err)
		}

		s.logger.Info("applyCompleted: payment id=%d completed, booking id=%d confirmed",
			payment.ID, payment.BookingID)
		return nil
	})
}

// applyTransition применяет переход статуса платежа без подтверждения бронирования
func (s *Service) applyTransition(ctx context.Context, payment *domain.Payment, expected, status domain.PaymentStatus) error {
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, expected, status, nil)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrStatusConflict) {
				s.logger.Info("applyTransition: payment id=%d already in another status, skipping %s", payment.ID, status)
				return nil
			}
			s.logger.Error("applyTransition: failed to update payment id=%d: %v", payment.ID, err)
			return fmt.Errorf("%w: applyTransition - repository error: %v", ErrInternal, err)
		}

		if err := s.bookingRepo.UpdatePaymentStatus(txCtx, payment.BookingID, status); err != nil {
			s.logger.Error("applyTransition: failed to mirror payment status to booking id=%d: %v",
				payment.BookingID, err)
			return fmt.Errorf("%w: applyTransition - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("applyTransition: payment id=%d moved to %s", payment.ID, status)
		return nil
	})
}

// getPayment получает платеж и транслирует ошибки репозитория
func (s *Service) getPayment(ctx context.Context, id int64, site string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("%s: payment id=%d not found", site, id)
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("%s: repository error for payment id=%d: %v", site, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, site, err)
	}
	return payment, nil
}
