package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/booking"
	offerRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/offer"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	offerRepo    OfferRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	offerRepo OfferRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		offerRepo:    offerRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// проверка доступности и вставка выполняются атомарно, остаточные гонки
// закрывает exclusion constraint в хранилище
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: venue=%d, customer=%d, date=%s, time=%s",
		req.VenueID, req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что дата не в прошлом
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем площадку
	venue, err := uc.scheduleRepo.GetVenue(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrVenueNotFound) {
			uc.logger.Warn("CreateBooking: venue id=%d not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateBooking: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	if !venue.IsActive {
		uc.logger.Warn("CreateBooking: venue id=%d is not active", req.VenueID)
		return nil, ErrVenueInactive
	}

	// 5. Вычисляем интервал бронирования
	endTime, hours, err := resolveWindow(req, venue)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to resolve booking window: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем расписание площадки на день недели
		dayOfWeek := int(req.Date.Weekday())

		schedule, err := uc.scheduleRepo.GetForDay(txCtx, req.VenueID, dayOfWeek)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("CreateBooking: venue id=%d has no schedule for day=%d", req.VenueID, dayOfWeek)
				return ErrVenueClosed
			}
			uc.logger.Error("CreateBooking: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		if schedule.IsClosed {
			uc.logger.Warn("CreateBooking: venue id=%d is closed on %s",
				req.VenueID, req.Date.Format(domain.DateFormat))
			return ErrVenueClosed
		}

		// 6.2. Проверяем, что интервал внутри рабочих часов.
		// Интервал не обязан совпадать с границами сгенерированных слотов:
		// менеджеры могут бронировать произвольные окна внутри рабочего дня
		if !schedule.Contains(req.StartTime, endTime) {
			uc.logger.Warn("CreateBooking: window [%s, %s) is outside operating hours [%s, %s)",
				req.StartTime, endTime, schedule.OpenTime, schedule.CloseTime)
			return ErrOutsideOperatingHours
		}

		// 6.3. Получаем все активные бронирования на эту дату с блокировкой (FOR UPDATE)
		filter := domain.VenueBookingsFilter{
			VenueID:         req.VenueID,
			StartDate:       ptr.Ptr(req.Date),
			EndDate:         ptr.Ptr(req.Date),
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetByVenueWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 6.4. Проверяем пересечение с активными бронированиями
		if hasConflict(req.StartTime, endTime, bookings) {
			uc.logger.Warn("CreateBooking: window [%s, %s) conflicts with an active booking",
				req.StartTime, endTime)
			return ErrSlotNotAvailable
		}

		// 6.5. Считаем цену и применяем предложение
		totalPrice := venue.PriceFor(hours)
		discount := 0.0

		if req.OfferID != nil {
			offer, err := uc.offerRepo.GetByID(txCtx, *req.OfferID)
			if err != nil {
				if errors.Is(err, offerRepo.ErrOfferNotFound) {
					uc.logger.Warn("CreateBooking: offer id=%d not found", *req.OfferID)
					return ErrOfferNotFound
				}
				uc.logger.Error("CreateBooking: failed to get offer id=%d: %v", *req.OfferID, err)
				return fmt.Errorf("%w: failed to get offer: %v", ErrInternal, err)
			}

			// Предложение должно принадлежать той же площадке
			if offer.VenueID != req.VenueID {
				uc.logger.Warn("CreateBooking: offer id=%d belongs to venue id=%d, not %d",
					offer.ID, offer.VenueID, req.VenueID)
				return ErrOfferNotFound
			}

			application, err := offer.Apply(totalPrice, hours, now)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrOfferNotValid):
					uc.logger.Warn("CreateBooking: offer id=%d is not valid", offer.ID)
					return ErrOfferNotValid
				case errors.Is(err, domain.ErrOfferMinHoursNotMet):
					uc.logger.Warn("CreateBooking: offer id=%d requires at least %d hours, got %d",
						offer.ID, *offer.MinBookingHours, hours)
					return ErrOfferMinHoursNotMet
				default:
					uc.logger.Error("CreateBooking: failed to apply offer id=%d: %v", offer.ID, err)
					return fmt.Errorf("%w: failed to apply offer: %v", ErrInternal, err)
				}
			}

			discount = application.Discount
			totalPrice = application.FinalPrice

			uc.logger.Info("CreateBooking: applied offer id=%d, discount=%.2f", offer.ID, discount)
		}

		// 6.6. Создаем бронирование в статусе pending
		booking := &domain.Booking{
			VenueID:       req.VenueID,
			CustomerID:    req.CustomerID,
			UserID:        req.UserID,
			OfferID:       req.OfferID,
			BookingDate:   req.Date,
			StartTime:     req.StartTime,
			EndTime:       endTime,
			Status:        domain.StatusPending,
			TotalPrice:    totalPrice,
			Discount:      discount,
			PaymentStatus: domain.PaymentPending,
			GuestCount:    req.GuestCount,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: storage rejected window [%s, %s): %v",
					req.StartTime, endTime, err)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Serialization failure на коммите конкурентной транзакции
		// означает проигрыш гонки за тот же интервал
		if bookingRepo.IsConflictError(err) {
			uc.logger.Warn("CreateBooking: lost serialization race: %v", err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%.2f", result.ID, result.TotalPrice)

	return toResponse(result), nil
}

// toResponse конвертирует доменную модель в response
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:            b.ID,
		VenueID:       b.VenueID,
		CustomerID:    b.CustomerID,
		UserID:        b.UserID,
		OfferID:       b.OfferID,
		BookingDate:   b.BookingDate,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		TotalPrice:    b.TotalPrice,
		Discount:      b.Discount,
		PaymentStatus: string(b.PaymentStatus),
		GuestCount:    b.GuestCount,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
