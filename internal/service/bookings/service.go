package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/booking"
	offerRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/offer"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/internal/service/bookings/models"
	"github.com/m04kA/VMP-BookingService/pkg/ptr"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// Service сервис жизненного цикла бронирований
//
// State machine: pending -> confirmed -> completed, pending|confirmed -> cancelled.
// Из терминальных статусов (completed, cancelled) переходов нет.
// Guards проверяются дважды: на доменной модели для ранней диагностики
// и в WHERE самого UPDATE для защиты от гонки статусов
type Service struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	offerRepo    OfferRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	offerRepo OfferRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		offerRepo:    offerRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetVenueBookings получает бронирования площадки с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных бронирований
//
// Примеры использования:
// - Все активные бронирования: GetVenueBookings(ctx, &GetVenueBookingsRequest{VenueID: 123})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования за период: StartDate и EndDate указывают на разные даты
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetVenueBookings(ctx context.Context, req *models.GetVenueBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetVenueBookings: fetching bookings for venue=%d", req.VenueID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetVenueBookings: invalid filter for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByVenueWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetVenueBookings: repository error for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: GetVenueBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetVenueBookings: successfully fetched %d bookings for venue=%d", len(bookings), req.VenueID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает бронирование (pending -> confirmed)
//
// Вызывается напрямую менеджером площадки либо как side effect успешной оплаты.
// Если к бронированию привязано предложение, его used_count инкрементируется
// здесь и только здесь - ровно один раз за жизнь бронирования.
// Статусный переход и инкремент выполняются в одной сериализуемой транзакции
func (s *Service) Confirm(ctx context.Context, bookingID int64) error {
	s.logger.Info("Confirm: confirming booking id=%d", bookingID)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Читаем с блокировкой (FOR UPDATE внутри транзакции)
		booking, err := s.getBooking(txCtx, bookingID, "Confirm")
		if err != nil {
			return err
		}

		if !booking.CanBeConfirmed() {
			s.logger.Warn("Confirm: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
			return ErrInvalidTransition
		}

		if err := s.bookingRepo.Confirm(txCtx, bookingID); err != nil {
			return s.mapTransitionError(err, bookingID, "Confirm")
		}

		// Инкремент использования предложения - ровно один раз при подтверждении
		if booking.OfferID != nil {
			if err := s.offerRepo.IncrementUsage(txCtx, *booking.OfferID); err != nil {
				if errors.Is(err, offerRepo.ErrUsageExhausted) {
					s.logger.Warn("Confirm: offer id=%d usage exhausted for booking id=%d", *booking.OfferID, bookingID)
					return ErrOfferExhausted
				}
				s.logger.Error("Confirm: failed to increment offer id=%d usage: %v", *booking.OfferID, err)
				return fmt.Errorf("%w: Confirm - failed to increment offer usage: %v", ErrInternal, err)
			}
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return nil
}

// Cancel отменяет бронирование (pending|confirmed -> cancelled)
// Возврат средств НЕ инициируется автоматически - это отдельное действие над платежом
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		return s.mapTransitionError(err, bookingID, "Cancel")
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// Complete завершает бронирование (confirmed -> completed)
func (s *Service) Complete(ctx context.Context, bookingID int64) error {
	s.logger.Info("Complete: completing booking id=%d", bookingID)

	booking, err := s.getBooking(ctx, bookingID, "Complete")
	if err != nil {
		return err
	}

	if !booking.CanBeCompleted() {
		s.logger.Warn("Complete: booking id=%d cannot be completed, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.Complete(ctx, bookingID); err != nil {
		return s.mapTransitionError(err, bookingID, "Complete")
	}

	s.logger.Info("Complete: successfully completed booking id=%d", bookingID)
	return nil
}

// Reschedule переносит pending бронирование на новое окно той же длительности
// Доступность нового окна проверяется в сериализуемой транзакции,
// собственное бронирование исключается из проверки конфликтов
func (s *Service) Reschedule(ctx context.Context, bookingID int64, req *models.RescheduleBookingRequest) error {
	s.logger.Info("Reschedule: rescheduling booking id=%d to date=%s, time=%s",
		bookingID, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := s.validateRescheduleRequest(req); err != nil {
		s.logger.Warn("Reschedule: validation failed for booking id=%d: %v", bookingID, err)
		return err
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID, "Reschedule")
		if err != nil {
			return err
		}

		if !booking.CanBeRescheduled() {
			s.logger.Warn("Reschedule: booking id=%d cannot be rescheduled, status=%s", bookingID, booking.Status)
			return ErrInvalidTransition
		}

		// Новое окно сохраняет длительность исходного бронирования
		hours := booking.DurationHours()
		endTime, err := req.StartTime.AddHours(hours)
		if err != nil {
			s.logger.Warn("Reschedule: window does not fit the day for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: booking window does not fit the day: %v", ErrInvalidInput, err)
		}

		if err := s.checkWindowAvailable(txCtx, booking.VenueID, bookingID, req.Date, req.StartTime, endTime); err != nil {
			return err
		}

		if err := s.bookingRepo.Reschedule(txCtx, bookingID, req.Date, req.StartTime, endTime); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return ErrSlotNotAvailable
			}
			return s.mapTransitionError(err, bookingID, "Reschedule")
		}

		return nil
	})

	if err != nil {
		// Serialization failure на коммите конкурентной транзакции
		if bookingRepo.IsConflictError(err) {
			s.logger.Warn("Reschedule: lost serialization race for booking id=%d: %v", bookingID, err)
			return ErrSlotNotAvailable
		}
		return err
	}

	s.logger.Info("Reschedule: successfully rescheduled booking id=%d", bookingID)
	return nil
}

// Вспомогательные методы

// getBooking получает бронирование и транслирует ошибки репозитория
func (s *Service) getBooking(ctx context.Context, id int64, site string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", site, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", site, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, site, err)
	}
	return booking, nil
}

// mapTransitionError транслирует ошибки guarded UPDATE в ошибки сервиса
func (s *Service) mapTransitionError(err error, bookingID int64, site string) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found during update", site, bookingID)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		// Статус изменился между чтением и записью
		s.logger.Warn("%s: status conflict for booking id=%d", site, bookingID)
		return ErrInvalidTransition
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", site, bookingID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, site, err)
	}
}

// validateRescheduleRequest валидирует запрос на перенос
func (s *Service) validateRescheduleRequest(req *models.RescheduleBookingRequest) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	now := s.timeProvider.Now()
	dateOnly := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidBookingDate)
	}

	return nil
}

// checkWindowAvailable проверяет доступность окна [start, end) на дату date,
// исключая из проверки конфликтов бронирование excludeID
func (s *Service) checkWindowAvailable(
	ctx context.Context,
	venueID, excludeID int64,
	date time.Time,
	start, end types.TimeString,
) error {
	dayOfWeek := int(date.Weekday())

	schedule, err := s.scheduleRepo.GetForDay(ctx, venueID, dayOfWeek)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("checkWindowAvailable: venue id=%d has no schedule for day=%d", venueID, dayOfWeek)
			return ErrVenueClosed
		}
		s.logger.Error("checkWindowAvailable: failed to get schedule for venue id=%d: %v", venueID, err)
		return fmt.Errorf("%w: checkWindowAvailable - failed to get schedule: %v", ErrInternal, err)
	}

	if schedule.IsClosed {
		s.logger.Warn("checkWindowAvailable: venue id=%d is closed on %s", venueID, date.Format(domain.DateFormat))
		return ErrVenueClosed
	}

	if !schedule.Contains(start, end) {
		s.logger.Warn("checkWindowAvailable: window [%s, %s) is outside operating hours [%s, %s)",
			start, end, schedule.OpenTime, schedule.CloseTime)
		return ErrOutsideOperatingHours
	}

	filter := domain.VenueBookingsFilter{
		VenueID:         venueID,
		StartDate:       ptr.Ptr(date),
		EndDate:         ptr.Ptr(date),
		IncludeInactive: false,
	}

	bookings, err := s.bookingRepo.GetByVenueWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("checkWindowAvailable: failed to get bookings for venue id=%d: %v", venueID, err)
		return fmt.Errorf("%w: checkWindowAvailable - failed to get bookings: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		if b.ID == excludeID || !b.IsActive() {
			continue
		}
		if b.Overlaps(start, end) {
			s.logger.Warn("checkWindowAvailable: window [%s, %s) conflicts with booking id=%d", start, end, b.ID)
			return ErrSlotNotAvailable
		}
	}

	return nil
}
