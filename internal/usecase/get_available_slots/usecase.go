package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
)

// UseCase use case для получения доступных слотов площадки
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// Execute возвращает слоты площадки на одну дату с признаком доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*DayResponse, error) {
	uc.logger.Info("GetAvailableSlots: venue=%d, date=%s", req.VenueID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	venue, err := uc.getActiveVenue(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}

	day, err := uc.buildDay(ctx, venue, req.Date)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: venue=%d, date=%s, slots=%d",
		req.VenueID, req.Date.Format(domain.DateFormat), len(day.Slots))

	return day, nil
}

// ExecuteWeek возвращает доступность площадки на 7 дней начиная с req.From
// Формат ответа ориентирован на клиентский UI выбора слота:
// по каждому дню недели - флаг закрытия, рабочие часы и свободные слоты
func (uc *UseCase) ExecuteWeek(ctx context.Context, req *WeekRequest) (*WeekResponse, error) {
	uc.logger.Info("GetAvailableSlotsWeek: venue=%d, from=%s", req.VenueID, req.From.Format(domain.DateFormat))

	if err := validateWeekRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlotsWeek: validation failed: %v", err)
		return nil, err
	}

	venue, err := uc.getActiveVenue(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}

	days := make([]DayResponse, 0, 7)
	for i := 0; i < 7; i++ {
		date := req.From.AddDate(0, 0, i)

		day, err := uc.buildDay(ctx, venue, date)
		if err != nil {
			return nil, err
		}

		days = append(days, *day)
	}

	return &WeekResponse{
		VenueID: req.VenueID,
		From:    req.From,
		Days:    days,
	}, nil
}

// buildDay собирает доступность площадки на одну дату:
// расписание дня недели -> генерация слотов -> разметка занятости по активным бронированиям
func (uc *UseCase) buildDay(ctx context.Context, venue *domain.Venue, date time.Time) (*DayResponse, error) {
	dayOfWeek := int(date.Weekday())

	sched, err := uc.scheduleRepo.GetForDay(ctx, venue.ID, dayOfWeek)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			// Нет строки расписания - площадка в этот день не работает
			return &DayResponse{
				Date:      date,
				VenueID:   venue.ID,
				DayOfWeek: dayOfWeek,
				IsClosed:  true,
				Slots:     []Slot{},
			}, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule for venue=%d day=%d: %v", venue.ID, dayOfWeek, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if sched.IsClosed {
		return &DayResponse{
			Date:      date,
			VenueID:   venue.ID,
			DayOfWeek: dayOfWeek,
			IsClosed:  true,
			Slots:     []Slot{},
		}, nil
	}

	slots, err := generateSlots(sched, venue.BookingDurationHours, venue.BufferMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for venue=%d: %v", venue.ID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	filter := domain.VenueBookingsFilter{
		VenueID:         venue.ID,
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: false, // Только активные бронирования занимают слоты
	}

	bookings, err := uc.bookingRepo.GetByVenueWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for venue=%d: %v", venue.ID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return &DayResponse{
		Date:      date,
		VenueID:   venue.ID,
		DayOfWeek: dayOfWeek,
		IsClosed:  false,
		OpenTime:  &sched.OpenTime,
		CloseTime: &sched.CloseTime,
		Slots:     markAvailability(slots, bookings),
	}, nil
}

func (uc *UseCase) getActiveVenue(ctx context.Context, venueID int64) (*domain.Venue, error) {
	venue, err := uc.scheduleRepo.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrVenueNotFound) {
			uc.logger.Warn("GetAvailableSlots: venue id=%d not found", venueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get venue id=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	if !venue.IsActive {
		uc.logger.Warn("GetAvailableSlots: venue id=%d is not active", venueID)
		return nil, ErrVenueInactive
	}

	return venue, nil
}
