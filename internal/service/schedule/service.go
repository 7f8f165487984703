package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/internal/service/schedule/models"
)

// Service сервис конфигурации расписаний площадок
// Расписание пишется провайдером и читается read-only генератором слотов
// и проверкой доступности
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWeek получает недельное расписание площадки
// Дни без записи в расписании считаются закрытыми и в ответ не включаются
func (s *Service) GetWeek(ctx context.Context, venueID int64) (*models.WeekScheduleResponse, error) {
	s.logger.Info("GetWeek: fetching schedule for venue=%d", venueID)

	if _, err := s.getVenue(ctx, venueID, "GetWeek"); err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.GetWeek(ctx, venueID)
	if err != nil {
		s.logger.Error("GetWeek: repository error for venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetWeek: successfully fetched %d days for venue=%d", len(schedules), venueID)
	return models.FromDomainWeek(venueID, schedules), nil
}

// UpdateWeek создает или обновляет расписание площадки на перечисленные дни недели
// Все дни валидируются до записи; запись выполняется в одной транзакции,
// чтобы расписание не осталось обновленным наполовину
func (s *Service) UpdateWeek(ctx context.Context, venueID int64, req *models.UpdateWeekRequest) (*models.WeekScheduleResponse, error) {
	s.logger.Info("UpdateWeek: updating schedule for venue=%d, days=%d", venueID, len(req.Days))

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}

	if _, err := s.getVenue(ctx, venueID, "UpdateWeek"); err != nil {
		return nil, err
	}

	// Валидируем все дни до первой записи
	seen := make(map[int]bool, len(req.Days))
	domainSchedules := make([]*domain.Schedule, 0, len(req.Days))
	for _, day := range req.Days {
		sched := day.ToDomainSchedule(venueID)
		if err := sched.Validate(); err != nil {
			s.logger.Warn("UpdateWeek: invalid schedule for venue=%d, day=%d: %v", venueID, day.DayOfWeek, err)
			return nil, fmt.Errorf("%w: day %d: %v", ErrInvalidInput, day.DayOfWeek, err)
		}
		if seen[sched.DayOfWeek] {
			return nil, fmt.Errorf("%w: duplicate day %d", ErrInvalidInput, sched.DayOfWeek)
		}
		seen[sched.DayOfWeek] = true
		domainSchedules = append(domainSchedules, sched)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, sched := range domainSchedules {
			if _, err := s.scheduleRepo.Upsert(txCtx, sched); err != nil {
				s.logger.Error("UpdateWeek: failed to upsert day=%d for venue=%d: %v",
					sched.DayOfWeek, venueID, err)
				return fmt.Errorf("%w: UpdateWeek - repository error: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateWeek: successfully updated %d days for venue=%d", len(domainSchedules), venueID)
	return s.GetWeek(ctx, venueID)
}

// getVenue проверяет существование площадки
func (s *Service) getVenue(ctx context.Context, venueID int64, site string) (*domain.Venue, error) {
	venue, err := s.scheduleRepo.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrVenueNotFound) {
			s.logger.Warn("%s: venue id=%d not found", site, venueID)
			return nil, ErrVenueNotFound
		}
		s.logger.Error("%s: failed to get venue id=%d: %v", site, venueID, err)
		return nil, fmt.Errorf("%w: %s - failed to get venue: %v", ErrInternal, site, err)
	}
	return venue, nil
}
