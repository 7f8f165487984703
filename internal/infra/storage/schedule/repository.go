package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/pkg/dbmetrics"
	"github.com/m04kA/VMP-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// Repository репозиторий для работы с площадками и их расписаниями
// Записи создаются провайдерской конфигурационной поверхностью,
// ядро бронирования читает их только для проверок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetVenue получает конфигурацию площадки по ID
func (r *Repository) GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"base_price",
		"currency",
		"timezone",
		"booking_duration_hours",
		"buffer_minutes",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("venues").
		Where(squirrel.Eq{"id": venueID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetVenue - build select query: %v", ErrBuildQuery, err)
	}

	var venue domain.Venue
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&venue.ID,
		&venue.Name,
		&venue.BasePrice,
		&venue.Currency,
		&venue.Timezone,
		&venue.BookingDurationHours,
		&venue.BufferMinutes,
		&venue.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetVenue - scan venue: %v", ErrScanRow, err)
	}

	venue.CreatedAt = createdAt.Time
	venue.UpdatedAt = updatedAt.Time

	return &venue, nil
}

// GetForDay получает расписание площадки на конкретный день недели
// Отсутствие строки означает, что площадка в этот день не работает
func (r *Repository) GetForDay(ctx context.Context, venueID int64, dayOfWeek int) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns()...).
		From("venue_schedules").
		Where(squirrel.Eq{"venue_id": venueID, "day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetForDay - build select query: %v", ErrBuildQuery, err)
	}

	sched, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetForDay - scan schedule: %v", ErrScanRow, err)
	}

	return sched, nil
}

// GetWeek получает все расписания площадки, отсортированные по дню недели
func (r *Repository) GetWeek(ctx context.Context, venueID int64) ([]*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns()...).
		From("venue_schedules").
		Where(squirrel.Eq{"venue_id": venueID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)

	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeek - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, sched)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeek - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// Upsert создает или обновляет расписание площадки на день недели
// На паре (venue_id, day_of_week) стоит уникальный индекс
func (r *Repository) Upsert(ctx context.Context, sched *domain.Schedule) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("venue_schedules").
		Columns(
			"venue_id",
			"day_of_week",
			"open_time",
			"close_time",
			"is_closed",
		).
		Values(
			sched.VenueID,
			sched.DayOfWeek,
			sched.OpenTime,
			sched.CloseTime,
			sched.IsClosed,
		).
		Suffix("ON CONFLICT (venue_id, day_of_week) DO UPDATE SET " +
			"open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, " +
			"is_closed = EXCLUDED.is_closed, updated_at = NOW() " +
			"RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sched.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	sched.CreatedAt = createdAt.Time
	sched.UpdatedAt = updatedAt.Time

	return sched, nil
}

func scheduleColumns() []string {
	return []string{
		"id",
		"venue_id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_closed",
		"created_at",
		"updated_at",
	}
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var sched domain.Schedule
	// Закрытые дни могут нести NULL вместо времени работы
	var openTime, closeTime sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&sched.ID,
		&sched.VenueID,
		&sched.DayOfWeek,
		&openTime,
		&closeTime,
		&sched.IsClosed,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	sched.OpenTime = types.TimeString(openTime.String)
	sched.CloseTime = types.TimeString(closeTime.String)
	sched.CreatedAt = createdAt.Time
	sched.UpdatedAt = updatedAt.Time

	return &sched, nil
}
