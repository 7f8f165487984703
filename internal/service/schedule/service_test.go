package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/internal/service/schedule/models"
	"github.com/m04kA/VMP-BookingService/pkg/ptr"
)

type fakeScheduleRepo struct {
	venue *domain.Venue
	week  map[int]*domain.Schedule
}

func newFakeScheduleRepo(venue *domain.Venue) *fakeScheduleRepo {
	return &fakeScheduleRepo{venue: venue, week: make(map[int]*domain.Schedule)}
}

func (f *fakeScheduleRepo) GetVenue(_ context.Context, _ int64) (*domain.Venue, error) {
	if f.venue == nil {
		return nil, scheduleRepo.ErrVenueNotFound
	}
	return f.venue, nil
}

func (f *fakeScheduleRepo) GetWeek(_ context.Context, _ int64) ([]*domain.Schedule, error) {
	result := make([]*domain.Schedule, 0, len(f.week))
	for day := 0; day < 7; day++ {
		if s, ok := f.week[day]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeScheduleRepo) Upsert(_ context.Context, sched *domain.Schedule) (*domain.Schedule, error) {
	f.week[sched.DayOfWeek] = sched
	return sched, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeScheduleRepo) *Service {
	return NewService(repo, &fakeTxManager{}, nopLogger{})
}

func TestUpdateWeek(t *testing.T) {
	t.Run("upserts listed days", func(t *testing.T) {
		repo := newFakeScheduleRepo(&domain.Venue{ID: 10, IsActive: true})
		svc := newTestService(repo)

		resp, err := svc.UpdateWeek(context.Background(), 10, &models.UpdateWeekRequest{
			Days: []models.DayScheduleRequest{
				{DayOfWeek: 6, OpenTime: ptr.Ptr("10:00"), CloseTime: ptr.Ptr("18:00")},
				{DayOfWeek: 0, IsClosed: true},
			},
		})
		require.NoError(t, err)

		require.Len(t, resp.Days, 2)
		assert.Equal(t, 0, resp.Days[0].DayOfWeek)
		assert.True(t, resp.Days[0].IsClosed)
		assert.Nil(t, resp.Days[0].OpenTime)
		assert.Equal(t, 6, resp.Days[1].DayOfWeek)
		require.NotNil(t, resp.Days[1].OpenTime)
		assert.Equal(t, "10:00", *resp.Days[1].OpenTime)
	})

	t.Run("invalid day is rejected before any write", func(t *testing.T) {
		repo := newFakeScheduleRepo(&domain.Venue{ID: 10, IsActive: true})
		svc := newTestService(repo)

		_, err := svc.UpdateWeek(context.Background(), 10, &models.UpdateWeekRequest{
			Days: []models.DayScheduleRequest{
				{DayOfWeek: 1, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("21:00")},
				{DayOfWeek: 2, OpenTime: ptr.Ptr("21:00"), CloseTime: ptr.Ptr("09:00")}, // open >= close
			},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, repo.week)
	})

	t.Run("duplicate day rejected", func(t *testing.T) {
		repo := newFakeScheduleRepo(&domain.Venue{ID: 10, IsActive: true})
		svc := newTestService(repo)

		_, err := svc.UpdateWeek(context.Background(), 10, &models.UpdateWeekRequest{
			Days: []models.DayScheduleRequest{
				{DayOfWeek: 3, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("21:00")},
				{DayOfWeek: 3, IsClosed: true},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty days rejected", func(t *testing.T) {
		svc := newTestService(newFakeScheduleRepo(&domain.Venue{ID: 10, IsActive: true}))

		_, err := svc.UpdateWeek(context.Background(), 10, &models.UpdateWeekRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown venue", func(t *testing.T) {
		svc := newTestService(newFakeScheduleRepo(nil))

		_, err := svc.UpdateWeek(context.Background(), 99, &models.UpdateWeekRequest{
			Days: []models.DayScheduleRequest{{DayOfWeek: 1, IsClosed: true}},
		})
		assert.ErrorIs(t, err, ErrVenueNotFound)
	})
}

func TestGetWeek_OmitsMissingDays(t *testing.T) {
	repo := newFakeScheduleRepo(&domain.Venue{ID: 10, IsActive: true})
	repo.week[6] = &domain.Schedule{
		VenueID:   10,
		DayOfWeek: 6,
		OpenTime:  "10:00",
		CloseTime: "18:00",
	}
	svc := newTestService(repo)

	resp, err := svc.GetWeek(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, 6, resp.Days[0].DayOfWeek)
}
