package create_booking

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/pkg/ptr"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// Fakes

type fakeBookingRepo struct {
	bookings []*domain.Booking
	created  *domain.Booking
	nextID   int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	b.ID = f.nextID
	f.created = b
	f.bookings = append(f.bookings, b)
	return b, nil
}

func (f *fakeBookingRepo) GetByVenueWithFilter(_ context.Context, _ domain.VenueBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeScheduleRepo struct {
	venue    *domain.Venue
	schedule *domain.Schedule
}

func (f *fakeScheduleRepo) GetVenue(_ context.Context, _ int64) (*domain.Venue, error) {
	if f.venue == nil {
		return nil, scheduleRepo.ErrVenueNotFound
	}
	return f.venue, nil
}

func (f *fakeScheduleRepo) GetForDay(_ context.Context, _ int64, _ int) (*domain.Schedule, error) {
	if f.schedule == nil {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return f.schedule, nil
}

type fakeOfferRepo struct {
	offer *domain.Offer
}

func (f *fakeOfferRepo) GetByID(_ context.Context, _ int64) (*domain.Offer, error) {
	return f.offer, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
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

// Сборка use case с фиксированным временем и субботней площадкой 10:00-18:00

func newTestUseCase(bookings *fakeBookingRepo, offers *fakeOfferRepo) *UseCase {
	return &UseCase{
		bookingRepo: bookings,
		scheduleRepo: &fakeScheduleRepo{
			venue: &domain.Venue{
				ID:                   1,
				BasePrice:            500,
				Currency:             "RUB",
				BookingDurationHours: 4,
				IsActive:             true,
			},
			schedule: &domain.Schedule{
				VenueID:   1,
				DayOfWeek: 6,
				OpenTime:  "10:00",
				CloseTime: "18:00",
			},
		},
		offerRepo:    offers,
		txManager:    &fakeTxManager{},
		timeProvider: &fakeTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)},
		logger:       nopLogger{},
	}
}

// 2026-09-05 - суббота
var saturday = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

func TestExecute_CreatesPendingBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, &fakeOfferRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		VenueID:    1,
		CustomerID: 100,
		Date:       saturday,
		StartTime:  "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Equal(t, types.TimeString("14:00"), resp.EndTime)
	assert.Equal(t, 2000.0, resp.TotalPrice)
	assert.Equal(t, 0.0, resp.Discount)
}

func TestExecute_RejectsConflictingWindow(t *testing.T) {
	// Существующее подтверждённое бронирование 10:00-14:00,
	// запрос 12:00-16:00 пересекается и должен быть отклонён
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:        1,
				VenueID:   1,
				Status:    domain.StatusConfirmed,
				StartTime: "10:00",
				EndTime:   "14:00",
			},
		},
		nextID: 1,
	}
	uc := newTestUseCase(repo, &fakeOfferRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		VenueID:    1,
		CustomerID: 100,
		Date:       saturday,
		StartTime:  "12:00",
		EndTime:    ptr.Ptr(types.TimeString("16:00")),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_AdjacentWindowAccepted(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{ID: 1, VenueID: 1, Status: domain.StatusConfirmed, StartTime: "10:00", EndTime: "14:00"},
		},
		nextID: 1,
	}
	uc := newTestUseCase(repo, &fakeOfferRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		VenueID:    1,
		CustomerID: 100,
		Date:       saturday,
		StartTime:  "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("18:00"), resp.EndTime)
}

func TestExecute_RejectsOutsideOperatingHours(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeOfferRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		VenueID:    1,
		CustomerID: 100,
		Date:       saturday,
		StartTime:  "16:00", // 16:00 + 4 часа = 20:00 > 18:00
	})
	assert.ErrorIs(t, err, ErrOutsideOperatingHours)
}

func TestExecute_RejectsPastDate(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeOfferRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		VenueID:    1,
		CustomerID: 100,
		Date:       time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_AppliesOffer(t *testing.T) {
	repo := &fakeBookingRepo{}
	offers := &fakeOfferRepo{
		offer: &domain.Offer{
			ID:            7,
			VenueID:       1,
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 10,
			StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			IsActive:      true,
		},
	}
	uc := newTestUseCase(repo, offers)

	resp, err := uc.Execute(context.Background(), &Request{
		VenueID:    1,
		CustomerID: 100,
		OfferID:    ptr.Ptr(int64(7)),
		Date:       saturday,
		StartTime:  "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 200.0, resp.Discount)
	assert.Equal(t, 1800.0, resp.TotalPrice)
	require.NotNil(t, resp.OfferID)
	assert.Equal(t, int64(7), *resp.OfferID)
}

func TestExecute_CommittedSetIsPairwiseNonOverlapping(t *testing.T) {
	// Случайные окна на одну площадку и дату: часть запросов отклоняется
	// (вне часов работы, конфликт), но принятые не должны пересекаться
	rnd := rand.New(rand.NewSource(1))
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, &fakeOfferRepo{})

	accepted := 0
	for i := 0; i < 200; i++ {
		startMinutes := 30 * rnd.Intn(48)
		start := fmt.Sprintf("%02d:%02d", startMinutes/60, startMinutes%60)
		duration := 1 + rnd.Intn(8)

		_, err := uc.Execute(context.Background(), &Request{
			VenueID:       1,
			CustomerID:    100,
			Date:          saturday,
			StartTime:     types.TimeString(start),
			DurationHours: ptr.Ptr(duration),
		})
		if err == nil {
			accepted++
		}
	}

	require.NotZero(t, accepted)
	assert.Equal(t, accepted, len(repo.bookings))

	for i := 0; i < len(repo.bookings); i++ {
		for j := i + 1; j < len(repo.bookings); j++ {
			a, b := repo.bookings[i], repo.bookings[j]
			assert.Falsef(t, a.Overlaps(b.StartTime, b.EndTime),
				"bookings %s-%s and %s-%s overlap", a.StartTime, a.EndTime, b.StartTime, b.EndTime)
		}
	}
}

func TestExecute_RejectsOfferBelowMinHours(t *testing.T) {
	offers := &fakeOfferRepo{
		offer: &domain.Offer{
			ID:              7,
			VenueID:         1,
			DiscountType:    domain.DiscountFixed,
			DiscountValue:   300,
			MinBookingHours: ptr.Ptr(4),
			StartDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			IsActive:        true,
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, offers)

	_, err := uc.Execute(context.Background(), &Request{
		VenueID:       1,
		CustomerID:    100,
		OfferID:       ptr.Ptr(int64(7)),
		Date:          saturday,
		StartTime:     "10:00",
		DurationHours: ptr.Ptr(2),
	})
	assert.ErrorIs(t, err, ErrOfferMinHoursNotMet)
}

func TestExecute_RejectsForeignOffer(t *testing.T) {
	offers := &fakeOfferRepo{
		offer: &domain.Offer{
			ID:            7,
			VenueID:       99, // чужая площадка
			DiscountType:  domain.DiscountFixed,
			DiscountValue: 300,
			StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			IsActive:      true,
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, offers)

	_, err := uc.Execute(context.Background(), &Request{
		VenueID:    1,
		CustomerID: 100,
		OfferID:    ptr.Ptr(int64(7)),
		Date:       saturday,
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrOfferNotFound)
}
