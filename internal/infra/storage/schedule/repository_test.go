package schedule

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// fakeScheduleRow воспроизводит порядок колонок scheduleColumns()
type fakeScheduleRow struct {
	id        int64
	venueID   int64
	dayOfWeek int
	openTime  sql.NullString
	closeTime sql.NullString
	isClosed  bool
}

func (f *fakeScheduleRow) Scan(dest ...interface{}) error {
	*(dest[0].(*int64)) = f.id
	*(dest[1].(*int64)) = f.venueID
	*(dest[2].(*int)) = f.dayOfWeek
	*(dest[3].(*sql.NullString)) = f.openTime
	*(dest[4].(*sql.NullString)) = f.closeTime
	*(dest[5].(*bool)) = f.isClosed
	return nil
}

func TestScanSchedule(t *testing.T) {
	t.Run("working day", func(t *testing.T) {
		sched, err := scanSchedule(&fakeScheduleRow{
			id:        1,
			venueID:   10,
			dayOfWeek: 6,
			openTime:  sql.NullString{String: "10:00", Valid: true},
			closeTime: sql.NullString{String: "18:00", Valid: true},
		})
		require.NoError(t, err)

		assert.Equal(t, types.TimeString("10:00"), sched.OpenTime)
		assert.Equal(t, types.TimeString("18:00"), sched.CloseTime)
		assert.False(t, sched.IsClosed)
	})

	t.Run("closed day with null times", func(t *testing.T) {
		// Внешняя провайдерская CRUD-поверхность пишет NULL для закрытых дней
		sched, err := scanSchedule(&fakeScheduleRow{
			id:        2,
			venueID:   10,
			dayOfWeek: 0,
			isClosed:  true,
		})
		require.NoError(t, err)

		assert.True(t, sched.IsClosed)
		assert.True(t, sched.OpenTime.IsZero())
		assert.True(t, sched.CloseTime.IsZero())
	})
}
