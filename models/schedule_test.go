package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchedule() *Schedule {
	return &Schedule{
		ProviderID: "prov-1",
		Days: []DayRule{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Available: true},
			{DayOfWeek: 2, StartTime: "10:00", EndTime: "16:00", Available: true},
		},
		Timezone:            "America/New_York",
		AdvanceBookingDays:  30,
		MinimumNoticeHours:  2,
		BufferMinutes:       15,
		SlotIntervalMinutes: 30,
	}
}

func TestScheduleValidate(t *testing.T) {
	t.Run("valid schedule passes", func(t *testing.T) {
		assert.NoError(t, validSchedule().Validate())
	})

	t.Run("no available day is rejected", func(t *testing.T) {
		s := validSchedule()
		for i := range s.Days {
			s.Days[i].Available = false
		}
		assert.Error(t, s.Validate())
	})

	t.Run("duplicate weekday is rejected", func(t *testing.T) {
		s := validSchedule()
		s.Days[1].DayOfWeek = 1
		assert.Error(t, s.Validate())
	})

	t.Run("window ending before it starts is rejected", func(t *testing.T) {
		s := validSchedule()
		s.Days[0].StartTime = "17:00"
		s.Days[0].EndTime = "09:00"
		assert.Error(t, s.Validate())
	})

	t.Run("unknown timezone is rejected", func(t *testing.T) {
		s := validSchedule()
		s.Timezone = "Mars/Olympus"
		assert.Error(t, s.Validate())
	})
}

func TestMinuteOfDay(t *testing.T) {
	m, err := MinuteOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = MinuteOfDay("00:00")
	require.NoError(t, err)
	assert.Zero(t, m)

	_, err = MinuteOfDay("25:00")
	assert.Error(t, err)
	_, err = MinuteOfDay("9am")
	assert.Error(t, err)

	assert.Equal(t, "09:05", FormatMinute(545))
}

func TestTimeOffCovers(t *testing.T) {
	off := TimeOff{StartDate: "2026-09-05", EndDate: "2026-09-10"}

	assert.True(t, off.Covers("2026-09-05"))
	assert.True(t, off.Covers("2026-09-07"))
	assert.True(t, off.Covers("2026-09-10")) // end date is inclusive
	assert.False(t, off.Covers("2026-09-04"))
	assert.False(t, off.Covers("2026-09-11"))
}

func TestTimeOffValidate(t *testing.T) {
	t.Run("partial entry needs a sub-range", func(t *testing.T) {
		off := TimeOff{
			ProviderID: "prov-1",
			StartDate:  "2026-09-05", EndDate: "2026-09-05",
			StartTime: "12:00", EndTime: "14:00",
		}
		assert.NoError(t, off.Validate())
	})

	t.Run("reversed dates are rejected", func(t *testing.T) {
		off := TimeOff{ProviderID: "prov-1", StartDate: "2026-09-10", EndDate: "2026-09-05", AllDay: true}
		assert.Error(t, off.Validate())
	})
}
