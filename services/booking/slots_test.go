package booking

import (
	"testing"

	"glowbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtractRange(t *testing.T) {
	day := []window{{start: 540, end: 1020}} // 09:00-17:00

	t.Run("block in the middle splits the window", func(t *testing.T) {
		got := subtractRange(day, 720, 780) // 12:00-13:00
		require.Len(t, got, 2)
		assert.Equal(t, window{start: 540, end: 720}, got[0])
		assert.Equal(t, window{start: 780, end: 1020}, got[1])
	})

	t.Run("block clipping the start", func(t *testing.T) {
		got := subtractRange(day, 480, 600)
		require.Len(t, got, 1)
		assert.Equal(t, window{start: 600, end: 1020}, got[0])
	})

	t.Run("block covering everything empties the day", func(t *testing.T) {
		assert.Empty(t, subtractRange(day, 0, 1440))
	})

	t.Run("disjoint block is a no-op", func(t *testing.T) {
		assert.Equal(t, day, subtractRange(day, 0, 540))
	})

	t.Run("empty block is a no-op", func(t *testing.T) {
		assert.Equal(t, day, subtractRange(day, 600, 600))
	})
}

func TestDayWindows(t *testing.T) {
	rule := &models.DayRule{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Available: true}

	t.Run("no time off keeps the full span", func(t *testing.T) {
		ws, err := dayWindows(rule, "2026-09-07", nil)
		require.NoError(t, err)
		require.Len(t, ws, 1)
		assert.Equal(t, window{start: 540, end: 1020}, ws[0])
	})

	t.Run("all-day entry empties the day", func(t *testing.T) {
		offs := []models.TimeOff{{StartDate: "2026-09-01", EndDate: "2026-09-10", AllDay: true}}
		ws, err := dayWindows(rule, "2026-09-07", offs)
		require.NoError(t, err)
		assert.Nil(t, ws)
	})

	t.Run("partial entry carves out its sub-range", func(t *testing.T) {
		offs := []models.TimeOff{{
			StartDate: "2026-09-07", EndDate: "2026-09-07",
			StartTime: "12:00", EndTime: "14:00",
		}}
		ws, err := dayWindows(rule, "2026-09-07", offs)
		require.NoError(t, err)
		require.Len(t, ws, 2)
		assert.Equal(t, window{start: 540, end: 720}, ws[0])
		assert.Equal(t, window{start: 840, end: 1020}, ws[1])
	})

	t.Run("entry for another date is ignored", func(t *testing.T) {
		offs := []models.TimeOff{{StartDate: "2026-09-08", EndDate: "2026-09-08", AllDay: true}}
		ws, err := dayWindows(rule, "2026-09-07", offs)
		require.NoError(t, err)
		require.Len(t, ws, 1)
	})
}

func TestWalkWindow(t *testing.T) {
	t.Run("regular stepping", func(t *testing.T) {
		slots := walkWindow(window{start: 540, end: 660}, 60, 30)
		starts := slotStarts(slots)
		assert.Equal(t, []int{540, 570, 600}, starts)
	})

	t.Run("exact-fit final slot is kept", func(t *testing.T) {
		slots := walkWindow(window{start: 540, end: 630}, 90, 30)
		starts := slotStarts(slots)
		assert.Equal(t, []int{540}, starts)
	})

	t.Run("window too small yields nothing", func(t *testing.T) {
		assert.Empty(t, walkWindow(window{start: 540, end: 580}, 60, 30))
	})
}

func slotStarts(slots []models.TimeSlot) []int {
	out := make([]int, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}
