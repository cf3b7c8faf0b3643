package booking

import "glowbook/models"

// window is a half-open [start, end) span of minutes within one day. All slot
// arithmetic happens on these; timezone conversion stays at the package
// boundary so daylight-saving shifts never leak into the walk.
type window struct {
	start int
	end   int
}

// subtractRange removes [blockStart, blockEnd) from every window, splitting
// windows the block lands inside. Windows stay ordered and non-overlapping.
func subtractRange(ws []window, blockStart, blockEnd int) []window {
	if blockEnd <= blockStart {
		return ws
	}
	out := make([]window, 0, len(ws)+1)
	for _, w := range ws {
		if blockEnd <= w.start || blockStart >= w.end {
			out = append(out, w)
			continue
		}
		if blockStart > w.start {
			out = append(out, window{start: w.start, end: blockStart})
		}
		if blockEnd < w.end {
			out = append(out, window{start: blockEnd, end: w.end})
		}
	}
	return out
}

// dayWindows intersects a day rule's open span with the time-off entries
// covering that date. A full-day entry empties the day; partial entries carve
// their sub-range out, possibly splitting the day into several open spans.
func dayWindows(rule *models.DayRule, date string, offs []models.TimeOff) ([]window, error) {
	open, err := models.MinuteOfDay(rule.StartTime)
	if err != nil {
		return nil, err
	}
	close, err := models.MinuteOfDay(rule.EndTime)
	if err != nil {
		return nil, err
	}

	ws := []window{{start: open, end: close}}
	for _, off := range offs {
		if !off.Covers(date) {
			continue
		}
		if off.AllDay {
			return nil, nil
		}
		bs, err := models.MinuteOfDay(off.StartTime)
		if err != nil {
			return nil, err
		}
		be, err := models.MinuteOfDay(off.EndTime)
		if err != nil {
			return nil, err
		}
		ws = subtractRange(ws, bs, be)
	}
	return ws, nil
}

// walkWindow emits candidate slots of the given duration inside one window at
// the given step. A final slot that fits exactly is kept even when the
// duration does not divide the window evenly.
func walkWindow(w window, durationMinutes, stepMinutes int) []models.TimeSlot {
	var slots []models.TimeSlot
	for cur := w.start; cur+durationMinutes <= w.end; cur += stepMinutes {
		slots = append(slots, models.NewTimeSlot(cur, cur+durationMinutes))
	}
	return slots
}
