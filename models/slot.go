package models

// TimeSlot is one bookable start/end pair offered to a client, in the
// provider's local wall clock. Slots are computed fresh per query and never
// persisted or reserved.
type TimeSlot struct {
	Start     int    `json:"-"`
	End       int    `json:"-"`
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`
}

// NewTimeSlot builds a slot from minute-of-day bounds.
func NewTimeSlot(start, end int) TimeSlot {
	return TimeSlot{
		Start:     start,
		End:       end,
		StartTime: FormatMinute(start),
		EndTime:   FormatMinute(end),
	}
}
