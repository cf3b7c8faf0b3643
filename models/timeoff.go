package models

import (
	"fmt"
	"time"
)

// TimeOff is a provider-declared exclusion from normal availability.
// AllDay entries block every covered day entirely; otherwise StartTime/EndTime
// carry the blocked sub-range within each covered day.
type TimeOff struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"providerId"`
	StartDate  string    `bson:"start_date" json:"startDate"` // "2006-01-02"
	EndDate    string    `bson:"end_date" json:"endDate"`     // inclusive
	AllDay     bool      `bson:"all_day" json:"allDay"`
	StartTime  string    `bson:"start_time,omitempty" json:"startTime,omitempty"` // "HH:MM", partial blocks only
	EndTime    string    `bson:"end_time,omitempty" json:"endTime,omitempty"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Covers reports whether the given date falls inside the entry's date range.
func (t *TimeOff) Covers(date string) bool {
	return t.StartDate <= date && date <= t.EndDate
}

// Validate checks the date range and, for partial entries, the sub-range.
func (t *TimeOff) Validate() error {
	if t.ProviderID == "" {
		return fmt.Errorf("time off missing provider id")
	}
	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", t.StartDate, err)
	}
	end, err := time.Parse(DateLayout, t.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", t.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("time off ends before it starts")
	}
	if t.AllDay {
		return nil
	}
	s, err := MinuteOfDay(t.StartTime)
	if err != nil {
		return err
	}
	e, err := MinuteOfDay(t.EndTime)
	if err != nil {
		return err
	}
	if s >= e {
		return fmt.Errorf("time off sub-range start %s is not before end %s", t.StartTime, t.EndTime)
	}
	return nil
}
