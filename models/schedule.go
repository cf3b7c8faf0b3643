package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire/date-storage format used across the booking engine.
const DateLayout = "2006-01-02"

// TimeLayout is the wall-clock format used for schedule windows and bookings.
const TimeLayout = "15:04"

// DayRule is one weekday's open window inside a provider's weekly schedule.
type DayRule struct {
	DayOfWeek int    `bson:"day_of_week" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime string `bson:"start_time" json:"startTime"`  // "09:00"
	EndTime   string `bson:"end_time" json:"endTime"`      // "17:00"
	Available bool   `bson:"available" json:"available"`
}

// Schedule is a provider's recurring weekly availability plus booking-wide settings.
type Schedule struct {
	ProviderID          string    `bson:"provider_id" json:"providerId"`
	Days                []DayRule `bson:"days" json:"days"` // one rule per weekday, no duplicates
	Timezone            string    `bson:"timezone" json:"timezone"`
	AdvanceBookingDays  int       `bson:"advance_booking_days" json:"advanceBookingDays"`
	MinimumNoticeHours  int       `bson:"minimum_notice_hours" json:"minimumNoticeHours"`
	BufferMinutes       int       `bson:"buffer_minutes" json:"bufferMinutes"`
	SameDayBooking      bool      `bson:"same_day_booking" json:"sameDayBooking"`
	SlotIntervalMinutes int       `bson:"slot_interval_minutes" json:"slotIntervalMinutes"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updatedAt"`
}

// DayRuleFor returns the rule for the given weekday, or nil if none is set.
func (s *Schedule) DayRuleFor(day time.Weekday) *DayRule {
	for i := range s.Days {
		if s.Days[i].DayOfWeek == int(day) {
			return &s.Days[i]
		}
	}
	return nil
}

// Location resolves the schedule's IANA timezone.
func (s *Schedule) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// Validate checks the schedule holds at least one available day, well-formed
// windows and a resolvable timezone. A schedule failing this is never persisted.
func (s *Schedule) Validate() error {
	if s.ProviderID == "" {
		return fmt.Errorf("schedule missing provider id")
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	if s.AdvanceBookingDays < 0 || s.MinimumNoticeHours < 0 || s.BufferMinutes < 0 {
		return fmt.Errorf("schedule windows must be non-negative")
	}
	if s.SlotIntervalMinutes < 0 {
		return fmt.Errorf("slot interval must be non-negative")
	}

	seen := make(map[int]bool, len(s.Days))
	anyAvailable := false
	for _, d := range s.Days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return fmt.Errorf("day of week %d out of range", d.DayOfWeek)
		}
		if seen[d.DayOfWeek] {
			return fmt.Errorf("duplicate rule for weekday %d", d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true
		if !d.Available {
			continue
		}
		anyAvailable = true
		start, err := MinuteOfDay(d.StartTime)
		if err != nil {
			return err
		}
		end, err := MinuteOfDay(d.EndTime)
		if err != nil {
			return err
		}
		if start >= end {
			return fmt.Errorf("weekday %d: start %s is not before end %s", d.DayOfWeek, d.StartTime, d.EndTime)
		}
	}
	if !anyAvailable {
		return fmt.Errorf("schedule must have at least one available day")
	}
	return nil
}

// MinuteOfDay parses an "HH:MM" wall-clock string into minutes from midnight.
func MinuteOfDay(hhmm string) (int, error) {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinute renders minutes from midnight back into "HH:MM".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
