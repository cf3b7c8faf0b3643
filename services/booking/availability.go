package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	providerRepo "glowbook/database/repository/provider"
	scheduleRepo "glowbook/database/repository/schedule"
	timeoffRepo "glowbook/database/repository/timeoff"
	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityEngine computes bookable slots for a provider/service/date.
// It is read-only and stateless between calls: every query recomputes from
// the schedule, the time-off registry and the day's bookings. The redis cache
// is a short-TTL accelerator invalidated on any booking mutation.
type AvailabilityEngine struct {
	Providers providerRepo.ProviderRepository
	Schedules scheduleRepo.ScheduleRepository
	TimeOff   timeoffRepo.TimeOffRepository
	Bookings  bookingRepo.BookingRepository

	Cache    *redis.Client // nil disables caching
	CacheTTL time.Duration

	Clock utils.Clock

	// DefaultStepMinutes is the slot granularity used when a schedule does
	// not set its own.
	DefaultStepMinutes int
}

// GetAvailableSlots returns the ordered bookable start times for the given
// provider, service and date ("2006-01-02"), in the provider's local
// timezone. An empty result is a normal outcome, never an error.
func (e *AvailabilityEngine) GetAvailableSlots(ctx context.Context, providerID, serviceID, date string) ([]models.TimeSlot, error) {
	if cached, ok := e.cacheGet(ctx, providerID, serviceID, date); ok {
		return cached, nil
	}

	slots, err := e.computeSlots(ctx, providerID, serviceID, date, "")
	if err != nil {
		return nil, err
	}

	e.cacheSet(ctx, providerID, serviceID, date, slots)
	return slots, nil
}

// HasSlot re-checks that a concrete start time is still in the current slot
// set. Lifecycle transitions call this immediately before committing, since
// slots are computed on read and never reserved. Always bypasses the cache.
// excludeBookingID drops one booking from the busy set; a reschedule passes
// the booking being moved so its old interval does not block the new one.
func (e *AvailabilityEngine) HasSlot(ctx context.Context, providerID, serviceID, date string, startMinute int, excludeBookingID string) (bool, error) {
	slots, err := e.computeSlots(ctx, providerID, serviceID, date, excludeBookingID)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.Start == startMinute {
			return true, nil
		}
	}
	return false, nil
}

// InvalidateProvider drops every cached slot list for the provider by
// bumping its cache generation.
func (e *AvailabilityEngine) InvalidateProvider(ctx context.Context, providerID string) {
	if e.Cache == nil {
		return
	}
	if err := e.Cache.Incr(ctx, availGenKey(providerID)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed",
			zap.String("providerID", providerID), zap.Error(err))
	}
}

func (e *AvailabilityEngine) computeSlots(ctx context.Context, providerID, serviceID, date, excludeBookingID string) ([]models.TimeSlot, error) {
	provider, err := e.Providers.GetByID(ctx, providerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFound("provider", providerID)
	}
	if err != nil {
		return nil, err
	}

	svc, ok := provider.ServiceByID(serviceID)
	if !ok {
		return nil, NewNotFound("service", serviceID)
	}
	if svc.DurationMinutes <= 0 {
		// Guarded at the service-definition boundary; a zero-duration
		// service should never reach here.
		return nil, NewInvalidInput(fmt.Sprintf("service %s has non-positive duration", serviceID))
	}

	schedule, err := e.Schedules.GetByProvider(ctx, providerID)
	if errors.Is(err, repository.ErrNotFound) {
		// No schedule configured means nothing is bookable yet.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	loc, err := schedule.Location()
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return nil, NewInvalidInput(fmt.Sprintf("invalid date %q", date))
	}

	now := e.Clock.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	// Booking horizon: [today, today+advance], with the same-day toggle.
	if day.Before(today) || day.After(today.AddDate(0, 0, schedule.AdvanceBookingDays)) {
		return nil, nil
	}
	if day.Equal(today) && !schedule.SameDayBooking {
		return nil, nil
	}

	rule := schedule.DayRuleFor(day.Weekday())
	if rule == nil || !rule.Available {
		return nil, nil
	}

	offs, err := e.TimeOff.ListCovering(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	windows, err := dayWindows(rule, date, offs)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	existing, err := e.Bookings.ListActiveForDay(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	// Carve each booking's buffer-expanded interval out of the open windows.
	// Splitting (rather than filtering grid candidates) re-anchors the walk
	// at the buffered end of a booking, so the first slot after a 10:00-11:00
	// booking with a 15-minute buffer starts at 11:15.
	for i := range existing {
		if excludeBookingID != "" && existing[i].ID == excludeBookingID {
			continue
		}
		windows = subtractRange(windows,
			existing[i].Start-schedule.BufferMinutes, existing[i].End+schedule.BufferMinutes)
	}

	step := schedule.SlotIntervalMinutes
	if step <= 0 {
		step = e.DefaultStepMinutes
	}

	notice := time.Duration(schedule.MinimumNoticeHours) * time.Hour
	earliest := now.Add(notice)

	var slots []models.TimeSlot
	for _, w := range windows {
		for _, cand := range walkWindow(w, svc.DurationMinutes, step) {
			candStart := day.Add(time.Duration(cand.Start) * time.Minute)
			if candStart.Before(earliest) {
				continue
			}
			slots = append(slots, cand)
		}
	}
	return slots, nil
}

func availGenKey(providerID string) string {
	return "avail:gen:" + providerID
}

func (e *AvailabilityEngine) cacheKey(ctx context.Context, providerID, serviceID, date string) string {
	gen, err := e.Cache.Get(ctx, availGenKey(providerID)).Int64()
	if err != nil && err != redis.Nil {
		gen = 0
	}
	return fmt.Sprintf("avail:%s:%d:%s:%s", providerID, gen, serviceID, date)
}

func (e *AvailabilityEngine) cacheGet(ctx context.Context, providerID, serviceID, date string) ([]models.TimeSlot, bool) {
	if e.Cache == nil {
		return nil, false
	}
	raw, err := e.Cache.Get(ctx, e.cacheKey(ctx, providerID, serviceID, date)).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	for i := range slots {
		// Internal minute bounds are not serialized; rebuild them.
		start, err := models.MinuteOfDay(slots[i].StartTime)
		if err != nil {
			return nil, false
		}
		end, err := models.MinuteOfDay(slots[i].EndTime)
		if err != nil {
			return nil, false
		}
		slots[i].Start, slots[i].End = start, end
	}
	return slots, true
}

func (e *AvailabilityEngine) cacheSet(ctx context.Context, providerID, serviceID, date string, slots []models.TimeSlot) {
	if e.Cache == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	ttl := e.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := e.Cache.Set(ctx, e.cacheKey(ctx, providerID, serviceID, date), raw, ttl).Err(); err != nil {
		utils.GetLogger().Warn("availability cache write failed",
			zap.String("providerID", providerID), zap.Error(err))
	}
}
