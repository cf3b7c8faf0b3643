package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	providerRepo "glowbook/database/repository/provider"
	rescheduleRepo "glowbook/database/repository/reschedule"
	scheduleRepo "glowbook/database/repository/schedule"
	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLifecycleService implements LifecycleService.
//
// Transitions are applied with compare-and-swap writes at the repository so
// two racing actors resolve deterministically: one wins, the other gets
// InvalidTransition or SlotUnavailable. Payment instructions are emitted
// after the state write commits; emission failure is logged and left to the
// reconciliation worker, never unwound into the transition.
type DefaultLifecycleService struct {
	Bookings    bookingRepo.BookingRepository
	Providers   providerRepo.ProviderRepository
	Schedules   scheduleRepo.ScheduleRepository
	Reschedules rescheduleRepo.RescheduleRepository

	Availability *AvailabilityEngine
	Payments     PaymentEmitter
	Calendar     CalendarEmitter
	Clock        utils.Clock

	// PlatformFeePercent is the marketplace's cut of the service price,
	// recorded on the booking at creation.
	PlatformFeePercent int
}

var bookableStates = []models.BookingStatus{models.BookingPending, models.BookingConfirmed}

func (s *DefaultLifecycleService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	logger := utils.GetLogger()

	if in.ProviderID == "" || in.ClientID == "" || in.ServiceID == "" {
		return nil, NewInvalidInput("providerId, clientId and serviceId are required")
	}
	startMinute, err := models.MinuteOfDay(in.Time)
	if err != nil {
		return nil, NewInvalidInput("time must be HH:MM")
	}
	if _, err := time.Parse(models.DateLayout, in.Date); err != nil {
		return nil, NewInvalidInput("date must be YYYY-MM-DD")
	}

	provider, err := s.Providers.GetByID(ctx, in.ProviderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFound("provider", in.ProviderID)
	}
	if err != nil {
		return nil, err
	}
	svc, ok := provider.ServiceByID(in.ServiceID)
	if !ok {
		return nil, NewNotFound("service", in.ServiceID)
	}
	schedule, err := s.Schedules.GetByProvider(ctx, in.ProviderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewSlotUnavailable(in.Date, in.Time)
	}
	if err != nil {
		return nil, err
	}

	// Slots are computed on read, not reserved: re-check the requested slot
	// is still in the current result set before committing.
	ok, err = s.Availability.HasSlot(ctx, in.ProviderID, in.ServiceID, in.Date, startMinute, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewSlotUnavailable(in.Date, in.Time)
	}

	status := models.BookingPending
	if provider.InstantBooking {
		status = models.BookingConfirmed
	}

	now := s.Clock.Now().UTC()
	b := &models.Booking{
		ID:              uuid.New().String(),
		ProviderID:      in.ProviderID,
		ClientID:        in.ClientID,
		ServiceID:       in.ServiceID,
		Date:            in.Date,
		Start:           startMinute,
		End:             startMinute + svc.DurationMinutes,
		DurationMinutes: svc.DurationMinutes,
		Status:          status,
		ServicePrice:    svc.Price,
		DepositAmount:   DepositFor(svc),
		ServiceFee:      percentOf(svc.Price, s.PlatformFeePercent),
		Currency:        provider.Currency,
		PaymentStatus:   models.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Bookings.InsertIfFree(ctx, b, schedule.BufferMinutes); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Another booking claimed an overlapping interval between the
			// availability read and this insert.
			return nil, NewSlotUnavailable(in.Date, in.Time)
		}
		return nil, err
	}

	logger.Info("booking created",
		zap.String("bookingID", b.ID),
		zap.String("providerID", b.ProviderID),
		zap.String("date", b.Date),
		zap.Int("start", b.Start),
		zap.String("status", string(b.Status)))

	s.emitPayment(ctx, b, models.InstructionChargeDeposit, b.DepositAmount)
	s.emitCalendar(ctx, models.CalendarBookingCreated, b)
	s.Availability.InvalidateProvider(ctx, b.ProviderID)

	return b, nil
}

func (s *DefaultLifecycleService) Confirm(ctx context.Context, bookingID string) (*models.Booking, error) {
	updated, err := s.Bookings.Transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingPending}, models.BookingConfirmed, bookingRepo.TransitionPatch{})
	if err != nil {
		return nil, s.mapTransitionErr(ctx, bookingID, "confirm", err)
	}

	utils.GetLogger().Info("booking confirmed", zap.String("bookingID", bookingID))
	return updated, nil
}

func (s *DefaultLifecycleService) Cancel(ctx context.Context, bookingID string, initiator models.Party, reason string) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !initiator.Valid() {
		return nil, NewInvalidInput("initiator must be client or provider")
	}

	b, provider, appointmentStart, err := s.loadWithTiming(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, NewInvalidTransition(b.Status, "cancel")
	}

	hoursUntil := HoursUntil(s.Clock.Now(), appointmentStart)
	quote := CancellationQuote(initiator, hoursUntil, provider.Policy, b.DepositAmount, b.BalancePaid)

	patch := bookingRepo.TransitionPatch{CancelReason: &reason, CancelledBy: &initiator}
	if quote.Refund > 0 {
		refunded := models.PaymentRefunded
		patch.PaymentStatus = &refunded
	}

	updated, err := s.Bookings.Transition(ctx, bookingID, bookableStates, models.BookingCancelled, patch)
	if err != nil {
		// A concurrent cancel that lost the race ends here: one winner, one
		// refund instruction.
		return nil, s.mapTransitionErr(ctx, bookingID, "cancel", err)
	}

	logger.Info("booking cancelled",
		zap.String("bookingID", bookingID),
		zap.String("initiator", string(initiator)),
		zap.Float64("hoursUntil", hoursUntil),
		zap.Int64("fee", quote.Fee),
		zap.Int64("refund", quote.Refund))

	if quote.Refund > 0 {
		s.emitPayment(ctx, updated, models.InstructionRefund, quote.Refund)
	}
	if err := s.Reschedules.ArchivePending(ctx, bookingID); err != nil {
		logger.Warn("archiving reschedule requests failed", zap.String("bookingID", bookingID), zap.Error(err))
	}
	s.emitCalendar(ctx, models.CalendarBookingCancelled, updated)
	s.Availability.InvalidateProvider(ctx, updated.ProviderID)

	return updated, nil
}

func (s *DefaultLifecycleService) Reschedule(ctx context.Context, bookingID, newDate, newTime string) (*models.Booking, error) {
	logger := utils.GetLogger()

	newStart, err := models.MinuteOfDay(newTime)
	if err != nil {
		return nil, NewInvalidInput("time must be HH:MM")
	}
	if _, err := time.Parse(models.DateLayout, newDate); err != nil {
		return nil, NewInvalidInput("date must be YYYY-MM-DD")
	}

	b, provider, appointmentStart, err := s.loadWithTiming(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, NewInvalidTransition(b.Status, "reschedule")
	}

	// The policy window is measured against the *current* appointment time.
	hoursUntil := HoursUntil(s.Clock.Now(), appointmentStart)
	if err := CheckReschedulePolicy(provider.Policy, hoursUntil, b.RescheduleCount); err != nil {
		return nil, err
	}

	// The booking being moved is not an obstacle to its own new slot.
	ok, err := s.Availability.HasSlot(ctx, b.ProviderID, b.ServiceID, newDate, newStart, b.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewSlotUnavailable(newDate, newTime)
	}

	schedule, err := s.Schedules.GetByProvider(ctx, b.ProviderID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Bookings.MoveIfFree(ctx, bookingID, newDate, newStart, newStart+b.DurationMinutes,
		schedule.BufferMinutes, bookableStates, b.RescheduleCount)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Either the interval was claimed or the booking changed
			// underneath us; tell them apart by the current state.
			fresh, getErr := s.Bookings.GetByID(ctx, bookingID)
			if getErr == nil && fresh.Status.Terminal() {
				return nil, NewInvalidTransition(fresh.Status, "reschedule")
			}
			return nil, NewSlotUnavailable(newDate, newTime)
		}
		return nil, err
	}

	logger.Info("booking rescheduled",
		zap.String("bookingID", bookingID),
		zap.String("newDate", newDate),
		zap.Int("newStart", newStart),
		zap.Int("rescheduleCount", updated.RescheduleCount))

	s.emitCalendar(ctx, models.CalendarBookingRescheduled, updated)
	s.Availability.InvalidateProvider(ctx, updated.ProviderID)

	return updated, nil
}

func (s *DefaultLifecycleService) MarkNoShow(ctx context.Context, bookingID string, reportedBy models.Party) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !reportedBy.Valid() {
		return nil, NewInvalidInput("reportedBy must be client or provider")
	}

	b, provider, appointmentStart, err := s.loadWithTiming(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingConfirmed {
		return nil, NewInvalidTransition(b.Status, "mark no-show")
	}

	now := s.Clock.Now()
	threshold := appointmentStart
	if reportedBy == models.PartyProvider {
		// The provider waits out the grace period before reporting a client
		// who hasn't appeared.
		threshold = threshold.Add(time.Duration(provider.Policy.LateGracePeriodMinutes) * time.Minute)
	}
	if now.Before(threshold) {
		return nil, NewInvalidInput("appointment has not started yet")
	}

	// The no-show party is the one who failed to appear, i.e. the party the
	// reporter is not.
	noShowParty := reportedBy.Other()
	quote := NoShowQuote(noShowParty, provider.Policy, b.DepositAmount, b.BalancePaid)

	patch := bookingRepo.TransitionPatch{}
	if quote.Refund > 0 {
		refunded := models.PaymentRefunded
		patch.PaymentStatus = &refunded
	}

	updated, err := s.Bookings.Transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingConfirmed}, models.BookingNoShow, patch)
	if err != nil {
		return nil, s.mapTransitionErr(ctx, bookingID, "mark no-show", err)
	}

	logger.Info("booking marked no-show",
		zap.String("bookingID", bookingID),
		zap.String("noShowParty", string(noShowParty)),
		zap.Int64("fee", quote.Fee),
		zap.Int64("refund", quote.Refund))

	if quote.Refund > 0 {
		s.emitPayment(ctx, updated, models.InstructionRefund, quote.Refund)
	}
	return updated, nil
}

func (s *DefaultLifecycleService) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	logger := utils.GetLogger()

	b, _, appointmentStart, err := s.loadWithTiming(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingConfirmed {
		return nil, NewInvalidTransition(b.Status, "complete")
	}

	appointmentEnd := appointmentStart.Add(time.Duration(b.DurationMinutes) * time.Minute)
	if s.Clock.Now().Before(appointmentEnd) {
		return nil, NewInvalidInput("appointment has not finished yet")
	}

	patch := bookingRepo.TransitionPatch{}
	balanceDue := b.ServicePrice - b.DepositAmount - b.BalancePaid
	if balanceDue > 0 {
		fullyPaid := models.PaymentFullyPaid
		patch.PaymentStatus = &fullyPaid
	}

	updated, err := s.Bookings.Transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingConfirmed}, models.BookingCompleted, patch)
	if err != nil {
		return nil, s.mapTransitionErr(ctx, bookingID, "complete", err)
	}

	logger.Info("booking completed", zap.String("bookingID", bookingID), zap.Int64("balanceDue", balanceDue))

	if balanceDue > 0 {
		s.emitPayment(ctx, updated, models.InstructionChargeBalance, balanceDue)
	}
	return updated, nil
}

// loadWithTiming fetches the booking, its provider and the appointment start
// instant in the provider's timezone. "Now" is read once per transition by
// the caller, never re-sampled mid-computation.
func (s *DefaultLifecycleService) loadWithTiming(ctx context.Context, bookingID string) (*models.Booking, *models.Provider, time.Time, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, time.Time{}, NewNotFound("booking", bookingID)
	}
	if err != nil {
		return nil, nil, time.Time{}, err
	}

	provider, err := s.Providers.GetByID(ctx, b.ProviderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, time.Time{}, NewNotFound("provider", b.ProviderID)
	}
	if err != nil {
		return nil, nil, time.Time{}, err
	}

	loc := time.UTC
	if schedule, err := s.Schedules.GetByProvider(ctx, b.ProviderID); err == nil {
		if l, lerr := schedule.Location(); lerr == nil {
			loc = l
		}
	}

	start, err := b.StartsAt(loc)
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	return b, provider, start, nil
}

func (s *DefaultLifecycleService) mapTransitionErr(ctx context.Context, bookingID, attempted string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NewNotFound("booking", bookingID)
	}
	if errors.Is(err, repository.ErrConflict) {
		if fresh, getErr := s.Bookings.GetByID(ctx, bookingID); getErr == nil {
			return NewInvalidTransition(fresh.Status, attempted)
		}
		return ErrInvalidTransition
	}
	return err
}

func (s *DefaultLifecycleService) emitPayment(ctx context.Context, b *models.Booking, kind models.InstructionKind, amount int64) {
	ins := &models.PaymentInstruction{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		Kind:       kind,
		Amount:     amount,
		Currency:   b.Currency,
		PayerID:    b.ClientID,
		PaymentRef: b.PaymentRef,
		Status:     models.InstructionPending,
		CreatedAt:  s.Clock.Now().UTC(),
	}
	if err := s.Payments.Emit(ctx, ins); err != nil {
		// The booking's logical state is the source of truth; settlement is
		// eventually consistent and swept by the reconciliation worker.
		utils.GetLogger().Error("payment instruction emission failed",
			zap.String("bookingID", b.ID), zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (s *DefaultLifecycleService) emitCalendar(ctx context.Context, evType models.CalendarEventType, b *models.Booking) {
	ev := models.CalendarEvent{
		Type:       evType,
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		ClientID:   b.ClientID,
		Date:       b.Date,
		Start:      b.Start,
		End:        b.End,
		EmittedAt:  s.Clock.Now().UTC(),
	}
	if err := s.Calendar.Emit(ctx, ev); err != nil {
		utils.GetLogger().Warn("calendar event emission failed",
			zap.String("bookingID", b.ID), zap.String("type", string(evType)), zap.Error(err))
	}
}
