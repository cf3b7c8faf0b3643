package booking

import (
	"context"
	"testing"
	"time"

	"glowbook/models"
	"glowbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleFixture struct {
	svc       *DefaultLifecycleService
	bookings  *fakeBookingRepo
	providers *fakeProviderRepo
	requests  *fakeRescheduleRepo
	payments  *recordingPayments
	calendar  *recordingCalendar
}

func newLifecycleFixture(t *testing.T, now time.Time, seed ...*models.Booking) *lifecycleFixture {
	t.Helper()

	f := &lifecycleFixture{
		bookings:  newFakeBookingRepo(seed...),
		providers: newFakeProviderRepo(testProvider()),
		requests:  newFakeRescheduleRepo(),
		payments:  &recordingPayments{},
		calendar:  &recordingCalendar{},
	}
	schedules := newFakeScheduleRepo(testSchedule())
	f.svc = &DefaultLifecycleService{
		Bookings:    f.bookings,
		Providers:   f.providers,
		Schedules:   schedules,
		Reschedules: f.requests,
		Availability: &AvailabilityEngine{
			Providers:          f.providers,
			Schedules:          schedules,
			TimeOff:            &fakeTimeOffRepo{},
			Bookings:           f.bookings,
			Clock:              utils.FixedClock{T: now},
			DefaultStepMinutes: 30,
		},
		Payments:           f.payments,
		Calendar:           f.calendar,
		Clock:              utils.FixedClock{T: now},
		PlatformFeePercent: 10,
	}
	return f
}

func confirmedBooking(id string, date string, start int) *models.Booking {
	return &models.Booking{
		ID:         id,
		ProviderID: testProviderID,
		ClientID:   testClientID,
		ServiceID:  testServiceID,
		Date:       date,
		Start:      start,
		End:        start + 30,
		DurationMinutes: 30,
		Status:          models.BookingConfirmed,
		ServicePrice:    4000,
		DepositAmount:   2000,
		Currency:        "usd",
		PaymentStatus:   models.PaymentDepositPaid,
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("pending when provider reviews requests", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow)

		b, err := f.svc.Create(ctx, CreateBookingInput{
			ProviderID: testProviderID, ClientID: testClientID,
			ServiceID: testServiceID, Date: testMonday, Time: "09:00",
		})
		require.NoError(t, err)

		assert.Equal(t, models.BookingPending, b.Status)
		assert.Equal(t, 540, b.Start)
		assert.Equal(t, 570, b.End)
		assert.Equal(t, int64(4000), b.ServicePrice)
		assert.Equal(t, int64(2000), b.DepositAmount)
		assert.Equal(t, int64(400), b.ServiceFee)
		assert.Equal(t, models.PaymentPending, b.PaymentStatus)

		deposits := f.payments.byKind(models.InstructionChargeDeposit)
		require.Len(t, deposits, 1)
		assert.Equal(t, int64(2000), deposits[0].Amount)
		assert.Equal(t, b.ID, deposits[0].BookingID)

		require.Len(t, f.calendar.events, 1)
		assert.Equal(t, models.CalendarBookingCreated, f.calendar.events[0].Type)
	})

	t.Run("instant booking confirms immediately", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow)
		p := testProvider()
		p.InstantBooking = true
		f.providers.providers[p.ID] = p

		b, err := f.svc.Create(ctx, CreateBookingInput{
			ProviderID: testProviderID, ClientID: testClientID,
			ServiceID: testServiceID, Date: testMonday, Time: "09:00",
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, b.Status)
	})

	t.Run("taken slot is rejected", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-taken", testMonday, 540))

		_, err := f.svc.Create(ctx, CreateBookingInput{
			ProviderID: testProviderID, ClientID: testClientID,
			ServiceID: testServiceID, Date: testMonday, Time: "09:00",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow)
		_, err := f.svc.Create(ctx, CreateBookingInput{
			ProviderID: testProviderID, ClientID: testClientID,
			ServiceID: "nope", Date: testMonday, Time: "09:00",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed time", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow)
		_, err := f.svc.Create(ctx, CreateBookingInput{
			ProviderID: testProviderID, ClientID: testClientID,
			ServiceID: testServiceID, Date: testMonday, Time: "9am",
		})
		var domainErr *Error
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, CodeInvalidInput, domainErr.Code)
	})
}

func TestConfirmBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("pending confirms", func(t *testing.T) {
		b := confirmedBooking("b-1", testMonday, 540)
		b.Status = models.BookingPending
		f := newLifecycleFixture(t, testNow, b)

		updated, err := f.svc.Confirm(ctx, "b-1")
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, updated.Status)
	})

	t.Run("double confirm fails with invalid transition", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", testMonday, 540))
		_, err := f.svc.Confirm(ctx, "b-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("client cancel outside window refunds everything", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", testMonday, 540))

		updated, err := f.svc.Cancel(ctx, "b-1", models.PartyClient, "changed plans")
		require.NoError(t, err)

		assert.Equal(t, models.BookingCancelled, updated.Status)
		assert.Equal(t, models.PaymentRefunded, updated.PaymentStatus)
		assert.Equal(t, models.PartyClient, updated.CancelledBy)
		assert.Equal(t, "changed plans", updated.CancelReason)

		refunds := f.payments.byKind(models.InstructionRefund)
		require.Len(t, refunds, 1)
		assert.Equal(t, int64(2000), refunds[0].Amount)
	})

	t.Run("client cancel inside window forfeits fee share", func(t *testing.T) {
		// Appointment is three hours away.
		near := testNow.Add(3 * time.Hour)
		date := near.Format(models.DateLayout)
		start := near.Hour()*60 + near.Minute()
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", date, start))

		updated, err := f.svc.Cancel(ctx, "b-1", models.PartyClient, "")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, updated.Status)

		refunds := f.payments.byKind(models.InstructionRefund)
		require.Len(t, refunds, 1)
		assert.Equal(t, int64(1000), refunds[0].Amount) // 50% of the deposit survives
	})

	t.Run("provider cancel always refunds in full", func(t *testing.T) {
		near := testNow.Add(1 * time.Hour)
		date := near.Format(models.DateLayout)
		start := near.Hour()*60 + near.Minute()
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", date, start))

		_, err := f.svc.Cancel(ctx, "b-1", models.PartyProvider, "sick")
		require.NoError(t, err)

		refunds := f.payments.byKind(models.InstructionRefund)
		require.Len(t, refunds, 1)
		assert.Equal(t, int64(2000), refunds[0].Amount)
	})

	t.Run("second cancel loses and emits nothing", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", testMonday, 540))

		_, err := f.svc.Cancel(ctx, "b-1", models.PartyClient, "")
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, "b-1", models.PartyClient, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// Exactly one refund instruction despite two attempts.
		assert.Len(t, f.payments.byKind(models.InstructionRefund), 1)
	})

	t.Run("cancel archives pending reschedule requests", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", testMonday, 540))
		require.NoError(t, f.requests.CreatePending(ctx, &models.RescheduleRequest{
			ID: "rr-1", BookingID: "b-1", RequestedBy: models.PartyClient,
			Status: models.ReschedulePending,
		}))

		_, err := f.svc.Cancel(ctx, "b-1", models.PartyClient, "")
		require.NoError(t, err)

		req, err := f.requests.GetByID(ctx, "rr-1")
		require.NoError(t, err)
		assert.Equal(t, models.RescheduleArchived, req.Status)
	})
}

func TestRescheduleBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to a free slot and bumps the count", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", testMonday, 540))

		updated, err := f.svc.Reschedule(ctx, "b-1", testMonday, "13:00")
		require.NoError(t, err)
		assert.Equal(t, 780, updated.Start)
		assert.Equal(t, 810, updated.End)
		assert.Equal(t, 1, updated.RescheduleCount)

		require.Len(t, f.calendar.events, 1)
		assert.Equal(t, models.CalendarBookingRescheduled, f.calendar.events[0].Type)
	})

	t.Run("can shift into its own buffered interval", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", testMonday, 540))

		// 09:30 overlaps b-1's buffer; only b-1's own interval is in the way.
		updated, err := f.svc.Reschedule(ctx, "b-1", testMonday, "09:30")
		require.NoError(t, err)
		assert.Equal(t, 570, updated.Start)
		assert.Equal(t, 600, updated.End)
	})

	t.Run("limit is enforced", func(t *testing.T) {
		b := confirmedBooking("b-1", testMonday, 540)
		b.RescheduleCount = 2
		f := newLifecycleFixture(t, testNow, b)

		_, err := f.svc.Reschedule(ctx, "b-1", testMonday, "13:00")
		assert.ErrorIs(t, err, ErrRescheduleLimitExceeded)
	})

	t.Run("too close to the current appointment", func(t *testing.T) {
		near := testNow.Add(2 * time.Hour)
		b := confirmedBooking("b-1", near.Format(models.DateLayout), near.Hour()*60+near.Minute())
		f := newLifecycleFixture(t, testNow, b)

		_, err := f.svc.Reschedule(ctx, "b-1", testMonday, "13:00")
		assert.ErrorIs(t, err, ErrOutsideRescheduleWindow)
	})

	t.Run("target slot taken", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow,
			confirmedBooking("b-1", testMonday, 540),
			confirmedBooking("b-2", testMonday, 780))

		_, err := f.svc.Reschedule(ctx, "b-1", testMonday, "13:00")
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("terminal booking cannot move", func(t *testing.T) {
		b := confirmedBooking("b-1", testMonday, 540)
		b.Status = models.BookingCancelled
		f := newLifecycleFixture(t, testNow, b)

		_, err := f.svc.Reschedule(ctx, "b-1", testMonday, "13:00")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestMarkNoShow(t *testing.T) {
	ctx := context.Background()
	// Appointment started 30 minutes ago.
	started := testNow.Add(-30 * time.Minute)
	date := started.Format(models.DateLayout)
	startMin := started.Hour()*60 + started.Minute()

	t.Run("provider reports client after grace period", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", date, startMin))

		updated, err := f.svc.MarkNoShow(ctx, "b-1", models.PartyProvider)
		require.NoError(t, err)
		assert.Equal(t, models.BookingNoShow, updated.Status)

		// NoShowFeePercent is 100: the whole deposit is forfeit, no refund.
		assert.Empty(t, f.payments.byKind(models.InstructionRefund))
	})

	t.Run("provider must wait out the grace period", func(t *testing.T) {
		justStarted := testNow.Add(-10 * time.Minute)
		b := confirmedBooking("b-1", justStarted.Format(models.DateLayout), justStarted.Hour()*60+justStarted.Minute())
		f := newLifecycleFixture(t, testNow, b)

		_, err := f.svc.MarkNoShow(ctx, "b-1", models.PartyProvider)
		var domainErr *Error
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, CodeInvalidInput, domainErr.Code)
	})

	t.Run("client reports provider no-show and is made whole", func(t *testing.T) {
		b := confirmedBooking("b-1", date, startMin)
		b.BalancePaid = 1500
		f := newLifecycleFixture(t, testNow, b)

		updated, err := f.svc.MarkNoShow(ctx, "b-1", models.PartyClient)
		require.NoError(t, err)
		assert.Equal(t, models.BookingNoShow, updated.Status)
		assert.Equal(t, models.PaymentRefunded, updated.PaymentStatus)

		refunds := f.payments.byKind(models.InstructionRefund)
		require.Len(t, refunds, 1)
		assert.Equal(t, int64(3500), refunds[0].Amount)
	})

	t.Run("pending booking cannot be a no-show", func(t *testing.T) {
		b := confirmedBooking("b-1", date, startMin)
		b.Status = models.BookingPending
		f := newLifecycleFixture(t, testNow, b)

		_, err := f.svc.MarkNoShow(ctx, "b-1", models.PartyProvider)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestCompleteBooking(t *testing.T) {
	ctx := context.Background()
	finished := testNow.Add(-2 * time.Hour)
	date := finished.Format(models.DateLayout)
	startMin := finished.Hour()*60 + finished.Minute()

	t.Run("completion charges the remaining balance", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", date, startMin))

		updated, err := f.svc.Complete(ctx, "b-1")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCompleted, updated.Status)
		assert.Equal(t, models.PaymentFullyPaid, updated.PaymentStatus)

		charges := f.payments.byKind(models.InstructionChargeBalance)
		require.Len(t, charges, 1)
		assert.Equal(t, int64(2000), charges[0].Amount)
	})

	t.Run("nothing due emits no charge", func(t *testing.T) {
		b := confirmedBooking("b-1", date, startMin)
		b.BalancePaid = 2000
		f := newLifecycleFixture(t, testNow, b)

		_, err := f.svc.Complete(ctx, "b-1")
		require.NoError(t, err)
		assert.Empty(t, f.payments.byKind(models.InstructionChargeBalance))
	})

	t.Run("cannot complete before the appointment ends", func(t *testing.T) {
		f := newLifecycleFixture(t, testNow, confirmedBooking("b-1", testMonday, 540))

		_, err := f.svc.Complete(ctx, "b-1")
		var domainErr *Error
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, CodeInvalidInput, domainErr.Code)
	})
}
