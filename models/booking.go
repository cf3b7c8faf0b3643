package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// Terminal reports whether no further transition may leave this status.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCancelled, BookingCompleted, BookingNoShow:
		return true
	}
	return false
}

// PaymentStatus tracks how much of the service price has been collected.
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "PENDING"
	PaymentDepositPaid PaymentStatus = "DEPOSIT_PAID"
	PaymentFullyPaid   PaymentStatus = "FULLY_PAID"
	PaymentRefunded    PaymentStatus = "REFUNDED"
)

// Booking is a client's appointment with a provider for one service.
// Times are provider-local wall clock: Date is "2006-01-02", Start/End are
// minutes from midnight. Monetary amounts are in the currency's minor unit.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	ProviderID      string        `bson:"provider_id" json:"providerId"`
	ClientID        string        `bson:"client_id" json:"clientId"`
	ServiceID       string        `bson:"service_id" json:"serviceId"`
	Date            string        `bson:"date" json:"date"`
	Start           int           `bson:"start" json:"start"`
	End             int           `bson:"end" json:"end"`
	DurationMinutes int           `bson:"duration_minutes" json:"durationMinutes"`
	Status          BookingStatus `bson:"status" json:"status"`
	ServicePrice    int64         `bson:"service_price" json:"servicePrice"`
	DepositAmount   int64         `bson:"deposit_amount" json:"depositAmount"`
	BalancePaid     int64         `bson:"balance_paid" json:"balancePaid"`
	ServiceFee      int64         `bson:"service_fee" json:"serviceFee"`
	Currency        string        `bson:"currency" json:"currency"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	PaymentProvider string        `bson:"payment_provider,omitempty" json:"paymentProvider,omitempty"`
	PaymentRef      string        `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"`
	RescheduleCount int           `bson:"reschedule_count" json:"rescheduleCount"`
	CancelReason    string        `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
	CancelledBy     Party         `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Time renders the appointment start as "HH:MM".
func (b *Booking) Time() string {
	return FormatMinute(b.Start)
}

// StartsAt resolves the appointment start instant in the given location.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, b.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(b.Start) * time.Minute), nil
}

// EndsAt resolves the appointment end instant in the given location.
func (b *Booking) EndsAt(loc *time.Location) (time.Time, error) {
	start, err := b.StartsAt(loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(b.DurationMinutes) * time.Minute), nil
}
