package models

import "time"

// InstructionKind says what the external payment collaborator should do.
type InstructionKind string

const (
	InstructionChargeDeposit InstructionKind = "charge_deposit"
	InstructionChargeBalance InstructionKind = "charge_balance"
	InstructionRefund        InstructionKind = "refund"
)

// InstructionStatus tracks delivery of an instruction to the payment provider.
type InstructionStatus string

const (
	InstructionPending InstructionStatus = "pending"
	InstructionSettled InstructionStatus = "settled"
	InstructionFailed  InstructionStatus = "failed"
)

// PaymentInstruction is a durable record of a charge/refund decision made by
// the booking engine. The engine writes it and moves on; a background worker
// delivers it to the payment provider and retries on failure. Settlement is
// eventually consistent with the booking's logical state.
type PaymentInstruction struct {
	ID         string            `bson:"id" json:"id"`
	BookingID  string            `bson:"booking_id" json:"bookingId"`
	Kind       InstructionKind   `bson:"kind" json:"kind"`
	Amount     int64             `bson:"amount" json:"amount"` // minor units
	Currency   string            `bson:"currency" json:"currency"`
	PayerID    string            `bson:"payer_id,omitempty" json:"payerId,omitempty"`
	PaymentRef string            `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"` // provider reference for refunds
	Status     InstructionStatus `bson:"status" json:"status"`
	Attempts   int               `bson:"attempts" json:"attempts"`
	LastError  string            `bson:"last_error,omitempty" json:"lastError,omitempty"`
	CreatedAt  time.Time         `bson:"created_at" json:"createdAt"`
	SettledAt  *time.Time        `bson:"settled_at,omitempty" json:"settledAt,omitempty"`
}

// CalendarEventType enumerates booking changes pushed to external calendars.
type CalendarEventType string

const (
	CalendarBookingCreated     CalendarEventType = "booking_created"
	CalendarBookingCancelled   CalendarEventType = "booking_cancelled"
	CalendarBookingRescheduled CalendarEventType = "booking_rescheduled"
)

// CalendarEvent is the fire-and-forget notification sent to the calendar sync
// collaborator. The engine never learns whether sync succeeded.
type CalendarEvent struct {
	Type       CalendarEventType `json:"type"`
	BookingID  string            `json:"bookingId"`
	ProviderID string            `json:"providerId"`
	ClientID   string            `json:"clientId"`
	Date       string            `json:"date"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	EmittedAt  time.Time         `json:"emittedAt"`
}
