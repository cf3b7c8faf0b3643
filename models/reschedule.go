package models

import "time"

// RescheduleStatus is the state of a negotiated reschedule request.
type RescheduleStatus string

const (
	ReschedulePending  RescheduleStatus = "pending"
	RescheduleApproved RescheduleStatus = "approved"
	RescheduleDenied   RescheduleStatus = "denied"
	// RescheduleArchived marks requests whose booking was cancelled while
	// the request was still pending.
	RescheduleArchived RescheduleStatus = "archived"
)

// RescheduleRequest is one party's proposal to move a booking, awaiting the
// other party's response. At most one pending request exists per booking.
type RescheduleRequest struct {
	ID             string           `bson:"id" json:"id"`
	BookingID      string           `bson:"booking_id" json:"bookingId"`
	RequestedBy    Party            `bson:"requested_by" json:"requestedBy"`
	NewDate        string           `bson:"new_date" json:"newDate"` // "2006-01-02"
	NewTime        string           `bson:"new_time" json:"newTime"` // "HH:MM"
	Reason         string           `bson:"reason,omitempty" json:"reason,omitempty"`
	Status         RescheduleStatus `bson:"status" json:"status"`
	ResponseReason string           `bson:"response_reason,omitempty" json:"responseReason,omitempty"`
	RequestedAt    time.Time        `bson:"requested_at" json:"requestedAt"`
	RespondedAt    *time.Time       `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
}
