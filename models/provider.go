package models

import (
	"fmt"
	"time"
)

// Party identifies which side of a booking is acting.
type Party string

const (
	PartyClient   Party = "client"
	PartyProvider Party = "provider"
)

// Valid reports whether the party is one of the two known sides.
func (p Party) Valid() bool {
	return p == PartyClient || p == PartyProvider
}

// Other returns the opposite party.
func (p Party) Other() Party {
	if p == PartyClient {
		return PartyProvider
	}
	return PartyClient
}

// Service is one bookable offering in a provider's catalogue.
type Service struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"duration_minutes" json:"durationMinutes"`
	Price           int64  `bson:"price" json:"price"` // minor units
	DepositPercent  int    `bson:"deposit_percent" json:"depositPercent"`
	Active          bool   `bson:"active" json:"active"`
}

// PolicyConfig is the provider-owned cancellation/no-show/reschedule ruleset.
// It is read-only input to the policy engine; only the settings update path
// mutates it, never the booking flow.
type PolicyConfig struct {
	CancellationWindowHours    int  `bson:"cancellation_window_hours" json:"cancellationWindowHours"`
	CancellationFeePercent     int  `bson:"cancellation_fee_percent" json:"cancellationFeePercent"`
	LateGracePeriodMinutes     int  `bson:"late_grace_period_minutes" json:"lateGracePeriodMinutes"`
	LateCancellationAfterMin   int  `bson:"late_cancellation_after_min" json:"lateCancellationAfterMin"`
	NoShowFeePercent           int  `bson:"no_show_fee_percent" json:"noShowFeePercent"`
	RescheduleAllowed          bool `bson:"reschedule_allowed" json:"rescheduleAllowed"`
	RescheduleWindowHours      int  `bson:"reschedule_window_hours" json:"rescheduleWindowHours"`
	MaxReschedules             int  `bson:"max_reschedules" json:"maxReschedules"`
}

// Validate rejects percentages outside [0,100] and negative windows.
func (p *PolicyConfig) Validate() error {
	pcts := map[string]int{
		"cancellationFeePercent": p.CancellationFeePercent,
		"noShowFeePercent":       p.NoShowFeePercent,
	}
	for name, v := range pcts {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be within [0,100], got %d", name, v)
		}
	}
	if p.CancellationWindowHours < 0 || p.RescheduleWindowHours < 0 {
		return fmt.Errorf("policy windows must be non-negative")
	}
	if p.LateGracePeriodMinutes < 0 || p.LateCancellationAfterMin < 0 {
		return fmt.Errorf("late periods must be non-negative")
	}
	if p.MaxReschedules < 0 {
		return fmt.Errorf("maxReschedules must be non-negative")
	}
	return nil
}

// Provider is the provider profile as seen by the booking engine.
type Provider struct {
	ID             string       `bson:"id" json:"id"`
	Name           string       `bson:"name" json:"name"`
	Currency       string       `bson:"currency" json:"currency"`
	InstantBooking bool         `bson:"instant_booking" json:"instantBooking"` // bookings confirm without provider action
	Services       []Service    `bson:"services" json:"services"`
	Policy         PolicyConfig `bson:"policy" json:"policy"`
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updatedAt"`
}

// ServiceByID returns the active catalogue entry with the given id.
func (p *Provider) ServiceByID(id string) (*Service, bool) {
	for i := range p.Services {
		if p.Services[i].ID == id && p.Services[i].Active {
			return &p.Services[i], true
		}
	}
	return nil, false
}
