package booking

import (
	"time"

	"glowbook/models"
)

// The policy engine is pure: every function here is a function of its
// arguments only. Client-side penalties are computed against the deposit;
// provider-fault outcomes always refund everything collected. That asymmetry
// is a fixed platform rule, not a provider setting.

// Quote is the monetary outcome of a cancellation or no-show decision, in the
// currency's minor unit. Fee is retained by the platform/provider, Refund is
// returned to the client.
type Quote struct {
	Fee    int64 `json:"fee"`
	Refund int64 `json:"refund"`
}

// percentOf applies a whole percentage to a minor-unit amount, rounding
// half up.
func percentOf(amount int64, pct int) int64 {
	if amount <= 0 || pct <= 0 {
		return 0
	}
	return (amount*int64(pct) + 50) / 100
}

// HoursUntil returns the signed distance from now to the appointment start.
// Negative means the appointment has already begun.
func HoursUntil(now, appointment time.Time) float64 {
	return appointment.Sub(now).Hours()
}

// CancellationQuote prices a cancellation.
//
// Provider-initiated cancellations always refund everything collected. A
// client cancelling outside the cancellation window pays nothing; inside the
// window the configured percentage of the deposit is forfeited. A client
// cancelling later than lateCancellationAfterMinutes past the start forfeits
// the whole deposit. Any paid balance is always released: the service is not
// happening.
func CancellationQuote(initiator models.Party, hoursUntil float64, cfg models.PolicyConfig, deposit, balancePaid int64) Quote {
	if initiator == models.PartyProvider {
		return Quote{Fee: 0, Refund: deposit + balancePaid}
	}

	var fee int64
	switch {
	case hoursUntil >= float64(cfg.CancellationWindowHours):
		fee = 0
	case hoursUntil < -float64(cfg.LateCancellationAfterMin)/60.0:
		fee = deposit
	default:
		fee = percentOf(deposit, cfg.CancellationFeePercent)
	}
	return Quote{Fee: fee, Refund: deposit - fee + balancePaid}
}

// NoShowQuote prices a no-show, keyed on which party failed to appear.
//
// A client no-show forfeits the configured share of the deposit; any
// pre-authorized balance is released back. A provider no-show always refunds
// deposit plus paid balance in full, regardless of configuration.
func NoShowQuote(reported models.Party, cfg models.PolicyConfig, deposit, balancePaid int64) Quote {
	if reported == models.PartyProvider {
		return Quote{Fee: 0, Refund: deposit + balancePaid}
	}
	fee := percentOf(deposit, cfg.NoShowFeePercent)
	return Quote{Fee: fee, Refund: deposit - fee + balancePaid}
}

// CheckReschedulePolicy decides whether a reschedule may proceed right now.
// Returns nil when allowed, otherwise the typed reason.
func CheckReschedulePolicy(cfg models.PolicyConfig, hoursUntil float64, currentCount int) error {
	if !cfg.RescheduleAllowed {
		return &Error{Code: CodeOutsideRescheduleWindow, Message: "provider does not allow reschedules"}
	}
	if currentCount >= cfg.MaxReschedules {
		return ErrRescheduleLimitExceeded
	}
	if hoursUntil < float64(cfg.RescheduleWindowHours) {
		return ErrOutsideRescheduleWindow
	}
	return nil
}

// DepositFor computes a service's deposit from its configured percentage of
// the price, rounded half up, never exceeding the price itself.
func DepositFor(svc *models.Service) int64 {
	d := percentOf(svc.Price, svc.DepositPercent)
	if d > svc.Price {
		return svc.Price
	}
	return d
}
