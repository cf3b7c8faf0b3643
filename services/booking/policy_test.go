package booking

import (
	"testing"

	"glowbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() models.PolicyConfig {
	return models.PolicyConfig{
		CancellationWindowHours:  24,
		CancellationFeePercent:   50,
		LateGracePeriodMinutes:   15,
		LateCancellationAfterMin: 0,
		NoShowFeePercent:         100,
		RescheduleAllowed:        true,
		RescheduleWindowHours:    12,
		MaxReschedules:           2,
	}
}

func TestCancellationQuoteClient(t *testing.T) {
	cfg := testPolicy()
	deposit := int64(2000)

	tests := []struct {
		name       string
		hoursUntil float64
		balance    int64
		wantFee    int64
		wantRefund int64
	}{
		{"outside window is free", 48, 0, 0, 2000},
		{"exactly at window boundary is free", 24, 0, 0, 2000},
		{"inside window forfeits configured share", 3, 0, 1000, 1000},
		{"just before start still partial fee", 0.25, 0, 1000, 1000},
		{"after start forfeits whole deposit", -1, 0, 2000, 0},
		{"paid balance always released", 3, 3000, 1000, 4000},
		{"after start releases balance too", -2, 3000, 2000, 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := CancellationQuote(models.PartyClient, tt.hoursUntil, cfg, deposit, tt.balance)
			assert.Equal(t, tt.wantFee, q.Fee)
			assert.Equal(t, tt.wantRefund, q.Refund)
			// Money is conserved: fee plus refund covers everything collected.
			assert.Equal(t, deposit+tt.balance, q.Fee+q.Refund)
		})
	}
}

func TestCancellationQuoteProviderAlwaysFullRefund(t *testing.T) {
	cfg := testPolicy()
	for _, hours := range []float64{100, 24, 1, 0, -5} {
		q := CancellationQuote(models.PartyProvider, hours, cfg, 2000, 3000)
		assert.Zero(t, q.Fee, "hoursUntil=%v", hours)
		assert.Equal(t, int64(5000), q.Refund, "hoursUntil=%v", hours)
	}
}

func TestCancellationQuoteRefundMonotonicInTime(t *testing.T) {
	cfg := testPolicy()
	// Earlier cancellation never refunds less than a later one.
	prev := int64(-1)
	for _, hours := range []float64{-1, 0.5, 12, 24, 72} {
		q := CancellationQuote(models.PartyClient, hours, cfg, 2000, 0)
		require.GreaterOrEqual(t, q.Refund, prev, "hoursUntil=%v", hours)
		prev = q.Refund
	}
}

func TestNoShowQuote(t *testing.T) {
	cfg := testPolicy()

	t.Run("client no-show forfeits deposit share", func(t *testing.T) {
		q := NoShowQuote(models.PartyClient, cfg, 2000, 3000)
		assert.Equal(t, int64(2000), q.Fee)
		assert.Equal(t, int64(3000), q.Refund)
	})

	t.Run("partial no-show fee", func(t *testing.T) {
		cfg := cfg
		cfg.NoShowFeePercent = 25
		q := NoShowQuote(models.PartyClient, cfg, 2000, 0)
		assert.Equal(t, int64(500), q.Fee)
		assert.Equal(t, int64(1500), q.Refund)
	})

	t.Run("provider no-show refunds everything", func(t *testing.T) {
		q := NoShowQuote(models.PartyProvider, cfg, 2000, 3000)
		assert.Zero(t, q.Fee)
		assert.Equal(t, int64(5000), q.Refund)
	})
}

func TestPercentOfRoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(13), percentOf(125, 10))  // 12.5 rounds up
	assert.Equal(t, int64(12), percentOf(124, 10))  // 12.4 rounds down
	assert.Equal(t, int64(0), percentOf(0, 50))
	assert.Equal(t, int64(0), percentOf(1000, 0))
	assert.Equal(t, int64(1000), percentOf(1000, 100))
}

func TestDepositFor(t *testing.T) {
	assert.Equal(t, int64(1500), DepositFor(&models.Service{Price: 6000, DepositPercent: 25}))
	assert.Equal(t, int64(0), DepositFor(&models.Service{Price: 6000, DepositPercent: 0}))
	// Never exceeds the price.
	assert.Equal(t, int64(6000), DepositFor(&models.Service{Price: 6000, DepositPercent: 100}))
}

func TestCheckReschedulePolicy(t *testing.T) {
	cfg := testPolicy()

	t.Run("allowed inside limits", func(t *testing.T) {
		assert.NoError(t, CheckReschedulePolicy(cfg, 48, 0))
		assert.NoError(t, CheckReschedulePolicy(cfg, 12, 1))
	})

	t.Run("provider disallows reschedules", func(t *testing.T) {
		cfg := cfg
		cfg.RescheduleAllowed = false
		err := CheckReschedulePolicy(cfg, 48, 0)
		assert.ErrorIs(t, err, ErrOutsideRescheduleWindow)
	})

	t.Run("count at cap is rejected", func(t *testing.T) {
		err := CheckReschedulePolicy(cfg, 48, 2)
		assert.ErrorIs(t, err, ErrRescheduleLimitExceeded)
	})

	t.Run("too close to appointment", func(t *testing.T) {
		err := CheckReschedulePolicy(cfg, 11.5, 0)
		assert.ErrorIs(t, err, ErrOutsideRescheduleWindow)
	})
}
