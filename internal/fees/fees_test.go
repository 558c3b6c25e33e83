package fees

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBrokerRatePct(t *testing.T) {
	tests := []struct {
		name  string
		gross string
		want  string
	}{
		{"lowest band", "100", "0.36"},
		{"upper edge of lowest band", "50000", "0.36"},
		{"just above lowest band", "50000.01", "0.33"},
		{"second band", "250000", "0.33"},
		{"upper edge of second band", "500000", "0.33"},
		{"third band", "1500000", "0.31"},
		{"fourth band", "5000000", "0.27"},
		{"upper edge of fourth band", "10000000", "0.27"},
		{"top band", "10000000.01", "0.24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BrokerRatePct(decimal.RequireFromString(tt.gross))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("BrokerRatePct(%s) = %s, want %s", tt.gross, got, tt.want)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	// Buy 100 units @ 200.00: gross = 20000.
	f := Calculate(decimal.NewFromInt(20000))

	if !f.SebonFee.Equal(decimal.RequireFromString("3.00")) {
		t.Errorf("SebonFee = %s, want 3.00", f.SebonFee)
	}
	if !f.DPCharge.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("DPCharge = %s, want 25.00", f.DPCharge)
	}
	if !f.BrokerCommission.Equal(decimal.RequireFromString("72.00")) {
		t.Errorf("BrokerCommission = %s, want 72.00", f.BrokerCommission)
	}
	if !f.Total().Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("Total = %s, want 100.00", f.Total())
	}
}

func TestCalculateExactDecimals(t *testing.T) {
	// Sell 50 units @ 250.00: gross = 12500. The SEBON fee lands on a
	// fraction binary floats cannot represent exactly.
	f := Calculate(decimal.NewFromInt(12500))

	if !f.SebonFee.Equal(decimal.RequireFromString("1.875")) {
		t.Errorf("SebonFee = %s, want 1.875", f.SebonFee)
	}
	if !f.BrokerCommission.Equal(decimal.RequireFromString("45.00")) {
		t.Errorf("BrokerCommission = %s, want 45.00", f.BrokerCommission)
	}
}

func TestCalculateZeroGross(t *testing.T) {
	f := Calculate(decimal.Zero)

	if !f.SebonFee.IsZero() {
		t.Errorf("SebonFee = %s, want 0", f.SebonFee)
	}
	if !f.BrokerCommission.IsZero() {
		t.Errorf("BrokerCommission = %s, want 0", f.BrokerCommission)
	}
	// The flat charge applies to any transaction, even a degenerate one.
	if !f.DPCharge.Equal(DPCharge) {
		t.Errorf("DPCharge = %s, want %s", f.DPCharge, DPCharge)
	}
}
