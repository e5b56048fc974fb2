package randompkg

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyAmountBetween(t *testing.T) {
	t.Parallel()

	min, max := decimal.NewFromInt(10), decimal.NewFromInt(100)

	for i := 0; i < 100; i++ {
		got := MoneyAmountBetween(10, 100)

		if got.LessThan(min) || got.GreaterThan(max) {
			t.Fatalf("MoneyAmountBetween(10, 100) = %v, want within [%v, %v]", got, min, max)
		}

		if !got.Equal(got.Round(2)) {
			t.Fatalf("MoneyAmountBetween(10, 100) = %v, want at most 2 decimal places", got)
		}
	}
}

func TestNumbers(t *testing.T) {
	t.Parallel()

	if got := AccountNumber(); len(got) != 20 {
		t.Errorf("len(AccountNumber()) = %d, want 20", len(got))
	}

	if got := CardNumber(); len(got) != 16 {
		t.Errorf("len(CardNumber()) = %d, want 16", len(got))
	}
}
