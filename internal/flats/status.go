package flats

import (
	"github.com/shopspring/decimal"

	"estates-backend/internal/models"
)

// soldThreshold is the fraction of the total amount that promotes a flat to sold.
var soldThreshold = decimal.NewFromFloat(0.5)

// DeriveStatus is the single status-derivation rule for every call site
// (attach invoice, swap invoice, add payment). An approved loan forces sold;
// otherwise the flat is sold once the advance reaches half the total, and
// booked below that. Callers validate totalAmount > 0 before deriving.
func DeriveStatus(totalAmount, advance float64, loanApproved bool) string {
	if loanApproved {
		return models.FlatStatusSold
	}
	if ReachedSoldThreshold(totalAmount, advance) {
		return models.FlatStatusSold
	}
	return models.FlatStatusBooked
}

// ReachedSoldThreshold reports whether paid covers at least half of total.
// Decimal arithmetic so float accumulation cannot flip the decision at the
// exact boundary.
func ReachedSoldThreshold(total, paid float64) bool {
	t := decimal.NewFromFloat(total)
	if !t.IsPositive() {
		return false
	}
	return decimal.NewFromFloat(paid).GreaterThanOrEqual(t.Mul(soldThreshold))
}
