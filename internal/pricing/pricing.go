// Package pricing computes booking charges from hourly rates.
package pricing

import "github.com/shopspring/decimal"

// Amount returns hourlyRate multiplied by the duration in hours, rounded
// half-up to two decimal places (currency minor units). Durations may be
// fractional (e.g. 1.5h).
func Amount(hourlyRate decimal.Decimal, durationHours float64) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromFloat(durationHours)).Round(2)
}
