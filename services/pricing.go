package services

import (
	"github.com/shopspring/decimal"
)

// distanceRatePerKm is the linear surcharge applied per kilometer between the
// customer's address and the provider's default address.
var distanceRatePerKm = decimal.NewFromInt(2)

// EstimatePrice computes the estimated price for a job: base price plus a
// distance surcharge of 2.00 per km, rounded to 2 decimal places before
// adding. When the distance is unknown or not positive, no surcharge applies.
func EstimatePrice(priceBase decimal.Decimal, distanceKm *float64) decimal.Decimal {
	if distanceKm == nil || *distanceKm <= 0 {
		return priceBase.Round(2)
	}
	surcharge := decimal.NewFromFloat(*distanceKm).Mul(distanceRatePerKm).Round(2)
	return priceBase.Round(2).Add(surcharge)
}
