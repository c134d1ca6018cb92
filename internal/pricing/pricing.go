// Package pricing implements the session pricing model: a pure function from
// a calculator configuration to a price breakdown.
package pricing

import "github.com/stratsession/stratsession-api/internal/models"

// Version identifies the pricing formula in use. v2 dropped the per-region
// multiplier; geography on a configuration is a display tag only.
const Version = "v2"

// Base package tiers by participant count. Step function, closed on the
// upper end of each bracket, no interpolation.
const (
	tierSmallMax  = 7
	tierMediumMax = 10

	tierSmallPrice  = 2500
	tierMediumPrice = 3200
	tierLargePrice  = 4000
)

// OfflineSurcharge is the flat amount added to base for offline sessions.
const OfflineSurcharge = 800

// Fixed unit prices for each add-on.
var addOnPrices = map[models.AddOnKey]int{
	models.AddOnExtraInterviews:        400,
	models.AddOnAdditionalFacilitation: 600,
	models.AddOnFollowUpCalls:          350,
	models.AddOnDeepDocumentation:      500,
}

// AddOnPrice returns the unit price of an add-on, or 0 for an unknown key.
func AddOnPrice(key models.AddOnKey) int {
	return addOnPrices[key]
}

// ComputePrice maps a configuration to its price breakdown. Pure and
// deterministic: the same config always yields the same breakdown.
//
// Out-of-range participant counts do not occur through the API (binding
// restricts the domain) but the tier rules extend naturally, so the model
// never fails on them.
func ComputePrice(cfg models.CalculatorConfig) models.PriceBreakdown {
	base := tierLargePrice
	switch {
	case cfg.Participants <= tierSmallMax:
		base = tierSmallPrice
	case cfg.Participants <= tierMediumMax:
		base = tierMediumPrice
	}

	if cfg.Format == models.FormatOffline {
		base += OfflineSurcharge
	}

	addOnsTotal := 0
	for key, selected := range cfg.AddOns {
		if selected {
			addOnsTotal += addOnPrices[key]
		}
	}

	return models.PriceBreakdown{
		Base:        base,
		AddOnsTotal: addOnsTotal,
		Total:       base + addOnsTotal,
	}
}
