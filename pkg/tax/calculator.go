// Package tax computes Kenyan import tax breakdowns for landed-cost
// estimates shown alongside procurement recommendations.
package tax

import "math"

// Config holds the statutory rates. Defaults match the current KRA
// schedule for consumer imports.
type Config struct {
	VATRate               float64
	ImportDutyElectronics float64
	ImportDutyGeneral     float64
	RailwayLevy           float64
	IDFFee                float64
}

func DefaultConfig() Config {
	return Config{
		VATRate:               0.16,
		ImportDutyElectronics: 0.25,
		ImportDutyGeneral:     0.35,
		RailwayLevy:           0.015,
		IDFFee:                0.035,
	}
}

// Breakdown is the itemised result of one landed-cost calculation.
type Breakdown struct {
	CIFValue        float64
	ImportDuty      float64
	RailwayLevy     float64
	IDFFee          float64
	VAT             float64
	TotalTax        float64
	TotalLandedCost float64
}

type Calculator struct {
	config Config
}

func NewCalculator(config Config) *Calculator {
	return &Calculator{config: config}
}

// CalculateImport computes duties on a CIF value. Electronics carry a
// lower duty band than general goods; VAT applies on top of all other
// levies.
func (c *Calculator) CalculateImport(cifValue float64, electronic bool) Breakdown {
	dutyRate := c.config.ImportDutyGeneral
	if electronic {
		dutyRate = c.config.ImportDutyElectronics
	}

	importDuty := cifValue * dutyRate
	railwayLevy := cifValue * c.config.RailwayLevy
	idfFee := cifValue * c.config.IDFFee

	vatBase := cifValue + importDuty + railwayLevy + idfFee
	vat := vatBase * c.config.VATRate

	totalTax := importDuty + railwayLevy + idfFee + vat

	return Breakdown{
		CIFValue:        round2(cifValue),
		ImportDuty:      round2(importDuty),
		RailwayLevy:     round2(railwayLevy),
		IDFFee:          round2(idfFee),
		VAT:             round2(vat),
		TotalTax:        round2(totalTax),
		TotalLandedCost: round2(cifValue + totalTax),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
