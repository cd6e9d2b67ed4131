package feasibility

const (
	zoningUnknownCode        = "UNKNOWN"
	zoningUnknownDescription = "Zoning not yet integrated (v1)."
)

// Estimate runs the pricing pipeline for an already-resolved location. It is
// pure: the same request and location always produce the same report.
// The request is assumed to have passed Validate.
func Estimate(req EvaluationRequest, loc Location) *Report {
	opts := req.DevelopmentOptions
	baseline := BaselineFor(loc.State)

	pricing := PriceProperty(baseline, opts, req.Strategy)
	breakdown := BreakdownCosts(opts, pricing)
	terms := ResolveFinancing(req.Strategy, req.Financing)
	financing := ModelFinancing(terms, breakdown.TotalProjectCost, pricing.EstimatedSellPrice)
	analysis := AnalyzeFinancials(pricing.EstimatedSellPrice, financing)
	recommendations, risks := Advise(analysis, breakdown.IsFlip, terms, opts.FinishQuality)

	report := &Report{
		Address:          req.Address,
		FormattedAddress: loc.FormattedAddress,
		Coordinates:      Coordinates{Lat: loc.Lat, Lng: loc.Lng},
		Zoning: Zoning{
			Code:        zoningUnknownCode,
			Description: zoningUnknownDescription,
			AllowedUses: []string{string(opts.PropertyType)},
		},
		LandValue:     pricing.LandValue,
		BuildingCosts: breakdown.Costs,
		MarketAnalysis: MarketAnalysis{
			AveragePricePerSqFt: baseline.PricePerSqFt,
			EstimatedSellPrice:  pricing.EstimatedSellPrice,
			DaysOnMarket:        baseline.DaysOnMarket,
			MarketTrend:         TrendFor(baseline.DaysOnMarket),
			Comparables:         []Comparable{},
		},
		FinancialAnalysis: analysis,
		TaxInfo:           EstimateTax(loc.State, pricing.EstimatedSellPrice),
		Recommendations:   recommendations,
		Risks:             risks,
	}

	if breakdown.IsFlip {
		report.ExistingProperty = &ExistingProperty{
			YearBuilt:      assumedYearBuilt,
			SquareFeet:     opts.SquareFeet,
			Condition:      conditionLabels[opts.FinishQuality],
			EstimatedValue: pricing.PurchasePrice,
		}
	}

	return report
}
