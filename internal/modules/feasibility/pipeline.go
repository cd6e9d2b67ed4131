package feasibility

import "math"

// money rounds half-up to a whole dollar. Halves round toward +Inf
// (-2.5 becomes -2), which is what the stored estimates were computed with.
func money(v float64) float64 {
	return math.Floor(v + 0.5)
}

func (b bounds) clamp(v float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, v))
}

// Pricing is the land and purchase price estimate.
type Pricing struct {
	PricePerSqFt       float64
	EstimatedSellPrice float64
	LandRatio          float64
	LandValue          float64
	ConditionDiscount  float64
	PurchasePrice      float64
}

// PriceProperty estimates sale, land and purchase prices from the baseline.
func PriceProperty(baseline MarketBaseline, opts DevelopmentOptions, strategy Strategy) Pricing {
	sell := money(baseline.PricePerSqFt * float64(opts.SquareFeet))
	ratio := LandRatio(strategy, opts.PropertyType)
	land := money(sell * ratio)
	discount := ConditionDiscount(opts.FinishQuality)

	return Pricing{
		PricePerSqFt:       baseline.PricePerSqFt,
		EstimatedSellPrice: sell,
		LandRatio:          ratio,
		LandValue:          land,
		ConditionDiscount:  discount,
		PurchasePrice:      money((sell - land) * discount),
	}
}

// IsFlip reports whether the scenario is priced as a rehab. Strategy is not
// consulted: a single-family, non-luxury property is a flip even when
// strategy is "ground-up".
func IsFlip(opts DevelopmentOptions) bool {
	return opts.PropertyType == PropertySingleFamily && opts.FinishQuality != FinishLuxury
}

// CostBreakdown is the construction cost estimate.
type CostBreakdown struct {
	IsFlip           bool
	Costs            BuildingCosts
	TotalProjectCost float64
}

// BreakdownCosts prices the build or rehab and adds the soft-cost line items.
func BreakdownCosts(opts DevelopmentOptions, pricing Pricing) CostBreakdown {
	flip := IsFlip(opts)

	perSqFt := BuildCostPerSqFt(opts.FinishQuality)
	rates := groundUpSoftCostRates
	if flip {
		perSqFt = RehabCostPerSqFt(opts.FinishQuality)
		rates = flipSoftCostRates
	}

	construction := money(perSqFt * float64(opts.SquareFeet))
	costs := BuildingCosts{
		LandPreparation: money(construction * rates.LandPreparation),
		Construction:    construction,
		PermitsAndFees:  money(construction * rates.PermitsAndFees),
		Architecture:    money(construction * rates.Architecture),
		SoftCosts:       money(construction * rates.SoftCosts),
		Contingency:     money(construction * rates.Contingency),
		CostPerSqFt:     perSqFt,
	}
	costs.Total = costs.LandPreparation + costs.Construction + costs.PermitsAndFees +
		costs.Architecture + costs.SoftCosts + costs.Contingency

	return CostBreakdown{
		IsFlip:           flip,
		Costs:            costs,
		TotalProjectCost: money(pricing.PurchasePrice + pricing.LandValue + costs.Total),
	}
}

// ResolveFinancing merges caller overrides into the strategy defaults one
// field at a time and clamps every numeric field. Out-of-range values are
// clamped, never rejected; non-finite values are ignored.
func ResolveFinancing(strategy Strategy, overrides *FinancingInputs) FinancingTerms {
	terms := DefaultFinancing(strategy)

	if overrides != nil {
		if overrides.Enabled != nil {
			terms.Enabled = *overrides.Enabled
		}
		override(&terms.LoanToCost, overrides.LoanToCost)
		override(&terms.InterestRate, overrides.InterestRate)
		override(&terms.Points, overrides.Points)
		override(&terms.HoldingMonths, overrides.HoldingMonths)
		override(&terms.ClosingCostRate, overrides.ClosingCostRate)
	}

	terms.LoanToCost = loanToCostBounds.clamp(terms.LoanToCost)
	terms.InterestRate = interestRateBounds.clamp(terms.InterestRate)
	terms.Points = pointsBounds.clamp(terms.Points)
	terms.HoldingMonths = holdingMonthsBounds.clamp(terms.HoldingMonths)
	terms.ClosingCostRate = closingCostRateBounds.clamp(terms.ClosingCostRate)

	return terms
}

func override(dst *float64, v *float64) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return
	}
	*dst = *v
}

// FinancingCosts is the interest-only loan model.
type FinancingCosts struct {
	LoanAmount      float64
	EquityRequired  float64
	MonthlyInterest float64
	InterestTotal   float64
	Origination     float64
	ClosingCosts    float64
	TotalInvestment float64
}

// ModelFinancing computes loan size, carrying costs and total investment.
func ModelFinancing(terms FinancingTerms, totalProjectCost, sellPrice float64) FinancingCosts {
	var loan, monthly, origination float64
	if terms.Enabled {
		loan = money(totalProjectCost * terms.LoanToCost)
		monthly = loan * terms.InterestRate / 12
		origination = money(loan * terms.Points)
	}

	interest := money(monthly * terms.HoldingMonths)
	closing := money(sellPrice * terms.ClosingCostRate)

	return FinancingCosts{
		LoanAmount:      loan,
		EquityRequired:  totalProjectCost - loan,
		MonthlyInterest: monthly,
		InterestTotal:   interest,
		Origination:     origination,
		ClosingCosts:    closing,
		TotalInvestment: money(totalProjectCost + interest + origination + closing),
	}
}

// AnalyzeFinancials derives profit, margin and ROI. Margin is 0 when there is
// no sale price and ROI is 0 when no equity is required, so neither is ever
// NaN or infinite.
func AnalyzeFinancials(sellPrice float64, financing FinancingCosts) FinancialAnalysis {
	profit := money(sellPrice - financing.TotalInvestment)

	var margin, roi float64
	if sellPrice > 0 {
		margin = profit / sellPrice * 100
	}
	if financing.EquityRequired > 0 {
		roi = profit / financing.EquityRequired * 100
	}

	return FinancialAnalysis{
		TotalInvestment: financing.TotalInvestment,
		EstimatedProfit: profit,
		ProfitMargin:    margin,
		ROI:             roi,
		BreakEvenPrice:  financing.TotalInvestment,
	}
}

// EstimateTax estimates annual property tax from the sale price.
func EstimateTax(state string, sellPrice float64) TaxInfo {
	assessed := money(sellPrice * assessmentRatio)
	rate := PropertyTaxRate(state)

	return TaxInfo{
		AnnualPropertyTax: money(assessed * (rate / 100)),
		TaxRate:           rate,
		AssessedValue:     assessed,
	}
}
