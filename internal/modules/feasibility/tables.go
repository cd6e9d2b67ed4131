package feasibility

// DefaultState is the baseline row used for any state without market data.
const DefaultState = "DEFAULT"

// MarketBaseline is the per-state market assumption.
type MarketBaseline struct {
	PricePerSqFt float64
	DaysOnMarket int
}

var marketBaselines = map[string]MarketBaseline{
	"MD":         {PricePerSqFt: 240, DaysOnMarket: 22},
	"VA":         {PricePerSqFt: 230, DaysOnMarket: 24},
	"DC":         {PricePerSqFt: 420, DaysOnMarket: 18},
	"PA":         {PricePerSqFt: 210, DaysOnMarket: 28},
	"DE":         {PricePerSqFt: 200, DaysOnMarket: 27},
	DefaultState: {PricePerSqFt: 220, DaysOnMarket: 30},
}

var buildCostPerSqFt = map[FinishQuality]float64{
	FinishBasic:    120,
	FinishStandard: 165,
	FinishPremium:  230,
	FinishLuxury:   310,
}

var rehabCostPerSqFt = map[FinishQuality]float64{
	FinishBasic:    25, // light cosmetic
	FinishStandard: 45, // moderate rehab
	FinishPremium:  70, // heavy rehab
	FinishLuxury:   95, // full gut
}

// landRatios is keyed by strategy, then property type. Property types missing
// from a row use that row's single-family ratio.
var landRatios = map[Strategy]map[PropertyType]float64{
	StrategyFlip: {
		PropertyCommercial:   0.22,
		PropertyMixedUse:     0.20,
		PropertyMultiFamily:  0.18,
		PropertySingleFamily: 0.16,
	},
	StrategyGroundUp: {
		PropertyCommercial:   0.35,
		PropertyMixedUse:     0.32,
		PropertyMultiFamily:  0.28,
		PropertySingleFamily: 0.25,
	},
	StrategyGovernment: {
		PropertyCommercial:   0.18,
		PropertyMixedUse:     0.17,
		PropertyMultiFamily:  0.15,
		PropertySingleFamily: 0.14,
	},
}

const defaultLandRatio = 0.20

var conditionDiscounts = map[FinishQuality]float64{
	FinishBasic:    0.92,
	FinishStandard: 0.88,
	FinishPremium:  0.83,
	FinishLuxury:   0.78,
}

var conditionLabels = map[FinishQuality]string{
	FinishBasic:    "Fair (cosmetic updates)",
	FinishStandard: "Average (moderate rehab)",
	FinishPremium:  "Poor (heavy rehab)",
	FinishLuxury:   "Full gut / high complexity",
}

// softCostRates are fractions of hard construction cost.
type softCostRates struct {
	PermitsAndFees  float64
	Architecture    float64
	SoftCosts       float64
	Contingency     float64
	LandPreparation float64
}

var (
	flipSoftCostRates = softCostRates{
		PermitsAndFees:  0.06,
		Architecture:    0.02,
		SoftCosts:       0.07,
		Contingency:     0.10,
		LandPreparation: 0.03,
	}
	groundUpSoftCostRates = softCostRates{
		PermitsAndFees:  0.06,
		Architecture:    0.05,
		SoftCosts:       0.07,
		Contingency:     0.10,
		LandPreparation: 0.07,
	}
)

// FinancingTerms are the effective financing assumptions after defaults,
// overrides and clamping.
type FinancingTerms struct {
	Enabled         bool    `json:"enabled"`
	LoanToCost      float64 `json:"loanToCost"`
	InterestRate    float64 `json:"interestRate"`
	Points          float64 `json:"points"`
	HoldingMonths   float64 `json:"holdingMonths"`
	ClosingCostRate float64 `json:"closingCostRate"`
}

var financingDefaults = map[Strategy]FinancingTerms{
	StrategyFlip: {
		Enabled:         true,
		LoanToCost:      0.80,
		InterestRate:    0.12, // hard money
		Points:          0.02,
		HoldingMonths:   6,
		ClosingCostRate: 0.03,
	},
	StrategyGroundUp: {
		Enabled:         true,
		LoanToCost:      0.70,
		InterestRate:    0.08, // construction loan
		Points:          0.015,
		HoldingMonths:   18,
		ClosingCostRate: 0.025,
	},
	StrategyGovernment: {
		Enabled:         true,
		LoanToCost:      0.60,
		InterestRate:    0.05,
		Points:          0.01,
		HoldingMonths:   24,
		ClosingCostRate: 0.02,
	},
}

var fallbackFinancing = FinancingTerms{
	Enabled:         true,
	LoanToCost:      0.75,
	InterestRate:    0.09,
	Points:          0.02,
	HoldingMonths:   12,
	ClosingCostRate: 0.03,
}

type bounds struct {
	Min, Max float64
}

var (
	loanToCostBounds      = bounds{0, 0.95}
	interestRateBounds    = bounds{0, 0.5}
	pointsBounds          = bounds{0, 0.08}
	holdingMonthsBounds   = bounds{1, 36}
	closingCostRateBounds = bounds{0, 0.08}
)

// propertyTaxRates are annual rates in percent of assessed value.
var propertyTaxRates = map[string]float64{
	"MD": 1.1,
	"VA": 1.0,
}

const (
	defaultPropertyTaxRate = 1.2
	assessmentRatio        = 0.88
	assumedYearBuilt       = 1985
)

// BaselineFor returns the market baseline for a state code. It never fails:
// unknown or empty codes get the DEFAULT row.
func BaselineFor(state string) MarketBaseline {
	if b, ok := marketBaselines[state]; ok {
		return b
	}
	return marketBaselines[DefaultState]
}

// BuildCostPerSqFt returns the ground-up construction cost for a finish tier.
func BuildCostPerSqFt(q FinishQuality) float64 {
	return buildCostPerSqFt[q]
}

// RehabCostPerSqFt returns the rehab cost for a finish tier.
func RehabCostPerSqFt(q FinishQuality) float64 {
	return rehabCostPerSqFt[q]
}

// LandRatio returns the share of the sale price attributed to land.
func LandRatio(strategy Strategy, propertyType PropertyType) float64 {
	row, ok := landRatios[strategy]
	if !ok {
		return defaultLandRatio
	}
	if ratio, ok := row[propertyType]; ok {
		return ratio
	}
	return row[PropertySingleFamily]
}

// ConditionDiscount returns the purchase discount implied by the finish tier.
// Anything that is not basic, standard or premium is priced like luxury.
func ConditionDiscount(q FinishQuality) float64 {
	if d, ok := conditionDiscounts[q]; ok {
		return d
	}
	return conditionDiscounts[FinishLuxury]
}

// DefaultFinancing returns the strategy's default financing profile.
func DefaultFinancing(strategy Strategy) FinancingTerms {
	if terms, ok := financingDefaults[strategy]; ok {
		return terms
	}
	return fallbackFinancing
}

// PropertyTaxRate returns the annual tax rate in percent for a state code.
func PropertyTaxRate(state string) float64 {
	if rate, ok := propertyTaxRates[state]; ok {
		return rate
	}
	return defaultPropertyTaxRate
}

// TrendFor classifies a market by days on market.
func TrendFor(daysOnMarket int) MarketTrend {
	switch {
	case daysOnMarket <= 21:
		return TrendHot
	case daysOnMarket <= 45:
		return TrendModerate
	default:
		return TrendSlow
	}
}
