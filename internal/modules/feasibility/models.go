// Package feasibility estimates the profit and ROI of a property investment
// from a postal address and a development specification.
//
// The estimator is a linear pipeline of pure functions over fixed lookup
// tables: pricing, construction cost breakdown, financing, financial
// analysis and advisory text. The only I/O is the address lookup done by
// Service before the pipeline runs.
//
// Currency values are whole dollars held in float64 and rounded half-up at
// every stage, so intermediate roundings compound. Output values depend on
// this and must not be "fixed" by rounding only at the end.
package feasibility

// Strategy is the investment approach. Unknown values are accepted and use
// the fallback rows of the land-ratio and financing tables.
type Strategy string

const (
	StrategyFlip       Strategy = "flip"
	StrategyGroundUp   Strategy = "ground-up"
	StrategyGovernment Strategy = "government"
)

// PropertyType is the kind of building being evaluated.
type PropertyType string

const (
	PropertySingleFamily PropertyType = "single-family"
	PropertyMultiFamily  PropertyType = "multi-family"
	PropertyCommercial   PropertyType = "commercial"
	PropertyMixedUse     PropertyType = "mixed-use"
)

// Valid reports whether p is one of the known property types.
func (p PropertyType) Valid() bool {
	switch p {
	case PropertySingleFamily, PropertyMultiFamily, PropertyCommercial, PropertyMixedUse:
		return true
	}
	return false
}

// FinishQuality is the finish tier, which also implies the existing condition.
type FinishQuality string

const (
	FinishBasic    FinishQuality = "basic"
	FinishStandard FinishQuality = "standard"
	FinishPremium  FinishQuality = "premium"
	FinishLuxury   FinishQuality = "luxury"
)

// Valid reports whether q is one of the known finish tiers.
func (q FinishQuality) Valid() bool {
	switch q {
	case FinishBasic, FinishStandard, FinishPremium, FinishLuxury:
		return true
	}
	return false
}

// MarketTrend classifies how fast property sells in a market.
type MarketTrend string

const (
	TrendHot      MarketTrend = "hot"
	TrendModerate MarketTrend = "moderate"
	TrendSlow     MarketTrend = "slow"
)

// EvaluationRequest is the body of POST /api/evaluate-property.
type EvaluationRequest struct {
	Address            string             `json:"address"`
	DevelopmentOptions DevelopmentOptions `json:"developmentOptions"`
	Strategy           Strategy           `json:"strategy"`
	Financing          *FinancingInputs   `json:"financing,omitempty"`
}

// DevelopmentOptions describes the building to price.
// Units and Stories are accepted but do not affect the estimate.
type DevelopmentOptions struct {
	PropertyType  PropertyType  `json:"propertyType"`
	SquareFeet    int           `json:"squareFeet"`
	Units         *int          `json:"units,omitempty"`
	Stories       int           `json:"stories"`
	FinishQuality FinishQuality `json:"finishQuality"`
}

// FinancingInputs are caller overrides of the strategy's financing defaults.
// A nil field keeps the default; a set field replaces it and is then clamped.
type FinancingInputs struct {
	Enabled         *bool    `json:"enabled,omitempty"`
	LoanToCost      *float64 `json:"loanToCost,omitempty"`
	InterestRate    *float64 `json:"interestRate,omitempty"`
	Points          *float64 `json:"points,omitempty"`
	HoldingMonths   *float64 `json:"holdingMonths,omitempty"`
	ClosingCostRate *float64 `json:"closingCostRate,omitempty"`
	DownPaymentRate *float64 `json:"downPaymentRate,omitempty"` // reserved, not used by the estimate
}

// Location is the resolved address the pipeline prices against.
type Location struct {
	FormattedAddress string
	Lat              float64
	Lng              float64
	State            string // two-letter code; empty or unknown uses the DEFAULT baseline
	County           string
	City             string
}

// Report is the evaluation result returned to the caller.
type Report struct {
	Address           string            `json:"address"`
	FormattedAddress  string            `json:"formattedAddress"`
	Coordinates       Coordinates       `json:"coordinates"`
	Zoning            Zoning            `json:"zoning"`
	LandValue         float64           `json:"landValue"`
	ExistingProperty  *ExistingProperty `json:"existingProperty,omitempty"`
	BuildingCosts     BuildingCosts     `json:"buildingCosts"`
	MarketAnalysis    MarketAnalysis    `json:"marketAnalysis"`
	FinancialAnalysis FinancialAnalysis `json:"financialAnalysis"`
	TaxInfo           TaxInfo           `json:"taxInfo"`
	Recommendations   []string          `json:"recommendations"`
	Risks             []string          `json:"risks"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Zoning is a placeholder until zoning data is integrated.
type Zoning struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	AllowedUses []string `json:"allowedUses"`
}

// ExistingProperty summarizes the structure being bought. Only set for flips.
type ExistingProperty struct {
	YearBuilt      int     `json:"yearBuilt"`
	SquareFeet     int     `json:"squareFeet"`
	Condition      string  `json:"condition"`
	EstimatedValue float64 `json:"estimatedValue"`
}

// BuildingCosts is the construction or rehab cost breakdown.
type BuildingCosts struct {
	LandPreparation float64 `json:"landPreparation"`
	Construction    float64 `json:"construction"`
	PermitsAndFees  float64 `json:"permitsAndFees"`
	Architecture    float64 `json:"architecture"`
	SoftCosts       float64 `json:"softCosts"`
	Contingency     float64 `json:"contingency"`
	Total           float64 `json:"total"`
	CostPerSqFt     float64 `json:"costPerSqFt"`
}

// Comparable is a comparable sale. None are produced yet.
type Comparable struct {
	Address    string  `json:"address"`
	SalePrice  float64 `json:"salePrice"`
	SquareFeet int     `json:"squareFeet"`
}

// MarketAnalysis holds the market baseline used for the estimate.
type MarketAnalysis struct {
	AveragePricePerSqFt float64      `json:"averagePricePerSqFt"`
	EstimatedSellPrice  float64      `json:"estimatedSellPrice"`
	DaysOnMarket        int          `json:"daysOnMarket"`
	MarketTrend         MarketTrend  `json:"marketTrend"`
	Comparables         []Comparable `json:"comparables"`
}

// FinancialAnalysis holds the profitability figures.
// ProfitMargin and ROI are percentages and are not rounded.
type FinancialAnalysis struct {
	TotalInvestment float64 `json:"totalInvestment"`
	EstimatedProfit float64 `json:"estimatedProfit"`
	ProfitMargin    float64 `json:"profitMargin"`
	ROI             float64 `json:"roi"`
	BreakEvenPrice  float64 `json:"breakEvenPrice"`
}

// TaxInfo is a simple property tax estimate. TaxRate is a percentage.
type TaxInfo struct {
	AnnualPropertyTax float64 `json:"annualPropertyTax"`
	TaxRate           float64 `json:"taxRate"`
	AssessedValue     float64 `json:"assessedValue"`
}

// Normalize replaces nil slices with empty ones so the JSON shape is stable
// after a report is decoded from storage.
func (r *Report) Normalize() {
	if r.Zoning.AllowedUses == nil {
		r.Zoning.AllowedUses = []string{}
	}
	if r.MarketAnalysis.Comparables == nil {
		r.MarketAnalysis.Comparables = []Comparable{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	if r.Risks == nil {
		r.Risks = []string{}
	}
}
