package feasibility

// Advisory messages. Each check is independent and they are emitted in the
// order listed here.
const (
	RecStrongROI     = "ROI looks strong for a typical investor target range."
	RecPremiumFinish = "Consider running a premium-finish scenario to see if ARV increase beats added cost."
	RecTightMargin   = "Margin is tight—reduce rehab scope, negotiate purchase price, or validate comps before proceeding."
	RecFlipScope     = "For flips: verify repair scope, permits, and timeline assumptions before committing."
	RecNewBuild      = "For new builds: confirm zoning/setbacks and utility connections early—these swing feasibility."

	RiskLongHold       = "Long holding period increases interest exposure and market risk."
	RiskLuxuryFinish   = "Luxury finishes increase cost volatility and buyer pool sensitivity."
	RiskNegativeProfit = "Projected profit is negative under current assumptions—treat as a no-go until inputs are validated."
)

const (
	strongROI      = 15.0
	premiumROI     = 20.0
	tightROI       = 10.0
	longHoldMonths = 12.0
)

// Advise derives recommendations and risks from the finished analysis.
func Advise(analysis FinancialAnalysis, isFlip bool, terms FinancingTerms, quality FinishQuality) (recommendations, risks []string) {
	recommendations = []string{}
	risks = []string{}

	if analysis.ROI >= strongROI {
		recommendations = append(recommendations, RecStrongROI)
	}
	if analysis.ROI >= premiumROI {
		recommendations = append(recommendations, RecPremiumFinish)
	}
	if analysis.ROI < tightROI {
		recommendations = append(recommendations, RecTightMargin)
	}
	if isFlip {
		recommendations = append(recommendations, RecFlipScope)
	} else {
		recommendations = append(recommendations, RecNewBuild)
	}

	if terms.HoldingMonths > longHoldMonths {
		risks = append(risks, RiskLongHold)
	}
	if quality == FinishLuxury {
		risks = append(risks, RiskLuxuryFinish)
	}
	if analysis.EstimatedProfit < 0 {
		risks = append(risks, RiskNegativeProfit)
	}

	return recommendations, risks
}
