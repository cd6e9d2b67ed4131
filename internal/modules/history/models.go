// Package history keeps a log of completed property evaluations in history.db.
package history

import (
	"time"

	"github.com/ivibez/portal/internal/modules/feasibility"
)

// Summary is the row-level view of a saved evaluation.
type Summary struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	Address          string    `json:"address"`
	FormattedAddress string    `json:"formattedAddress"`
	State            string    `json:"state"`
	Strategy         string    `json:"strategy"`
	PropertyType     string    `json:"propertyType"`
	SquareFeet       int       `json:"squareFeet"`
	SellPrice        float64   `json:"sellPrice"`
	EstimatedProfit  float64   `json:"estimatedProfit"`
	ProfitMargin     float64   `json:"profitMargin"`
	ROI              float64   `json:"roi"`
}

// Record is a saved evaluation with its decoded request and report.
type Record struct {
	Summary
	Request feasibility.EvaluationRequest `json:"request"`
	Report  *feasibility.Report           `json:"report"`
}

// Distribution summarizes one metric across saved evaluations.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Stats aggregates every saved evaluation.
type Stats struct {
	Count        int          `json:"count"`
	ROI          Distribution `json:"roi"`
	ProfitMargin Distribution `json:"profitMargin"`
	MeanProfit   float64      `json:"meanProfit"`
}
