package feasibility

import (
	"fmt"
	"time"

	"github.com/ivibez/portal/internal/clients/geocoding"
	"github.com/rs/zerolog"
)

// Geocoder resolves an address. *geocoding.Client satisfies it.
type Geocoder interface {
	Geocode(address string) (*geocoding.Result, error)
}

// Evaluation is a completed estimate together with its inputs.
type Evaluation struct {
	Request  EvaluationRequest
	Location Location
	Report   *Report
}

// Recorder receives every successful evaluation. Recording is best-effort.
type Recorder interface {
	Record(eval Evaluation) error
}

// Service validates requests, resolves the address and runs the estimate.
type Service struct {
	geocoder Geocoder
	recorder Recorder
	log      zerolog.Logger
}

// NewService creates a new feasibility service
func NewService(geocoder Geocoder, log zerolog.Logger) *Service {
	return &Service{
		geocoder: geocoder,
		log:      log.With().Str("service", "feasibility").Logger(),
	}
}

// SetRecorder sets the evaluation recorder (for dependency injection)
func (s *Service) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// Evaluate produces a full report or an error; there is no partial result.
// A *ValidationError means the request was rejected before the address was
// looked up. Every other error is operational.
func (s *Service) Evaluate(req EvaluationRequest) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	geo, err := s.geocoder.Geocode(req.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}

	loc := Location{
		FormattedAddress: geo.FormattedAddress,
		Lat:              geo.Lat,
		Lng:              geo.Lng,
		State:            geo.State,
		County:           geo.County,
		City:             geo.City,
	}

	report := Estimate(req, loc)

	s.log.Info().
		Str("state", loc.State).
		Str("strategy", string(req.Strategy)).
		Str("property_type", string(req.DevelopmentOptions.PropertyType)).
		Int("square_feet", req.DevelopmentOptions.SquareFeet).
		Float64("roi", report.FinancialAnalysis.ROI).
		Dur("elapsed", time.Since(start)).
		Msg("Property evaluated")

	if s.recorder != nil {
		if err := s.recorder.Record(Evaluation{Request: req, Location: loc, Report: report}); err != nil {
			s.log.Warn().Err(err).Msg("Failed to record evaluation")
		}
	}

	return report, nil
}
