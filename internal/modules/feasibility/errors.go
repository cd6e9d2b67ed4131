package feasibility

import (
	"fmt"
	"strings"
)

// MinSquareFeet is the smallest building the estimator will price.
const MinSquareFeet = 300

// ValidationError is a malformed or out-of-contract request. Its message is
// safe to return to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks the request before any external call is made.
func (r *EvaluationRequest) Validate() error {
	if strings.TrimSpace(r.Address) == "" {
		return invalid("Address is required")
	}
	if r.DevelopmentOptions.SquareFeet < MinSquareFeet {
		return invalid("Square feet must be at least %d", MinSquareFeet)
	}
	if !r.DevelopmentOptions.FinishQuality.Valid() {
		return invalid("Unknown finish quality %q", r.DevelopmentOptions.FinishQuality)
	}
	if !r.DevelopmentOptions.PropertyType.Valid() {
		return invalid("Unknown property type %q", r.DevelopmentOptions.PropertyType)
	}
	return nil
}
