package schedule

import (
	"fmt"
	"strings"
	"time"
)

// ConfigurationError reports an invalid loan configuration. It is fatal and
// surfaced before any periods are generated.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid loan configuration: %s", e.Reason)
}

// MissingRateError reports SOFR reset dates that have no observation in the
// rate table. The engine checks all required dates up front so callers see
// every missing date at once instead of failing mid-computation.
type MissingRateError struct {
	Dates []time.Time
}

func (e *MissingRateError) Error() string {
	formatted := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		formatted[i] = d.Format("2006-01-02")
	}
	return fmt.Sprintf("missing SOFR rates for dates: %s", strings.Join(formatted, ", "))
}
