package features

import (
	"time"

	"loan-feature-engine/internal/model"
)

// Feature defines the contract for all feature calculators.
// Each feature reads one client row and produces a single value plus any
// non-fatal messages about records it had to skip. Implementations must not
// modify the row.
type Feature interface {
	Name() string
	Calculate(row *model.ClientRow, now time.Time) (model.FeatureValue, []model.CalculationMessage)
}
