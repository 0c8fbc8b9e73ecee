package model

import "strconv"

// FeatureValue is either a computed feature or one of the sentinel codes.
type FeatureValue float64

const (
	// NoData marks a client whose contract history is absent or empty.
	NoData FeatureValue = -3
	// NoQualifyingData marks a history where no record passed the feature filter.
	NoQualifyingData FeatureValue = -1
)

// String renders whole values without a fractional part so sentinels and
// counts stay integers in CSV output.
func (v FeatureValue) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}
