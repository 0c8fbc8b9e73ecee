package model

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	TenantID               string `json:"tenant_id"`
	ReferenceDate          string `json:"reference_date"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type CalculationResult struct {
	Messages []CalculationMessage `json:"messages"`
	Clients  []ClientResult       `json:"clients"`
}

// ClientResult holds every computed feature of one client row, keyed by
// output column name.
type ClientResult struct {
	ClientID                  int64                   `json:"id"`
	Features                  map[string]FeatureValue `json:"features"`
	CalculationMessageIndexes []int                   `json:"calculation_message_indexes,omitempty"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
