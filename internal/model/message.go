package model

type CalculationMessage struct {
	ID       int    `json:"id"`
	ClientID int64  `json:"client_id"`
	Feature  string `json:"feature,omitempty"`
	Level    string `json:"level"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

const (
	CodeMalformedLoanSumma     = "MALFORMED_LOAN_SUMMA"
	CodeMissingApplicationDate = "MISSING_APPLICATION_DATE"
	CodeUnknownFeature         = "UNKNOWN_FEATURE"
)
