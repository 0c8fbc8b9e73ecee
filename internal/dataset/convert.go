package dataset

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"loan-feature-engine/internal/model"
)

// ConvertContracts parses the contracts column. A blank or null value is an
// absent history (nil, nil). A single object is wrapped into a one-element
// history.
func ConvertContracts(s string) (model.History, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}

	switch s[0] {
	case '{':
		var r model.ContractRecord
		if err := json.Unmarshal([]byte(s), &r); err != nil {
			return nil, fmt.Errorf("parse contracts: %w", err)
		}
		return model.History{r}, nil
	case '[':
		var h model.History
		if err := json.Unmarshal([]byte(s), &h); err != nil {
			return nil, fmt.Errorf("parse contracts: %w", err)
		}
		if h == nil {
			h = model.History{}
		}
		return h, nil
	default:
		return nil, fmt.Errorf("parse contracts: expected object or array, got %.20q", s)
	}
}

// ConvertContractsJSON accepts the contracts value as it appears inside a JSON
// document: the list or object itself, or a string holding the encoded list.
func ConvertContractsJSON(raw json.RawMessage) (model.History, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse contracts: %w", err)
		}
		return ConvertContracts(s)
	}
	return ConvertContracts(trimmed)
}

var applicationDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ConvertApplicationDate parses an ISO-8601 date or datetime. A blank value
// is absent (nil, nil).
func ConvertApplicationDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range applicationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("parse application date %q: unsupported format", s)
}
