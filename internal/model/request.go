package model

import json "github.com/goccy/go-json"

type CalculationRequest struct {
	TenantID      string        `json:"tenant_id"`
	ReferenceDate string        `json:"reference_date,omitempty"`
	Clients       []ClientInput `json:"clients"`
}

// ClientInput mirrors one row of the source dataset. Contracts may be the
// nested list itself, a single object, a JSON-encoded string or null.
type ClientInput struct {
	ID              int64           `json:"id"`
	ApplicationDate string          `json:"application_date,omitempty"`
	Contracts       json.RawMessage `json:"contracts"`
}
