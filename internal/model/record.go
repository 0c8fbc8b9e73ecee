package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ContractRecord is one entry of a client's contract history. Every field is
// optional; a field missing from the source, set to null or left blank all
// decode to nil.
type ContractRecord struct {
	ClaimID *string
	// ClaimIDNumeric is set when claim_id was a JSON number, so 1 and "1"
	// stay distinct claims.
	ClaimIDNumeric bool

	ClaimDate    *civil.Date
	ContractDate *civil.Date

	// LoanSumma and Summa keep the raw text of the amount; use ParseAmount.
	LoanSumma *string
	Summa     *string
	Bank      *string
}

// History is the ordered contract list of one client. A nil History means the
// source had no history at all; an empty non-nil one means an empty list.
type History []ContractRecord

func (r *ContractRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode contract record: %w", err)
	}

	claimID := textField(fields["claim_id"])
	*r = ContractRecord{
		ClaimID:        claimID,
		ClaimIDNumeric: claimID != nil && !isJSONString(fields["claim_id"]),
		ClaimDate:      dateField(fields["claim_date"]),
		ContractDate:   dateField(fields["contract_date"]),
		LoanSumma:      textField(fields["loan_summa"]),
		Summa:          textField(fields["summa"]),
		Bank:           textField(fields["bank"]),
	}
	return nil
}

// ParseAmount coerces the raw text of a monetary field.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

// textField returns the textual form of a raw JSON value: strings are
// unquoted, numbers keep their literal. null and blank strings yield nil.
func textField(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	} else {
		s = string(raw)
	}

	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

// dateField accepts only DD.MM.YYYY strings; anything else is treated as missing.
func dateField(raw json.RawMessage) *civil.Date {
	s := textField(raw)
	if s == nil {
		return nil
	}
	d, ok := ParseDotDate(*s)
	if !ok {
		return nil
	}
	return &d
}

// ParseDotDate parses "DD.MM.YYYY" without going through time.Parse layouts.
// Returns false on anything that is not a real calendar date.
func ParseDotDate(s string) (civil.Date, bool) {
	if len(s) != 10 || s[2] != '.' || s[5] != '.' {
		return civil.Date{}, false
	}
	for i, c := range []byte(s) {
		if i == 2 || i == 5 {
			continue
		}
		if c < '0' || c > '9' {
			return civil.Date{}, false
		}
	}
	d := civil.Date{
		Day:   int(s[0]-'0')*10 + int(s[1]-'0'),
		Month: time.Month(int(s[3]-'0')*10 + int(s[4]-'0')),
		Year:  int(s[6]-'0')*1000 + int(s[7]-'0')*100 + int(s[8]-'0')*10 + int(s[9]-'0'),
	}
	if !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}
