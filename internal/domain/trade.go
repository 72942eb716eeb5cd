package domain

import (
	"strconv"
	"time"
)

// DateFormat is the single date layout used for trade field comparison.
const DateFormat = "2006-01-02"

// TradeRecord is the trusted reference record a termsheet is validated
// against. Sourced from the trade capture system, never from documents.
type TradeRecord struct {
	ID             string     `json:"id"`
	TradeID        string     `json:"trade_id"`
	Counterparty   string     `json:"counterparty"`
	NotionalAmount float64    `json:"notional_amount"`
	Currency       string     `json:"currency"`
	TradeType      string     `json:"trade_type"`
	FixedRate      float64    `json:"fixed_rate"`
	PaymentFreq    string     `json:"payment_frequency"`
	ReferenceRate  string     `json:"reference_rate"`
	LegalEntity    string     `json:"legal_entity"`
	SettlementDate time.Time  `json:"settlement_date"`
	MaturityDate   time.Time  `json:"maturity_date"`
	Status         string     `json:"status"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ReferenceFields flattens the record into the field map the validation
// engine consumes. Keys match the rule registry's field names.
func (t *TradeRecord) ReferenceFields() map[string]string {
	return map[string]string{
		"counterparty":      t.Counterparty,
		"notional_amount":   strconv.FormatFloat(t.NotionalAmount, 'f', -1, 64),
		"currency":          t.Currency,
		"trade_type":        t.TradeType,
		"fixed_rate":        strconv.FormatFloat(t.FixedRate, 'f', -1, 64),
		"payment_frequency": t.PaymentFreq,
		"reference_rate":    t.ReferenceRate,
		"legal_entity":      t.LegalEntity,
		"settlement_date":   t.SettlementDate.Format(DateFormat),
		"maturity_date":     t.MaturityDate.Format(DateFormat),
	}
}

// ExtractedField is one field pulled out of a termsheet document by the
// extraction layer, with its extraction confidence.
type ExtractedField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// TermSheet holds the fields extracted from one uploaded termsheet.
type TermSheet struct {
	ID         string                    `json:"id"`
	SessionID  string                    `json:"session_id"`
	TradeID    string                    `json:"trade_id,omitempty"`
	Fields     map[string]ExtractedField `json:"fields"`
	Source     string                    `json:"extraction_source"`
	Confidence float64                   `json:"extraction_confidence"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// FieldValues strips confidences, returning the plain field map the
// validation engine consumes.
func (ts *TermSheet) FieldValues() map[string]string {
	m := make(map[string]string, len(ts.Fields))
	for name, f := range ts.Fields {
		m[name] = f.Value
	}
	return m
}
