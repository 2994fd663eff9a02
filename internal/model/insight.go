package model

import "github.com/shopspring/decimal"

// InsightKind tags what an insight reports on.
type InsightKind string

const (
	KindDeltaIncrease    InsightKind = "delta-inc"
	KindDeltaDecrease    InsightKind = "delta-dec"
	KindSpotlight        InsightKind = "spotlight"
	KindEvent            InsightKind = "event"
	KindBackfillIncrease InsightKind = "delta-inc-backfill"
	KindBackfillDecrease InsightKind = "delta-dec-backfill"
)

// Insight is a derived budget observation ready for display.
//
// Title and Description are localized and never take part in identity.
type Insight struct {
	ID          string          `json:"__id,omitempty"`
	Key         string          `json:"key,omitempty"`
	Kind        InsightKind     `json:"kind"`
	Month       string          `json:"month,omitempty"`
	Category    string          `json:"category,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitzero"`
	Current     decimal.Decimal `json:"current,omitzero"`
	Previous    decimal.Decimal `json:"previous,omitzero"`
	Percent     float64         `json:"percent,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
}
