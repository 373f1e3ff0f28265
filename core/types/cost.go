// Package types - Quote and line item types
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// AdjustmentKind identifies which pricing rule produced an adjustment
type AdjustmentKind string

const (
	AdjustmentPremiumSurcharge AdjustmentKind = "premium_surcharge"
	AdjustmentGroupDiscount    AdjustmentKind = "group_discount"
	AdjustmentSpecialDiscount  AdjustmentKind = "special_discount"
)

// LineItem is a single priced component of a membership
type LineItem struct {
	// Label is a human-readable label (feature name)
	Label string `json:"label" yaml:"label"`

	// Amount is the per-member cost
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// Adjustment is a surcharge or discount applied to the running subtotal
type Adjustment struct {
	Kind  AdjustmentKind `json:"kind" yaml:"kind"`
	Label string         `json:"label" yaml:"label"`

	// Rate is set for percentage rules
	Rate *decimal.Decimal `json:"rate,omitempty" yaml:"rate,omitempty"`

	// Threshold is set for special discounts
	Threshold *decimal.Decimal `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// Amount is the signed change: positive for surcharges, negative for discounts
	Amount decimal.Decimal `json:"amount" yaml:"amount"`

	// Formula describes how the amount was calculated
	Formula string `json:"formula" yaml:"formula"`

	// Before and After bracket the running subtotal around this adjustment
	Before decimal.Decimal `json:"before" yaml:"before"`
	After  decimal.Decimal `json:"after" yaml:"after"`
}

// Quote is the itemised result of pricing one membership selection
type Quote struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	Plan     string          `json:"plan" yaml:"plan"`
	BaseCost decimal.Decimal `json:"base_cost" yaml:"base_cost"`
	Features []LineItem      `json:"features,omitempty" yaml:"features,omitempty"`
	Members  int             `json:"members" yaml:"members"`

	// PerMember is base cost plus selected features
	PerMember decimal.Decimal `json:"per_member" yaml:"per_member"`

	// Subtotal is PerMember times Members, before any adjustment
	Subtotal decimal.Decimal `json:"subtotal" yaml:"subtotal"`

	Adjustments []Adjustment `json:"adjustments,omitempty" yaml:"adjustments,omitempty"`

	Total    decimal.Decimal `json:"total" yaml:"total"`
	Currency Currency        `json:"currency" yaml:"currency"`
}

// Apply records an adjustment and moves the running total.
func (q *Quote) Apply(adj Adjustment) {
	adj.Before = q.Total
	adj.After = q.Total.Add(adj.Amount)
	q.Adjustments = append(q.Adjustments, adj)
	q.Total = adj.After
}

// Adjustment returns the adjustment of the given kind, if one was applied.
func (q *Quote) Adjustment(kind AdjustmentKind) (Adjustment, bool) {
	for _, a := range q.Adjustments {
		if a.Kind == kind {
			return a, true
		}
	}
	return Adjustment{}, false
}

// FeatureNames lists the selected features in selection order.
func (q *Quote) FeatureNames() []string {
	names := make([]string, len(q.Features))
	for i, f := range q.Features {
		names[i] = f.Label
	}
	return names
}
