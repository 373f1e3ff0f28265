// Package pricing computes membership totals from a plan registry and a
// fixed set of surcharge and discount rules.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"gym-pricing/internal/errors"
)

// DefaultPremiumPlan is the plan name the premium surcharge applies to.
const DefaultPremiumPlan = "Premium"

// SpecialDiscount subtracts Amount when the running subtotal is strictly
// greater than Threshold.
type SpecialDiscount struct {
	Threshold decimal.Decimal `json:"threshold" yaml:"threshold"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
}

// Rules is the immutable discount and surcharge configuration of an Engine.
type Rules struct {
	// GroupDiscountRate is the fraction taken off when enough members join together
	GroupDiscountRate decimal.Decimal `json:"group_discount_rate" yaml:"group_discount_rate"`

	// GroupMinMembers is the member count from which the group discount applies
	GroupMinMembers int `json:"group_min_members" yaml:"group_min_members"`

	// PremiumSurchargeRate is added for PremiumPlan when any feature is selected
	PremiumSurchargeRate decimal.Decimal `json:"premium_surcharge_rate" yaml:"premium_surcharge_rate"`

	// PremiumPlan names the plan the surcharge applies to
	PremiumPlan string `json:"premium_plan" yaml:"premium_plan"`

	// SpecialDiscounts are flat reductions; at most one applies
	SpecialDiscounts []SpecialDiscount `json:"special_discounts" yaml:"special_discounts"`
}

// DefaultRules returns the gym's standard pricing rules.
func DefaultRules() Rules {
	return Rules{
		GroupDiscountRate:    decimal.RequireFromString("0.10"),
		GroupMinMembers:      2,
		PremiumSurchargeRate: decimal.RequireFromString("0.15"),
		PremiumPlan:          DefaultPremiumPlan,
		SpecialDiscounts: []SpecialDiscount{
			{Threshold: decimal.NewFromInt(400), Amount: decimal.NewFromInt(50)},
			{Threshold: decimal.NewFromInt(200), Amount: decimal.NewFromInt(20)},
		},
	}
}

// Validate checks rates are fractions and discount amounts are non-negative.
func (r Rules) Validate() error {
	one := decimal.NewFromInt(1)
	if r.GroupDiscountRate.IsNegative() || r.GroupDiscountRate.GreaterThan(one) {
		return errors.Pricing("group discount rate must be between 0 and 1, got " + r.GroupDiscountRate.String())
	}
	if r.PremiumSurchargeRate.IsNegative() || r.PremiumSurchargeRate.GreaterThan(one) {
		return errors.Pricing("premium surcharge rate must be between 0 and 1, got " + r.PremiumSurchargeRate.String())
	}
	if r.GroupMinMembers < 1 {
		return errors.Pricing("group minimum members must be at least 1")
	}
	for _, sd := range r.SpecialDiscounts {
		if sd.Threshold.IsNegative() || sd.Amount.IsNegative() {
			return errors.Pricing("special discount threshold and amount must be non-negative")
		}
	}
	return nil
}

// clone deep-copies the discount table and orders it by threshold, highest first.
func (r Rules) clone() Rules {
	table := make([]SpecialDiscount, len(r.SpecialDiscounts))
	copy(table, r.SpecialDiscounts)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Threshold.GreaterThan(table[j].Threshold)
	})
	r.SpecialDiscounts = table
	return r
}

// specialDiscountFor returns the highest-threshold discount exceeded by subtotal.
func (r Rules) specialDiscountFor(subtotal decimal.Decimal) (SpecialDiscount, bool) {
	for _, sd := range r.SpecialDiscounts {
		if subtotal.GreaterThan(sd.Threshold) {
			return sd, true
		}
	}
	return SpecialDiscount{}, false
}
