// Package membership models membership plans and their optional paid features.
package membership

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gym-pricing/internal/errors"
)

// Feature is an optional add-on in a plan's catalog
type Feature struct {
	Name string          `json:"name" yaml:"name"`
	Cost decimal.Decimal `json:"cost" yaml:"cost"`
}

// Plan is a named membership tier with a base cost, a fixed feature catalog
// and the features selected for the current pricing session.
//
// A Plan is not safe for concurrent use. Sessions that run side by side
// should each work on their own Clone.
type Plan struct {
	Name     string
	BaseCost decimal.Decimal

	features map[string]decimal.Decimal
	order    []string
	selected []string
}

// NewPlan creates a plan. Features keep their declaration order; a repeated
// name replaces the earlier cost in place.
func NewPlan(name string, baseCost decimal.Decimal, features ...Feature) *Plan {
	p := &Plan{
		Name:     name,
		BaseCost: baseCost,
		features: make(map[string]decimal.Decimal, len(features)),
	}
	for _, f := range features {
		if _, ok := p.features[f.Name]; !ok {
			p.order = append(p.order, f.Name)
		}
		p.features[f.Name] = f.Cost
	}
	return p
}

// AddFeature selects a catalog feature. Selecting the same feature twice
// counts its cost twice.
func (p *Plan) AddFeature(name string) error {
	if _, ok := p.features[name]; !ok {
		return errors.UnknownFeature(p.Name, name)
	}
	p.selected = append(p.selected, name)
	return nil
}

// ComputeBaseCost returns the base cost plus the cost of every selected feature.
func (p *Plan) ComputeBaseCost() decimal.Decimal {
	total := p.BaseCost
	for _, name := range p.selected {
		total = total.Add(p.features[name])
	}
	return total
}

// HasSelection reports whether at least one feature is selected.
func (p *Plan) HasSelection() bool {
	return len(p.selected) > 0
}

// SelectedFeatures returns a copy of the selection in selection order.
func (p *Plan) SelectedFeatures() []string {
	out := make([]string, len(p.selected))
	copy(out, p.selected)
	return out
}

// ClearSelection drops every selected feature.
func (p *Plan) ClearSelection() {
	p.selected = nil
}

// Features returns the catalog in declaration order.
func (p *Plan) Features() []Feature {
	out := make([]Feature, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, Feature{Name: name, Cost: p.features[name]})
	}
	return out
}

// AvailableFeatures returns catalog entries that are not selected yet.
func (p *Plan) AvailableFeatures() []Feature {
	taken := make(map[string]bool, len(p.selected))
	for _, name := range p.selected {
		taken[name] = true
	}
	var out []Feature
	for _, f := range p.Features() {
		if !taken[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

// FeatureCost looks up a catalog entry.
func (p *Plan) FeatureCost(name string) (decimal.Decimal, bool) {
	cost, ok := p.features[name]
	return cost, ok
}

// Clone returns a plan with the same catalog and an empty selection.
func (p *Plan) Clone() *Plan {
	return NewPlan(p.Name, p.BaseCost, p.Features()...)
}

// Validate checks the plan's catalog invariants.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return errors.Input("plan name is required")
	}
	if p.BaseCost.IsNegative() {
		return errors.Inputf("plan %s: base cost %s is negative", p.Name, p.BaseCost)
	}
	for _, name := range p.order {
		if name == "" {
			return errors.Inputf("plan %s: feature name is required", p.Name)
		}
		if cost := p.features[name]; cost.IsNegative() {
			return errors.Inputf("plan %s: feature %s cost %s is negative", p.Name, name, cost)
		}
	}
	return nil
}

// String returns a short description
func (p *Plan) String() string {
	return fmt.Sprintf("%s (base %s, %d features)", p.Name, p.BaseCost.StringFixed(2), len(p.order))
}
