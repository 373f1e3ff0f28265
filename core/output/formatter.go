// Package output provides output formatting interfaces.
// This package produces human and machine-readable quotes and plan listings.
package output

import (
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"gym-pricing/core/membership"
	"gym-pricing/core/pricing"
	"gym-pricing/core/types"
	"gym-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable itemisation
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatYAML is machine-readable YAML
	FormatYAML Format = "yaml"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// RenderQuote writes an itemised quote
	RenderQuote(w io.Writer, quote *types.Quote) error

	// RenderPlans writes the plan catalog
	RenderPlans(w io.Writer, plans []PlanView) error

	// RenderRules writes the active pricing rules
	RenderRules(w io.Writer, rules pricing.Rules) error
}

// PlanView is the serialisable form of a plan's catalog
type PlanView struct {
	Name     string               `json:"name" yaml:"name"`
	BaseCost decimal.Decimal      `json:"base_cost" yaml:"base_cost"`
	Features []membership.Feature `json:"features,omitempty" yaml:"features,omitempty"`
}

// NewPlanViews converts plans to their serialisable form.
func NewPlanViews(plans []*membership.Plan) []PlanView {
	views := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		views = append(views, PlanView{Name: p.Name, BaseCost: p.BaseCost, Features: p.Features()})
	}
	return views
}

// Formats lists the supported format names
func Formats() []Format {
	return []Format{FormatCLI, FormatJSON, FormatYAML, FormatMarkdown}
}

// New returns the formatter for a format name.
func New(format string) (Formatter, error) {
	switch Format(strings.ToLower(format)) {
	case FormatCLI, "":
		return NewCLIFormatter(), nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML, "yml":
		return &YAMLFormatter{}, nil
	case FormatMarkdown, "md":
		return &MarkdownFormatter{}, nil
	default:
		return nil, errors.Inputf("unknown output format %q", format)
	}
}

// Money renders an amount for display with two decimal places.
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
