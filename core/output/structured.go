package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"gym-pricing/core/pricing"
	"gym-pricing/core/types"
)

// JSONFormatter formats data as indented JSON.
type JSONFormatter struct{}

// Format returns the format type
func (f *JSONFormatter) Format() Format { return FormatJSON }

// RenderQuote writes the quote as JSON
func (f *JSONFormatter) RenderQuote(w io.Writer, q *types.Quote) error {
	return f.write(w, q)
}

// RenderPlans writes the plans as JSON
func (f *JSONFormatter) RenderPlans(w io.Writer, plans []PlanView) error {
	return f.write(w, plans)
}

// RenderRules writes the rules as JSON
func (f *JSONFormatter) RenderRules(w io.Writer, rules pricing.Rules) error {
	return f.write(w, rules)
}

func (f *JSONFormatter) write(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format returns the format type
func (f *YAMLFormatter) Format() Format { return FormatYAML }

// RenderQuote writes the quote as YAML
func (f *YAMLFormatter) RenderQuote(w io.Writer, q *types.Quote) error {
	return f.write(w, q)
}

// RenderPlans writes the plans as YAML
func (f *YAMLFormatter) RenderPlans(w io.Writer, plans []PlanView) error {
	return f.write(w, plans)
}

// RenderRules writes the rules as YAML
func (f *YAMLFormatter) RenderRules(w io.Writer, rules pricing.Rules) error {
	return f.write(w, rules)
}

func (f *YAMLFormatter) write(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// MarkdownFormatter renders markdown tables, e.g. for pasting into a ticket.
type MarkdownFormatter struct{}

// Format returns the format type
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// RenderQuote writes the quote as a markdown table
func (f *MarkdownFormatter) RenderQuote(w io.Writer, q *types.Quote) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s membership quote\n\n", q.Plan)
	fmt.Fprintf(&b, "| Item | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Base cost | %s |\n", Money(q.BaseCost))
	for _, item := range q.Features {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(item.Label), Money(item.Amount))
	}
	fmt.Fprintf(&b, "| Subtotal (%d members) | %s |\n", q.Members, Money(q.Subtotal))
	for _, adj := range q.Adjustments {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(adj.Label), Money(adj.Amount))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", Money(q.Total))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPlans writes one row per plan feature
func (f *MarkdownFormatter) RenderPlans(w io.Writer, plans []PlanView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "| Plan | Base cost | Feature | Feature cost |\n|---|---:|---|---:|\n")
	for _, p := range plans {
		if len(p.Features) == 0 {
			fmt.Fprintf(&b, "| %s | %s | | |\n", escapeCell(p.Name), Money(p.BaseCost))
			continue
		}
		for i, feat := range p.Features {
			name, base := "", ""
			if i == 0 {
				name, base = escapeCell(p.Name), Money(p.BaseCost)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", name, base, escapeCell(feat.Name), Money(feat.Cost))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderRules writes the rules as a markdown list
func (f *MarkdownFormatter) RenderRules(w io.Writer, rules pricing.Rules) error {
	var b strings.Builder
	fmt.Fprintf(&b, "- Premium surcharge: %s%% (%s plan with features)\n", percentString(rules.PremiumSurchargeRate), rules.PremiumPlan)
	fmt.Fprintf(&b, "- Group discount: %s%% (%d+ members)\n", percentString(rules.GroupDiscountRate), rules.GroupMinMembers)
	for _, sd := range rules.SpecialDiscounts {
		fmt.Fprintf(&b, "- Special discount: %s off over %s\n", Money(sd.Amount), Money(sd.Threshold))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func percentString(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}
