package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gym-pricing/core/pricing"
	"gym-pricing/core/types"
)

// CLIFormatter renders styled plain text for terminals
type CLIFormatter struct{}

// NewCLIFormatter creates a CLI formatter
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{}
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

type cliStyles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	dim      lipgloss.Style
	discount lipgloss.Style
	charge   lipgloss.Style
	total    lipgloss.Style
}

// styles binds to w so colour is only emitted for terminals.
func (f *CLIFormatter) styles(w io.Writer) cliStyles {
	r := lipgloss.NewRenderer(w)
	return cliStyles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:    r.NewStyle().Bold(true),
		dim:      r.NewStyle().Foreground(lipgloss.Color("241")),
		discount: r.NewStyle().Foreground(lipgloss.Color("2")),
		charge:   r.NewStyle().Foreground(lipgloss.Color("3")),
		total:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
	}
}

// RenderQuote writes the itemised quote
func (f *CLIFormatter) RenderQuote(w io.Writer, q *types.Quote) error {
	s := f.styles(w)

	var b strings.Builder
	fmt.Fprintln(&b, s.title.Render("Membership Quote"))
	fmt.Fprintf(&b, "%s %s\n", s.label.Render("Membership:"), q.Plan)
	fmt.Fprintf(&b, "%s %s\n", s.label.Render("Base Cost:"), Money(q.BaseCost))

	features := make([]string, 0, len(q.Features))
	for _, item := range q.Features {
		features = append(features, fmt.Sprintf("%s (Cost %s)", item.Label, Money(item.Amount)))
	}
	if len(features) == 0 {
		fmt.Fprintf(&b, "%s %s\n", s.label.Render("Additional Feature(s):"), s.dim.Render("none"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", s.label.Render("Additional Feature(s):"), strings.Join(features, " - "))
	}
	fmt.Fprintf(&b, "%s %d\n", s.label.Render("Members:"), q.Members)
	fmt.Fprintf(&b, "%s %s x %d = %s\n", s.label.Render("Subtotal:"), Money(q.PerMember), q.Members, Money(q.Subtotal))

	for _, adj := range q.Adjustments {
		style := s.discount
		if adj.Amount.IsPositive() {
			style = s.charge
		}
		fmt.Fprintf(&b, "  %s %s\n", style.Render(fmt.Sprintf("%10s", signedMoney(adj))), adj.Label)
	}

	fmt.Fprintf(&b, "\n%s %s\n", s.label.Render("Total Cost:"), s.total.Render(Money(q.Total)))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPlans writes each plan with its features
func (f *CLIFormatter) RenderPlans(w io.Writer, plans []PlanView) error {
	s := f.styles(w)

	var b strings.Builder
	fmt.Fprintln(&b, s.title.Render("Available Memberships"))
	for i, p := range plans {
		fmt.Fprintf(&b, "%d. %s - Base Cost: %s\n", i+1, s.label.Render(p.Name), Money(p.BaseCost))
		for _, feat := range p.Features {
			fmt.Fprintf(&b, "   - Feature: %s, Cost: %s\n", feat.Name, Money(feat.Cost))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderRules writes the discount and surcharge table
func (f *CLIFormatter) RenderRules(w io.Writer, rules pricing.Rules) error {
	s := f.styles(w)

	var b strings.Builder
	fmt.Fprintln(&b, s.title.Render("Pricing Rules"))
	fmt.Fprintf(&b, "%s %s%% on %s plans with at least one feature\n",
		s.label.Render("Premium surcharge:"), percentString(rules.PremiumSurchargeRate), rules.PremiumPlan)
	fmt.Fprintf(&b, "%s %s%% for %d or more members\n",
		s.label.Render("Group discount:"), percentString(rules.GroupDiscountRate), rules.GroupMinMembers)
	fmt.Fprintln(&b, s.label.Render("Special discounts (highest qualifying threshold only):"))
	if len(rules.SpecialDiscounts) == 0 {
		fmt.Fprintf(&b, "   %s\n", s.dim.Render("none"))
	}
	for _, sd := range rules.SpecialDiscounts {
		fmt.Fprintf(&b, "   over %s: %s off\n", Money(sd.Threshold), Money(sd.Amount))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func signedMoney(adj types.Adjustment) string {
	if adj.Amount.IsNegative() {
		return Money(adj.Amount)
	}
	return "+" + Money(adj.Amount)
}
