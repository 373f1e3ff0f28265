// Package ui - Interactive membership session
// A bubbletea program that walks a customer through choosing a plan,
// member count and features, shows the itemised quote and records
// whether it was confirmed.
package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gym-pricing/core/membership"
	"gym-pricing/core/output"
	"gym-pricing/core/pricing"
	"gym-pricing/core/types"
	"gym-pricing/internal/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))
)

// step is the prompt the session is waiting on
type step int

const (
	stepPlan step = iota
	stepMembers
	stepFeatures
	stepConfirm
	stepContinue
	stepDone
)

// Result records the outcome of one priced selection
type Result struct {
	Quote     *types.Quote
	Confirmed bool
	Total     decimal.Decimal
}

// Model is the bubbletea model for a membership session.
type Model struct {
	engine *pricing.Engine
	plans  []*membership.Plan
	logger *zap.Logger

	step    step
	plan    *membership.Plan
	members int
	quote   *types.Quote
	input   string
	err     string
	notice  string

	results []Result
}

// New returns a session over the engine's registered plans.
func New(engine *pricing.Engine, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		engine: engine,
		plans:  engine.Plans(),
		logger: logger,
	}
}

// Results returns every quote produced during the session.
func (m Model) Results() []Result {
	return m.results
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update processes key presses; Enter submits the typed answer.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.step = stepDone
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(key.Runes)
		return m, nil
	case tea.KeyEnter:
		answer := strings.TrimSpace(m.input)
		m.input = ""
		m.err = ""
		m = m.submit(answer)
		if m.step == stepDone {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m Model) submit(answer string) Model {
	switch m.step {
	case stepPlan:
		n, ok := m.choice(answer, len(m.plans))
		if !ok {
			return m
		}
		// Selections live on a per-session copy of the plan.
		m.plan = m.plans[n].Clone()
		m.notice = fmt.Sprintf("You have chosen %s Plan for your membership.", m.plan.Name)
		m.step = stepMembers

	case stepMembers:
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 {
			m.err = "Invalid number of members. Please enter a whole number of at least 1."
			return m
		}
		m.members = n
		m.notice = ""
		m.step = stepFeatures

	case stepFeatures:
		if strings.EqualFold(answer, "done") {
			return m.price()
		}
		available := m.plan.AvailableFeatures()
		n, ok := m.choice(answer, len(available))
		if !ok {
			return m
		}
		if err := m.plan.AddFeature(available[n].Name); err != nil {
			m.err = err.Error()
			return m
		}
		m.notice = fmt.Sprintf("Adding %s feature to your membership.", available[n].Name)
		if len(m.plan.AvailableFeatures()) == 0 {
			return m.price()
		}

	case stepConfirm:
		accepted, ok := yesNo(answer)
		if !ok {
			m.err = "Please answer yes or no."
			return m
		}
		total, confirmed := m.engine.Confirm(m.plan, m.members, accepted)
		m.results = append(m.results, Result{Quote: m.quote, Confirmed: confirmed, Total: total})
		if confirmed {
			m.notice = "Membership confirmed. Total cost: " + output.Money(total)
		} else {
			m.notice = "Membership not confirmed."
		}
		m.logger.Info("membership decision",
			zap.String("quote_id", m.quote.ID),
			zap.Bool("confirmed", confirmed),
		)
		m.plan.ClearSelection()
		m.step = stepContinue

	case stepContinue:
		again, ok := yesNo(answer)
		if !ok {
			m.err = "Please answer yes or no."
			return m
		}
		m.plan, m.quote, m.members = nil, nil, 0
		if again {
			m.notice = ""
			m.step = stepPlan
		} else {
			m.notice = "Goodbye!"
			m.step = stepDone
		}
	}
	return m
}

func (m Model) price() Model {
	q, err := m.engine.Quote(m.plan, m.members)
	if err != nil {
		m.err = err.Error()
		return m
	}
	m.quote = q
	m.notice = ""
	m.step = stepConfirm
	return m
}

// choice parses a 1-based menu number, setting the error line when invalid.
func (m *Model) choice(answer string, n int) (int, bool) {
	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > n {
		m.err = fmt.Sprintf("Invalid selection. Please select a number between 1 and %d.", n)
		return 0, false
	}
	return i - 1, true
}

func yesNo(answer string) (bool, bool) {
	switch strings.ToLower(answer) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	return false, false
}

// View renders the current prompt
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("WELCOME TO YOUR FAVOURITE GYM"))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(successStyle.Render(m.notice))
		b.WriteString("\n\n")
	}

	switch m.step {
	case stepPlan:
		b.WriteString("Available Memberships:\n")
		for i, p := range m.plans {
			fmt.Fprintf(&b, "%d. %s - Base Cost: %s\n", i+1, p.Name, output.Money(p.BaseCost))
		}
		rules := m.engine.Rules()
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(fmt.Sprintf(
			"ATTENTION: %d or more members signing up for the same plan together get a %s%% discount.",
			rules.GroupMinMembers, rules.GroupDiscountRate.Mul(decimal.NewFromInt(100)).String())))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("Select a membership plan: "))

	case stepMembers:
		b.WriteString(promptStyle.Render("Enter the number of members to subscribe: "))

	case stepFeatures:
		b.WriteString("Available Features:\n")
		for i, f := range m.plan.AvailableFeatures() {
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, f.Name, output.Money(f.Cost))
		}
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Select a feature to add (or 'done' to finish): "))

	case stepConfirm:
		var quote strings.Builder
		if err := output.NewCLIFormatter().RenderQuote(&quote, m.quote); err != nil {
			b.WriteString(errorStyle.Render(err.Error()))
		}
		b.WriteString(quote.String())
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Do you want to confirm this membership? (yes/no): "))

	case stepContinue:
		b.WriteString(promptStyle.Render("Do you want to continue in the system? (yes/no): "))

	case stepDone:
		return b.String()
	}

	b.WriteString(m.input)
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter to submit • esc to quit"))
	b.WriteString("\n")
	return b.String()
}

// Run drives a session over in/out until the customer leaves.
func Run(ctx context.Context, engine *pricing.Engine, logger *zap.Logger, in io.Reader, out io.Writer) ([]Result, error) {
	p := tea.NewProgram(New(engine, logger),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(Model)
	if !ok {
		return nil, errors.Internal("session ended with an unexpected model", fmt.Errorf("got %T", final))
	}
	return m.Results(), nil
}
