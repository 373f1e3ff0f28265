package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gym-pricing/core/membership"
	"gym-pricing/core/types"
	"gym-pricing/internal/errors"
)

// Engine holds the plan registry and prices selections against its Rules.
// It carries no per-request state; the feature selection lives on the Plan.
type Engine struct {
	plans    map[string]*membership.Plan
	order    []string
	rules    Rules
	currency types.Currency
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCurrency sets the currency stamped on quotes
func WithCurrency(c types.Currency) Option {
	return func(e *Engine) {
		if c != "" {
			e.currency = c
		}
	}
}

// WithClock overrides the quote timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides quote ID generation
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an engine with an empty registry.
func NewEngine(rules Rules, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		plans:    make(map[string]*membership.Plan),
		rules:    rules.clone(),
		currency: types.CurrencyUSD,
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules returns a copy of the engine's rules, special discounts highest first.
func (e *Engine) Rules() Rules {
	return e.rules.clone()
}

// Register adds a plan, silently replacing any plan with the same name.
func (e *Engine) Register(plan *membership.Plan) {
	if _, ok := e.plans[plan.Name]; !ok {
		e.order = append(e.order, plan.Name)
	} else {
		e.logger.Debug("replacing plan", zap.String("plan", plan.Name))
	}
	e.plans[plan.Name] = plan
}

// Find returns the registered plan called name.
func (e *Engine) Find(name string) (*membership.Plan, error) {
	plan, ok := e.plans[name]
	if !ok {
		return nil, errors.UnknownPlan(name)
	}
	return plan, nil
}

// Plans returns the registered plans in registration order.
func (e *Engine) Plans() []*membership.Plan {
	out := make([]*membership.Plan, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.plans[name])
	}
	return out
}

// Price returns the total cost of plan's current selection for members
// people. Rules apply in a fixed order: premium surcharge, group discount,
// then at most one special discount. A nil plan prices to zero.
func (e *Engine) Price(plan *membership.Plan, members int) decimal.Decimal {
	if plan == nil {
		return decimal.Zero
	}
	return e.calculate(plan, members).Total
}

// Quote prices the selection like Price and returns every step as a line item.
func (e *Engine) Quote(plan *membership.Plan, members int) (*types.Quote, error) {
	if plan == nil {
		return nil, errors.Input("plan is required")
	}
	if members < 1 {
		return nil, errors.Inputf("number of members must be at least 1, got %d", members)
	}

	q := e.calculate(plan, members)
	q.ID = e.newID()
	q.CreatedAt = e.now().UTC()

	e.logger.Info("membership priced",
		zap.String("quote_id", q.ID),
		zap.String("plan", q.Plan),
		zap.Int("members", members),
		zap.Strings("features", q.FeatureNames()),
		zap.String("total", q.Total.String()),
	)
	return q, nil
}

// Confirm prices the selection and returns the total only when accepted.
// A nil plan is never confirmed.
func (e *Engine) Confirm(plan *membership.Plan, members int, accepted bool) (decimal.Decimal, bool) {
	if plan == nil {
		return decimal.Zero, false
	}
	total := e.Price(plan, members)
	if !accepted {
		e.logger.Debug("membership not confirmed", zap.String("plan", plan.Name))
		return decimal.Zero, false
	}
	return total, true
}

func (e *Engine) calculate(plan *membership.Plan, members int) *types.Quote {
	q := &types.Quote{
		Plan:     plan.Name,
		BaseCost: plan.BaseCost,
		Members:  members,
		Currency: e.currency,
	}
	for _, name := range plan.SelectedFeatures() {
		cost, _ := plan.FeatureCost(name)
		q.Features = append(q.Features, types.LineItem{Label: name, Amount: cost})
	}

	count := decimal.NewFromInt(int64(members))
	q.PerMember = plan.ComputeBaseCost()
	q.Subtotal = q.PerMember.Mul(count)
	q.Total = q.Subtotal

	if plan.Name == e.rules.PremiumPlan && plan.HasSelection() {
		rate := e.rules.PremiumSurchargeRate
		q.Apply(types.Adjustment{
			Kind:    types.AdjustmentPremiumSurcharge,
			Label:   fmt.Sprintf("%s%% surcharge for %s plan with features", percent(rate), plan.Name),
			Rate:    &rate,
			Amount:  q.Total.Mul(rate),
			Formula: fmt.Sprintf("%s * %s", q.Total.String(), rate.String()),
		})
		e.logger.Debug("premium surcharge applied", zap.String("plan", plan.Name), zap.String("rate", rate.String()))
	}

	if members >= e.rules.GroupMinMembers {
		rate := e.rules.GroupDiscountRate
		q.Apply(types.Adjustment{
			Kind:    types.AdjustmentGroupDiscount,
			Label:   fmt.Sprintf("%s%% group discount for %d members", percent(rate), members),
			Rate:    &rate,
			Amount:  q.Total.Mul(rate).Neg(),
			Formula: fmt.Sprintf("-(%s * %s)", q.Total.String(), rate.String()),
		})
		e.logger.Debug("group discount applied", zap.Int("members", members), zap.String("rate", rate.String()))
	}

	if sd, ok := e.rules.specialDiscountFor(q.Total); ok {
		q.Apply(types.Adjustment{
			Kind:      types.AdjustmentSpecialDiscount,
			Label:     fmt.Sprintf("Special discount of %s for total over %s", sd.Amount.StringFixed(2), sd.Threshold.StringFixed(2)),
			Threshold: &sd.Threshold,
			Amount:    sd.Amount.Neg(),
			Formula:   fmt.Sprintf("%s > %s: -%s", q.Total.String(), sd.Threshold.String(), sd.Amount.String()),
		})
		e.logger.Debug("special discount applied", zap.String("threshold", sd.Threshold.String()), zap.String("amount", sd.Amount.String()))
	}

	return q
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}
