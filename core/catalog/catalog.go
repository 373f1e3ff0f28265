// Package catalog - Membership plan catalog
// Holds the plans and pricing rules an engine is built from, either the
// built-in gym catalog or one loaded from an HCL file.
package catalog

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gym-pricing/core/membership"
	"gym-pricing/core/pricing"
	"gym-pricing/internal/logging"
)

// Catalog is a set of plans plus the rules used to price them
type Catalog struct {
	// Source is the file the catalog was loaded from, empty for the built-in one
	Source string

	Plans []*membership.Plan
	Rules pricing.Rules

	// RulesFromFile is set when the source declared its own rules block
	RulesFromFile bool
}

// Default returns the gym's built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Plans: []*membership.Plan{
			membership.NewPlan("Basic", decimal.NewFromInt(60),
				membership.Feature{Name: "Group Classes", Cost: decimal.NewFromInt(25)},
				membership.Feature{Name: "Crossfit Sessions", Cost: decimal.NewFromInt(10)},
			),
			membership.NewPlan("Premium", decimal.NewFromInt(80),
				membership.Feature{Name: "Personal Trainer", Cost: decimal.NewFromInt(40)},
				membership.Feature{Name: "Sauna", Cost: decimal.NewFromInt(10)},
				membership.Feature{Name: "Nutrition Plan", Cost: decimal.NewFromInt(20)},
			),
			membership.NewPlan("Family", decimal.NewFromInt(100),
				membership.Feature{Name: "Tennis Court", Cost: decimal.NewFromInt(10)},
				membership.Feature{Name: "Group Classes", Cost: decimal.NewFromInt(15)},
			),
		},
		Rules: pricing.DefaultRules(),
	}
}

// NewEngine validates the catalog and registers every plan on a new engine.
func (c *Catalog) NewEngine(opts ...pricing.Option) (*pricing.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	engine, err := pricing.NewEngine(c.Rules, opts...)
	if err != nil {
		return nil, err
	}
	premium := false
	for _, p := range c.Plans {
		engine.Register(p)
		premium = premium || p.Name == c.Rules.PremiumPlan
	}
	if !premium {
		logging.Warn("premium plan not in catalog, surcharge will never apply",
			zap.String("premium_plan", c.Rules.PremiumPlan),
			zap.Strings("plans", planNames(c.Plans)),
		)
	}
	return engine, nil
}
