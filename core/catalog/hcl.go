// Package catalog - HCL catalog files
package catalog

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"go.uber.org/zap"

	"gym-pricing/core/membership"
	"gym-pricing/core/pricing"
	"gym-pricing/internal/errors"
	"gym-pricing/internal/logging"
)

type fileSchema struct {
	Plans []planBlock  `hcl:"plan,block"`
	Rules *rulesBlock `hcl:"rules,block"`
}

type planBlock struct {
	Name     string         `hcl:"name,label"`
	BaseCost hcl.Expression `hcl:"base_cost"`
	Features []featureBlock `hcl:"feature,block"`
}

type featureBlock struct {
	Name string         `hcl:"name,label"`
	Cost hcl.Expression `hcl:"cost"`
}

type rulesBlock struct {
	GroupDiscountRate    hcl.Expression  `hcl:"group_discount_rate,optional"`
	PremiumSurchargeRate hcl.Expression  `hcl:"premium_surcharge_rate,optional"`
	GroupMinMembers      *int            `hcl:"group_min_members,optional"`
	PremiumPlan          *string         `hcl:"premium_plan,optional"`
	SpecialDiscounts     []discountBlock `hcl:"special_discount,block"`
}

type discountBlock struct {
	Threshold hcl.Expression `hcl:"threshold"`
	Amount    hcl.Expression `hcl:"amount"`
}

// Load reads and parses an HCL catalog file.
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read catalog", err).WithContext("path", path)
	}
	return Parse(src, path)
}

// Parse decodes an HCL catalog. A missing rules block keeps the default
// rules; a present one replaces the special discount table with its own
// special_discount blocks.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("failed to parse catalog", diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, errors.Parsing("failed to decode catalog", diags)
	}

	c := &Catalog{Source: filename, Rules: pricing.DefaultRules()}
	for _, pb := range schema.Plans {
		plan, err := pb.decode()
		if err != nil {
			return nil, err
		}
		c.Plans = append(c.Plans, plan)
	}

	if schema.Rules != nil {
		rules, err := schema.Rules.decode(c.Rules)
		if err != nil {
			return nil, err
		}
		c.Rules = rules
		c.RulesFromFile = true
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	logging.Debug("catalog loaded",
		zap.String("source", filename),
		zap.Strings("plans", planNames(c.Plans)),
	)
	return c, nil
}

func (pb planBlock) decode() (*membership.Plan, error) {
	base, err := decimalAttr(pb.BaseCost, "base_cost")
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, missingAttr(pb.BaseCost, "plan "+pb.Name, "base_cost")
	}

	seen := make(map[string]bool, len(pb.Features))
	features := make([]membership.Feature, 0, len(pb.Features))
	for _, fb := range pb.Features {
		if seen[fb.Name] {
			return nil, errors.Inputf("plan %s: feature %s is defined more than once", pb.Name, fb.Name)
		}
		seen[fb.Name] = true

		cost, err := decimalAttr(fb.Cost, "cost")
		if err != nil {
			return nil, err
		}
		if cost == nil {
			return nil, missingAttr(fb.Cost, fmt.Sprintf("plan %s: feature %s", pb.Name, fb.Name), "cost")
		}
		features = append(features, membership.Feature{Name: fb.Name, Cost: *cost})
	}
	return membership.NewPlan(pb.Name, *base, features...), nil
}

func (rb rulesBlock) decode(rules pricing.Rules) (pricing.Rules, error) {
	if v, err := decimalAttr(rb.GroupDiscountRate, "group_discount_rate"); err != nil {
		return rules, err
	} else if v != nil {
		rules.GroupDiscountRate = *v
	}
	if v, err := decimalAttr(rb.PremiumSurchargeRate, "premium_surcharge_rate"); err != nil {
		return rules, err
	} else if v != nil {
		rules.PremiumSurchargeRate = *v
	}
	if rb.GroupMinMembers != nil {
		rules.GroupMinMembers = *rb.GroupMinMembers
	}
	if rb.PremiumPlan != nil {
		rules.PremiumPlan = *rb.PremiumPlan
	}

	rules.SpecialDiscounts = make([]pricing.SpecialDiscount, 0, len(rb.SpecialDiscounts))
	for _, db := range rb.SpecialDiscounts {
		threshold, err := decimalAttr(db.Threshold, "threshold")
		if err != nil {
			return rules, err
		}
		amount, err := decimalAttr(db.Amount, "amount")
		if err != nil {
			return rules, err
		}
		if threshold == nil {
			return rules, missingAttr(db.Threshold, "special_discount", "threshold")
		}
		if amount == nil {
			return rules, missingAttr(db.Amount, "special_discount", "amount")
		}
		rules.SpecialDiscounts = append(rules.SpecialDiscounts, pricing.SpecialDiscount{
			Threshold: *threshold,
			Amount:    *amount,
		})
	}
	return rules, nil
}

// missingAttr reports a required attribute that was left out. gohcl hands
// omitted expression fields over as null expressions positioned at the
// enclosing block.
func missingAttr(expr hcl.Expression, owner, name string) error {
	rng := expr.Range()
	return errors.Newf(errors.TypeParsing, "%s: %s: %s is required", rng.String(), owner, name)
}

// decimalAttr evaluates a constant numeric expression without going through
// float64. It returns nil for an omitted optional attribute.
func decimalAttr(expr hcl.Expression, name string) (*decimal.Decimal, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, errors.Parsing(fmt.Sprintf("failed to evaluate %s", name), diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, errors.Inputf("%s must be a constant", name)
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		rng := expr.Range()
		return nil, errors.Wrap(errors.TypeParsing, fmt.Sprintf("%s: %s must be a number", rng.String(), name), err)
	}

	d, err := decimal.NewFromString(num.AsBigFloat().Text('f', -1))
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("invalid %s", name), err)
	}
	return &d, nil
}
