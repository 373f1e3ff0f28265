// Package catalog - Catalog validation
package catalog

import (
	"fmt"

	"gym-pricing/core/membership"
	"gym-pricing/internal/errors"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(*Catalog) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateNotEmpty,
		validateUniquePlans,
		validatePlans,
		validateRules,
	}
}

// Validate runs the default rules and returns the first failure.
func (c *Catalog) Validate() error {
	for _, rule := range DefaultValidationRules() {
		if err := rule(c); err != nil {
			if c.Source != "" {
				return errors.Wrap(errors.TypeInput, fmt.Sprintf("invalid catalog %s", c.Source), err)
			}
			return err
		}
	}
	return nil
}

func validateNotEmpty(c *Catalog) error {
	if len(c.Plans) == 0 {
		return errors.Input("catalog defines no plans")
	}
	return nil
}

func validateUniquePlans(c *Catalog) error {
	seen := make(map[string]bool, len(c.Plans))
	for _, p := range c.Plans {
		if seen[p.Name] {
			return errors.Inputf("plan %s is defined more than once", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func validatePlans(c *Catalog) error {
	for _, p := range c.Plans {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateRules(c *Catalog) error {
	return c.Rules.Validate()
}

// planNames lists plan names in catalog order
func planNames(plans []*membership.Plan) []string {
	names := make([]string, len(plans))
	for i, p := range plans {
		names[i] = p.Name
	}
	return names
}
