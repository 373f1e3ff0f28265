package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gym-pricing/internal/errors"
	"gym-pricing/internal/logging"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logging.Logger
	logging.Logger = zap.New(core)
	t.Cleanup(func() { logging.Logger = prev })
	return logs
}

const sampleCatalog = `
plan "Basic" {
  base_cost = 60
  feature "Group Classes" { cost = 25 }
  feature "Crossfit Sessions" { cost = 10.5 }
}

plan "Premium" {
  base_cost = 80
  feature "Personal Trainer" { cost = 40 }
}

rules {
  group_discount_rate    = 0.2
  premium_surcharge_rate = "0.15"
  group_min_members      = 3

  special_discount {
    threshold = 200
    amount    = 20
  }
  special_discount {
    threshold = 500
    amount    = 75
  }
}
`

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"Basic", "Premium", "Family"}, planNames(c.Plans))

	engine, err := c.NewEngine()
	require.NoError(t, err)

	family, err := engine.Find("Family")
	require.NoError(t, err)
	cost, ok := family.FeatureCost("Group Classes")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(15).Equal(cost))
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog), "gym.hcl")
	require.NoError(t, err)

	assert.Equal(t, "gym.hcl", c.Source)
	assert.Equal(t, []string{"Basic", "Premium"}, planNames(c.Plans))

	basic := c.Plans[0]
	assert.True(t, decimal.NewFromInt(60).Equal(basic.BaseCost))
	crossfit, ok := basic.FeatureCost("Crossfit Sessions")
	require.True(t, ok)
	assert.Equal(t, "10.5", crossfit.String())

	assert.Equal(t, "0.2", c.Rules.GroupDiscountRate.String())
	assert.Equal(t, "0.15", c.Rules.PremiumSurchargeRate.String())
	assert.Equal(t, 3, c.Rules.GroupMinMembers)
	assert.Equal(t, "Premium", c.Rules.PremiumPlan)
	require.Len(t, c.Rules.SpecialDiscounts, 2)

	engine, err := c.NewEngine()
	require.NoError(t, err)
	// Evaluation order is by threshold regardless of declaration order.
	assert.Equal(t, "500", engine.Rules().SpecialDiscounts[0].Threshold.String())
}

func TestParseWithoutRulesKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte(`plan "Solo" { base_cost = 30 }`), "solo.hcl")
	require.NoError(t, err)

	assert.Equal(t, "0.1", c.Rules.GroupDiscountRate.String())
	assert.Len(t, c.Rules.SpecialDiscounts, 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		typ  errors.Type
	}{
		{name: "syntax", src: `plan "Basic" {`, typ: errors.TypeParsing},
		{name: "missing base cost", src: `plan "Basic" {}`, typ: errors.TypeParsing},
		{name: "non numeric cost", src: `plan "Basic" { base_cost = "sixty" }`, typ: errors.TypeParsing},
		{name: "negative cost", src: `plan "Basic" { base_cost = -1 }`, typ: errors.TypeInput},
		{name: "duplicate plan", src: `
plan "Basic" { base_cost = 1 }
plan "Basic" { base_cost = 2 }`, typ: errors.TypeInput},
		{name: "duplicate feature", src: `
plan "Basic" {
  base_cost = 1
  feature "Sauna" { cost = 1 }
  feature "Sauna" { cost = 2 }
}`, typ: errors.TypeInput},
		{name: "no plans", src: `rules {}`, typ: errors.TypeInput},
		{name: "invalid rate", src: `
plan "Basic" { base_cost = 1 }
rules { group_discount_rate = 2 }`, typ: errors.TypeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.typ), "unexpected error: %v", err)
		})
	}
}

func TestParseMissingAttributeNamesLocation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "base cost", src: `plan "Basic" {}`, want: "plan Basic: base_cost is required"},
		{name: "feature cost", src: `
plan "Basic" {
  base_cost = 60
  feature "Sauna" {}
}`, want: "plan Basic: feature Sauna: cost is required"},
		{name: "special discount amount", src: `
plan "Basic" { base_cost = 60 }
rules {
  special_discount {
    threshold = 200
  }
}`, want: "special_discount: amount is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "gym.hcl")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeParsing), "unexpected error: %v", err)
			assert.Contains(t, err.Error(), "gym.hcl:")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewEngineWarnsWithoutPremiumPlan(t *testing.T) {
	logs := observeLogs(t)

	_, err := Default().NewEngine()
	require.NoError(t, err)
	assert.Zero(t, logs.Len())

	c, err := Parse([]byte(`plan "Student" { base_cost = 30 }`), "gym.hcl")
	require.NoError(t, err)
	_, err = c.NewEngine()
	require.NoError(t, err)

	warnings := logs.FilterMessage("premium plan not in catalog, surcharge will never apply").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Premium", warnings[0].ContextMap()["premium_plan"])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gym.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Plans, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
