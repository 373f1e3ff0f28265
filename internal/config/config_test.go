package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-pricing/core/types"
	"gym-pricing/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Catalog.Path = "/etc/gym/catalog.hcl"
	cfg.Output.DefaultFormat = "json"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/gym/catalog.hcl", loaded.Catalog.Path)
	assert.Equal(t, "json", loaded.Output.DefaultFormat)
	assert.True(t, cfg.Pricing.Rules.GroupDiscountRate.Equal(loaded.Pricing.Rules.GroupDiscountRate))
	assert.Len(t, loaded.Pricing.Rules.SpecialDiscounts, 2)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pricing":{"rules":{"group_discount_rate":"0.25"}}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.25", cfg.Pricing.Rules.GroupDiscountRate.String())
	assert.Equal(t, "0.15", cfg.Pricing.Rules.PremiumSurchargeRate.String())
	assert.Equal(t, types.CurrencyUSD, cfg.Pricing.Currency)
}

func TestLoadRejectsInvalidRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pricing":{"rules":{"premium_surcharge_rate":3}}}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("GYM_PRICING_CATALOG", "plans.hcl")
	t.Setenv("GYM_PRICING_FORMAT", "yaml")
	t.Setenv("GYM_PRICING_CURRENCY", "EUR")
	t.Setenv("GYM_PRICING_LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "plans.hcl", cfg.Catalog.Path)
	assert.Equal(t, "yaml", cfg.Output.DefaultFormat)
	assert.Equal(t, types.CurrencyEUR, cfg.Pricing.Currency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestApplyEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GYM_PRICING_FORMAT=markdown\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GYM_PRICING_FORMAT") })

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "markdown", cfg.Output.DefaultFormat)
}

// testChdir is equivalent to testing.T.Chdir (Go 1.24+): it changes the
// working directory and restores the previous one when the test ends.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
