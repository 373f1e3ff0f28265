package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-pricing/internal/errors"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GYM_PRICING_CATALOG", "")
	t.Setenv("GYM_PRICING_FORMAT", "")
	t.Setenv("GYM_PRICING_CURRENCY", "")
	testChdir(t, t.TempDir())

	cfg := filepath.Join(t.TempDir(), "config.json")
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gym-pricing version "+version+"\n", out)
}

func TestPlans(t *testing.T) {
	out, err := executeCommand(t, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Basic - Base Cost: $60.00")
	assert.Contains(t, out, "   - Feature: Personal Trainer, Cost: $40.00")
	assert.Contains(t, out, "3. Family - Base Cost: $100.00")
}

func TestQuoteGroupAndSpecialDiscount(t *testing.T) {
	out, err := executeCommand(t, "quote", "--plan", "Basic", "--feature", "Group Classes", "--members", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Membership: Basic")
	assert.Contains(t, out, "Subtotal: $85.00 x 4 = $340.00")
	assert.Contains(t, out, "Total Cost: $286.00")
}

func TestQuoteJSON(t *testing.T) {
	out, err := executeCommand(t, "quote", "-p", "Premium", "-f", "Personal Trainer", "-f", "Sauna", "-m", "5", "-o", "json")
	require.NoError(t, err)

	var quote struct {
		Plan    string `json:"plan"`
		Members int    `json:"members"`
		Total   string `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.Equal(t, "Premium", quote.Plan)
	assert.Equal(t, 5, quote.Members)
	assert.Equal(t, "622.75", quote.Total)
}

func TestQuoteErrors(t *testing.T) {
	_, err := executeCommand(t, "quote", "--plan", "Gold")
	assert.True(t, errors.IsUnknownPlan(err))

	_, err = executeCommand(t, "quote", "--plan", "Basic", "--feature", "Sauna")
	assert.True(t, errors.IsUnknownFeature(err))

	_, err = executeCommand(t, "quote", "--plan", "Basic", "--members", "0")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = executeCommand(t, "quote", "--plan", "Basic", "--format", "xml")
	assert.Error(t, err)

	_, err = executeCommand(t, "quote")
	assert.Error(t, err)
}

func TestQuoteWithCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gym.hcl")
	src := `
plan "Student" {
  base_cost = 30

  feature "Pool" {
    cost = 5
  }
}

rules {
  group_discount_rate = 0.2
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	out, err := executeCommand(t, "--catalog", path, "quote", "--plan", "Student", "--feature", "Pool", "--members", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Cost: $56.00")

	_, err = executeCommand(t, "--catalog", path, "quote", "--plan", "Basic")
	assert.True(t, errors.IsUnknownPlan(err))
}

func TestRules(t *testing.T) {
	out, err := executeCommand(t, "rules", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "premium_plan: Premium")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gym.json")

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Wrote "+path)
	assert.FileExists(t, path)

	root = NewRootCmd()
	root.SetOut(buf)
	root.SetArgs([]string{"--config", path, "config", "init"})
	assert.Error(t, root.Execute())

	root = NewRootCmd()
	root.SetOut(buf)
	root.SetArgs([]string{"--config", path, "config", "init", "--force"})
	assert.NoError(t, root.Execute())
}

func TestConfigInitRewritesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gym.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"--config", path, "quote", "--plan", "Basic"})
	err := root.Execute()
	assert.True(t, errors.IsType(err, errors.TypeConfig), "unexpected error: %v", err)

	root = NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"--config", path, "config", "init", "--force"})
	require.NoError(t, root.Execute())

	root = NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--config", path, "config", "show"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), `"default_format": "cli"`)
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
