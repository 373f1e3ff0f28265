// Package cmd provides the CLI commands for gym-pricing.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gym-pricing/core/catalog"
	"gym-pricing/core/pricing"
	"gym-pricing/internal/config"
	"gym-pricing/internal/logging"
)

const version = "0.1.0"

// skipConfigLoad marks commands that must run even when the config file is unreadable
const skipConfigLoad = "skip-config-load"

// app carries the state shared by every subcommand of one invocation
type app struct {
	cfgFile     string
	catalogPath string
	verbose     bool

	cfg *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gym-pricing",
		Short: "Price gym memberships",
		Long: `gym-pricing computes membership prices from a catalog of plans and
optional features, applying the premium surcharge, group discount and
special offers in a fixed order.

Examples:
  gym-pricing plans
  gym-pricing quote --plan Basic --feature "Group Classes" --members 4
  gym-pricing quote --plan Premium --feature Sauna --format json
  gym-pricing session`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.gym-pricing.json)")
	root.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "HCL plan catalog (default is the built-in catalog)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newPlansCmd(a),
		newQuoteCmd(a),
		newSessionCmd(a),
		newRulesCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.DefaultPath()
}

func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if cmd.Annotations[skipConfigLoad] == "" {
		loaded, err := config.Load(a.configPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if a.catalogPath != "" {
		cfg.Catalog.Path = a.catalogPath
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	a.cfg = cfg
	return nil
}

// engine loads the configured catalog and registers its plans.
func (a *app) engine() (*pricing.Engine, error) {
	cat := catalog.Default()
	if path := a.cfg.Catalog.Path; path != "" {
		loaded, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}
	if !cat.RulesFromFile {
		cat.Rules = a.cfg.Pricing.Rules
	}

	return cat.NewEngine(
		pricing.WithLogger(logging.Named("pricing")),
		pricing.WithCurrency(a.cfg.Pricing.Currency),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gym-pricing version %s\n", version)
		},
	}
}
