// Package cmd - quote, plans and rules commands
package cmd

import (
	"github.com/spf13/cobra"

	"gym-pricing/core/output"
	"gym-pricing/internal/errors"
)

func (a *app) formatter(format string) (output.Formatter, error) {
	if format == "" {
		format = a.cfg.Output.DefaultFormat
	}
	return output.New(format)
}

func newQuoteCmd(a *app) *cobra.Command {
	var (
		planName string
		features []string
		members  int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a membership selection",
		Long: `Price one plan with the given features for a number of members and print
the itemised quote.

Examples:
  gym-pricing quote --plan Basic
  gym-pricing quote --plan Basic --feature "Group Classes" --members 4
  gym-pricing quote --plan Premium --feature "Personal Trainer" --feature Sauna --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if members < 1 {
				return errors.Inputf("--members must be at least 1, got %d", members)
			}
			f, err := a.formatter(format)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			registered, err := engine.Find(planName)
			if err != nil {
				return err
			}
			plan := registered.Clone()
			for _, name := range features {
				if err := plan.AddFeature(name); err != nil {
					return err
				}
			}

			quote, err := engine.Quote(plan, members)
			if err != nil {
				return err
			}
			return f.RenderQuote(cmd.OutOrStdout(), quote)
		},
	}

	cmd.Flags().StringVarP(&planName, "plan", "p", "", "membership plan name")
	cmd.Flags().StringArrayVarP(&features, "feature", "f", nil, "feature to add (repeatable)")
	cmd.Flags().IntVarP(&members, "members", "m", 1, "number of members subscribing together")
	cmd.Flags().StringVarP(&format, "format", "o", "", "output format (cli, json, yaml, markdown)")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newPlansCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List membership plans and their features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter(format)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			return f.RenderPlans(cmd.OutOrStdout(), output.NewPlanViews(engine.Plans()))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "", "output format (cli, json, yaml, markdown)")
	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the active surcharge and discount rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter(format)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			return f.RenderRules(cmd.OutOrStdout(), engine.Rules())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "", "output format (cli, json, yaml, markdown)")
	return cmd
}
