package main

import (
	"fmt"

	"github.com/aristath/flatbook/internal/modules/optimization"
	"github.com/aristath/flatbook/internal/modules/pricing"
	"github.com/aristath/flatbook/internal/modules/reporting"
	"github.com/aristath/flatbook/internal/modules/routes"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every route with its long and short profit per barrel",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadMarket(state.cfg)
		if err != nil {
			return err
		}
		opts, err := state.cfg.PolicyOptions()
		if err != nil {
			return err
		}

		calc := optimization.NewProfitCalculator(pricing.NewPricer(data), opts.Rule)
		all := routes.Enumerate(data.Calendar())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-28s %12s %12s\n", "ROUTE", "LONG $/BBL", "SHORT $/BBL")
		for _, r := range all {
			c := calc.Coefficients(r)
			fmt.Fprintf(out, "%-28s %12s %12s\n", r.Key(), reporting.PerBarrel(c.Long), reporting.PerBarrel(c.Short))
		}
		fmt.Fprintf(out, "%d routes under %s\n", len(all), opts.Name())
		return nil
	},
}
