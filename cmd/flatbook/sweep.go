package main

import (
	"fmt"

	"github.com/aristath/flatbook/internal/modules/planning"
	"github.com/aristath/flatbook/internal/modules/reporting"
	"github.com/aristath/flatbook/internal/modules/sweep"
	"github.com/aristath/flatbook/internal/solver"
	"github.com/aristath/flatbook/internal/utils"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Solve the book under a range of forecast adjustments",
	Long: `sweep adds each shift to every month's forecast adjustment, solves
the resulting scenarios in parallel and prints the optimal profit per shift.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := state.cfg, state.log

		shifts, err := cfg.SweepShifts()
		if err != nil {
			return err
		}
		if raw, _ := cmd.Flags().GetString("shifts"); raw != "" {
			if shifts, err = utils.ParseFloatCSV(raw); err != nil {
				return fmt.Errorf("invalid --shifts: %w", err)
			}
		}
		data, err := loadMarket(cfg)
		if err != nil {
			return err
		}
		opts, err := cfg.PolicyOptions()
		if err != nil {
			return err
		}

		svc := planning.NewService(solver.New(cfg.SolverOptions(), state.solverLog), nil, log)
		points, err := sweep.New(svc, cfg.Sweep.Workers, log).Run(cmd.Context(), data, shifts, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%10s  %-10s  %20s  %6s\n", "SHIFT", "STATUS", "PROFIT", "TRADES")
		for _, p := range points {
			fmt.Fprintf(out, "%10.4f  %-10s  %20s  %6d\n", p.Shift, p.Status, "$"+reporting.Money(p.Objective), p.Trades)
		}
		if !sweep.Monotone(points, planning.CheckTolerance) {
			log.Warn().Msg("Optimal profit decreased as the forecast rose")
		}
		return nil
	},
}

func init() {
	sweepCmd.Flags().String("shifts", "", "comma-separated $/bbl forecast shifts (default from sweep.shifts)")
}
