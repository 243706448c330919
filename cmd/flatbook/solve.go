package main

import (
	"fmt"
	"os"

	"github.com/aristath/flatbook/internal/metrics"
	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/aristath/flatbook/internal/modules/optimization"
	"github.com/aristath/flatbook/internal/modules/planning"
	"github.com/aristath/flatbook/internal/modules/reporting"
	"github.com/aristath/flatbook/internal/solver"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Formulate and solve the book, then write the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := state.cfg, state.log

		data, err := loadMarket(cfg)
		if err != nil {
			return err
		}
		opts, err := cfg.PolicyOptions()
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("write-lp"); path != "" {
			if err := writeLP(path, data, opts); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("LP file written")
		}

		var recorder planning.Recorder
		var m *metrics.Metrics
		if cfg.Metrics.Textfile != "" {
			m = metrics.New()
			recorder = m
		}

		engine := solver.New(cfg.SolverOptions(), state.solverLog)
		res, err := planning.NewService(engine, recorder, log).Run(cmd.Context(), data, opts)
		if err != nil {
			return err
		}

		sink, err := reporting.NewSink(cfg.Sink, cmd.OutOrStdout(), cfg.Output)
		if err != nil {
			return err
		}
		if err := sink.Write(res.Plan); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if cfg.Sink != reporting.KindConsole {
			log.Info().Str("sink", cfg.Sink).Str("path", cfg.Output).Msg("Report written")
		}

		if m != nil {
			if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				return err
			}
			log.Debug().Str("path", cfg.Metrics.Textfile).Msg("Metrics textfile written")
		}
		if len(res.Violations) > 0 {
			return fmt.Errorf("plan failed %d checks", len(res.Violations))
		}
		return nil
	},
}

func init() {
	solveCmd.Flags().String("write-lp", "", "also write the formulated problem in LP format to this path")
}

// writeLP formulates the book again and writes it in LP format.
func writeLP(path string, data *market.Data, opts optimization.Options) error {
	f, err := optimization.Formulate(data, opts, zerolog.Nop())
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create LP file: %w", err)
	}
	if err := f.Problem.WriteLP(out); err != nil {
		out.Close()
		return fmt.Errorf("failed to write LP file: %w", err)
	}
	return out.Close()
}
