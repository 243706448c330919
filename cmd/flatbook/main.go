// Package main is the flatbook command line: it builds the crude storage
// and transport book as a linear or mixed-integer program, solves it and
// writes the trade ledger.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/flatbook/internal/config"
	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/aristath/flatbook/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app is the state shared by every command after configuration is loaded.
type app struct {
	cfg *config.Config
	// log is the application logger; solverLog is raised to debug when
	// solver.verbose is set.
	log       zerolog.Logger
	solverLog zerolog.Logger
}

var state app

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flatbook",
	Short: "Flat-book crude storage and transport optimizer",
	Long: `flatbook enumerates every buy/hold/deliver route for WTI and WTS crude
between Midland, Houston and the refinery, and solves for the long and
short volumes that maximize profit while keeping each product's book flat
within pipeline, capacity and storage limits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if months, _ := cmd.Flags().GetString("months"); months != "" {
			cfg.Months = months
		}
		if policy, _ := cmd.Flags().GetString("policy"); policy != "" {
			cfg.Policy = policy
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		state.cfg = cfg
		state.log, state.solverLog = newLoggers(cfg)
		state.log.Debug().Str("config_file", cfg.File).Str("policy", cfg.Policy).Msg("Configuration loaded")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./flatbook.yaml, ~/.flatbook/flatbook.yaml)")
	rootCmd.PersistentFlags().String("months", "", "comma-separated calendar subset, e.g. May,June,July")
	rootCmd.PersistentFlags().String("policy", "", "formulation policy override (symmetric-lp, asymmetric-mip)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(scenarioCmd)
}

// newLoggers builds the application logger and the solver logger. With
// solver.verbose the global level drops to debug and only the solver
// logger keeps it.
func newLoggers(cfg *config.Config) (zerolog.Logger, zerolog.Logger) {
	level := cfg.Log.Level
	if cfg.Solver.Verbose {
		level = "debug"
	}
	base := logger.New(logger.Config{Level: level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(base)

	appLog := base.Level(logger.ParseLevel(cfg.Log.Level))
	return appLog, base
}

// loadMarket returns the scenario data (or the defaults) restricted to the
// configured months.
func loadMarket(cfg *config.Config) (*market.Data, error) {
	data := market.Default()
	if cfg.Scenario != "" {
		var err error
		if data, err = market.LoadScenario(cfg.Scenario); err != nil {
			return nil, err
		}
	}
	if names := cfg.MonthNames(); len(names) > 0 {
		return data.WithMonths(names...)
	}
	return data, nil
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "flatbook %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}
