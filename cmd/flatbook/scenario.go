package main

import (
	"fmt"
	"os"

	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Work with market scenario files",
}

var scenarioExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the market tables as a scenario YAML template",
	Long: `export writes the built-in May-December tables (or the configured
scenario) to path, or to stdout when no path is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadMarket(state.cfg)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return market.WriteScenario(cmd.OutOrStdout(), data)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create scenario file: %w", err)
		}
		if err := market.WriteScenario(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		state.log.Info().Str("path", args[0]).Msg("Scenario written")
		return nil
	},
}

func init() {
	scenarioCmd.AddCommand(scenarioExportCmd)
}
