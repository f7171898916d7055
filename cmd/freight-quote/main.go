// README: Command-line calculator: quote and rates from the configured table, smoke checks against a running API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"freightquote/internal/config"
)

var (
	verbose bool
	logger  *zap.Logger
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "freight-quote",
	Short: "ANTT minimum freight calculator",
	Long: `freight-quote computes the ANTT floor price for every axle class of the
configured rate table, then grosses it up for ICMS and profit margin.

The rate table comes from FRETE_DB_DSN, FRETE_RATES_FILE or the builtin
SUROC 12/2024 table, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, err = config.Load()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(newQuoteCmd(), newRatesCmd(), newSmokeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
