package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"idea-workers/internal/common/logger"
)

var (
	logLevel string
	log      logger.Logger = logger.NewNoOpLogger()
)

var rootCmd = &cobra.Command{
	Use:   "idea-eval",
	Short: "Evaluate idea submissions offline",
	Long: `Runs the two-stage idea evaluation locally against a submission file,
without Zeebe or any datastore. Output is the same evaluation JSON the
evaluate-idea worker produces.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapLog, err := logger.New(logLevel, "console")
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(zapLog)
		log = logger.NewZapAdapter(zapLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
