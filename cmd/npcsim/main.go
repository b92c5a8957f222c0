// Command npcsim validates NPC documents and runs headless simulations of
// them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/npcbrain/agent"
	"github.com/milk9111/npcbrain/prefabs"
	"github.com/milk9111/npcbrain/timer"
)

var (
	verbose bool
	docDir  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "npcsim",
	Short: "Validate and simulate behavior-tree NPCs",
	Long: `npcsim loads entity and tree documents, embedded defaults overridden
by files in --dir, and either validates them or runs one agent headless.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&docDir, "dir", "prefabs", "Directory whose entities/ and trees/ override the embedded documents")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func documentLoader() *prefabs.FSLoader {
	return prefabs.NewFSLoader(prefabs.DocumentsFS, docDir)
}

func newFactory(loader prefabs.Loader, clock timer.Clock) (*agent.Factory, error) {
	return agent.NewFactory(loader, clock, logger)
}
