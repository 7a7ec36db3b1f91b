package commands

import (
	"rtc/internal/cli"
	"rtc/internal/config"
	"rtc/internal/storage"
	"rtc/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Collect  *CollectCommand
	Failures *FailuresCommand
	Env      *EnvCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, version string) *Commands {
	// Initialize dependencies
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter()
	errorViewer := ui.NewErrorViewer(cfg, jsonStorage)

	return &Commands{
		Collect:  NewCollectCommand(cfg, jsonStorage, formatter, version),
		Failures: NewFailuresCommand(cfg, jsonStorage, errorViewer),
		Env:      NewEnvCommand(formatter, version),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Collect command
	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect test results from stdin and upload them",
		Long:  "Read the runner's JSON event stream from stdin, echo it to stdout unchanged, and upload batched per-test results to the analytics API",
		RunE:  c.Collect.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Update config with flags after parsing
			cfg.Flags = flags.ToConfigFlags()
			if flags.BatchSize > 0 {
				cfg.BatchSize = flags.BatchSize
			}
			if flags.Endpoint != "" {
				cfg.Endpoint = flags.Endpoint
			}
			return nil
		},
	}
	collectCmd.Flags().IntVarP(&flags.BatchSize, "batch-size", "b", config.DefaultBatchSize, "Maximum number of test records per upload batch")
	collectCmd.Flags().StringVar(&flags.Endpoint, "endpoint", config.DefaultEndpoint, "Analytics API upload endpoint")
	collectCmd.Flags().BoolVar(&flags.Permissive, "permissive", false, "Silently drop unrecognised event lines instead of aborting (compatibility mode)")
	collectCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Build upload batches without submitting them")
	collectCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Disable the progress bar")
	rootCmd.AddCommand(collectCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last collected run in an interactive viewer",
		RunE:  c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)

	// Env command
	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Print the detected CI environment",
		Long:  "Detect the CI environment from the process environment variables and print the identity record that would be attached to uploads",
		RunE:  c.Env.Execute,
	}
	rootCmd.AddCommand(envCmd)
}
