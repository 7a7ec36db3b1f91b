package main

import (
	"fmt"
	"os"

	"rtc/internal/cli"
	"rtc/internal/cli/commands"
	"rtc/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "rtc",
		Short: "Rust test analytics collector",
		Long: `A command-line collector for Rust test output. Pipe the runner's JSON
event stream through rtc to upload per-test analytics while echoing the
stream to stdout unchanged:

  cargo test -- -Z unstable-options --format json --report-time | rtc collect

Expects ` + config.TokenEnvVar + ` in the environment (or a .env file).`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, version)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
