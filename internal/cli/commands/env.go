package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rtc/internal/config"
	"rtc/internal/runenv"
	"rtc/internal/ui"
)

// EnvCommand handles the env command
type EnvCommand struct {
	formatter *ui.Formatter
	version   string
}

// NewEnvCommand creates a new EnvCommand
func NewEnvCommand(formatter *ui.Formatter, version string) *EnvCommand {
	return &EnvCommand{
		formatter: formatter,
		version:   version,
	}
}

// Execute runs the command
func (ec *EnvCommand) Execute(cmd *cobra.Command, args []string) error {
	env, ok := runenv.Detect(config.CollectorName, ec.version)
	if !ok {
		color.Yellow("No CI environment detected")
		return nil
	}

	return ec.formatter.PrintEnvironment(env)
}
