package guard

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/noai-guardian/internal/execshell"
	"github.com/temirov/noai-guardian/internal/gitrepo"
)

const (
	commandUseConstant              = "noai-guardian"
	commandShortDescriptionConstant = "Audit a project tree for AI-crawler opt-out directives"
	commandLongDescriptionConstant  = "noai-guardian checks every HTML file for the noai meta tag and robots.txt for AI crawler disallow rules, optionally injecting the missing directives and staging the fixes."
	flagPathNameConstant            = "path"
	flagPathDescriptionConstant     = "Folder to scan"
	flagFixNameConstant             = "fix"
	flagFixDescriptionConstant      = "Auto-patch violations and stage the results"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies persisted configuration for the command.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the guard cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Scanner               ArtifactScanner
	FileSystem            FileSystem
	Stager                RepositoryStager
	Environment           EnvironmentReader
	Clock                 Clock
}

// Build constructs the cobra command for the audit/fix workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	command.Flags().String(flagPathNameConstant, defaultScanRootConstant, flagPathDescriptionConstant)
	command.Flags().Bool(flagFixNameConstant, false, flagFixDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(command)

	logger := builder.resolveLogger()

	stager, stagerError := builder.resolveStager(logger)
	if stagerError != nil {
		return stagerError
	}

	service := NewService(
		ResolveArtifactScanner(builder.Scanner),
		ResolveFileSystem(builder.FileSystem),
		stager,
		ResolveEnvironmentReader(builder.Environment),
		logger,
		command.OutOrStdout(),
		builder.Clock,
	)

	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandOptions {
	configuration := builder.resolveConfiguration()

	options := CommandOptions{
		Path: configuration.Path,
		Fix:  configuration.Fix,
	}

	if command.Flags().Changed(flagPathNameConstant) {
		pathFlagValue, _ := command.Flags().GetString(flagPathNameConstant)
		options.Path = pathFlagValue
	}

	if command.Flags().Changed(flagFixNameConstant) {
		fixFlagValue, _ := command.Flags().GetBool(flagFixNameConstant)
		options.Fix = fixFlagValue
	}

	return options
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return CommandConfiguration{}.sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveStager(logger *zap.Logger) (RepositoryStager, error) {
	if builder.Stager != nil {
		return builder.Stager, nil
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	return gitrepo.NewCommandStager(shellExecutor)
}
