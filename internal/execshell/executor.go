package execshell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	loggerRequiredMessageConstant        = "logger instance is required"
	commandRunnerRequiredMessageConstant = "command runner is required"
	commandFailedTemplateConstant        = "%s %s exited with code %d%s"
	standardErrorSuffixTemplateConstant  = ": %s"
	emptyStringConstant                  = ""
	logFieldCommandConstant              = "command"
	logFieldArgumentsConstant            = "arguments"
	logFieldWorkingDirectoryConstant     = "working_directory"
	logFieldExitCodeConstant             = "exit_code"
	commandStartedMessageConstant        = "executing command"
	commandCompletedMessageConstant      = "command completed"
	commandFailedMessageConstant         = "command failed"
)

// CommandName identifies an external executable invoked through the shell executor.
type CommandName string

// CommandGit names the git executable used by the staging collaborator.
const CommandGit CommandName = "git"

// CommandDetails describes a single external command invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a command invocation.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error renders the failed command with its exit code and trailing standard error.
func (failure *CommandFailedError) Error() string {
	standardErrorSuffix := emptyStringConstant
	if len(failure.Result.StandardError) > 0 {
		standardErrorSuffix = fmt.Sprintf(standardErrorSuffixTemplateConstant, failure.Result.StandardError)
	}
	return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.Name, joinArguments(failure.Command.Details.Arguments), failure.Result.ExitCode, standardErrorSuffix)
}

// ShellExecutor runs external commands while emitting structured log events.
type ShellExecutor struct {
	logger *zap.Logger
	runner CommandRunner
}

// NewShellExecutor constructs a ShellExecutor with the provided logger and runner.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, errors.New(loggerRequiredMessageConstant)
	}
	if commandRunner == nil {
		return nil, errors.New(commandRunnerRequiredMessageConstant)
	}
	return &ShellExecutor{logger: logger, runner: commandRunner}, nil
}

// ExecuteGit runs git with the supplied details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func (executor *ShellExecutor) execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, executionError := executor.runner.Run(executionContext, command)
	if executionError != nil {
		executor.logger.Warn(
			commandFailedMessageConstant,
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
			zap.Error(executionError),
		)
		return ExecutionResult{}, executionError
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			commandFailedMessageConstant,
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
		return executionResult, &CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)
	return executionResult, nil
}
