package gitrepo

import (
	"context"
	"errors"

	"github.com/temirov/noai-guardian/internal/execshell"
)

const (
	gitAddSubcommandConstant         = "add"
	gitAddAllPathsArgumentConstant   = "."
	executorRequiredMessageConstant  = "git executor is required"
	workingDirectoryRequiredConstant = "working directory is required"
)

// GitExecutor exposes the subset of shell execution used for staging.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandStager stages modified paths by invoking the git CLI.
type CommandStager struct {
	executor GitExecutor
}

// NewCommandStager constructs a stager backed by the provided git executor.
func NewCommandStager(executor GitExecutor) (*CommandStager, error) {
	if executor == nil {
		return nil, errors.New(executorRequiredMessageConstant)
	}
	return &CommandStager{executor: executor}, nil
}

// StageAll stages every modified path under the working directory.
func (stager *CommandStager) StageAll(executionContext context.Context, workingDirectory string) error {
	if len(workingDirectory) == 0 {
		return errors.New(workingDirectoryRequiredConstant)
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, gitAddAllPathsArgumentConstant},
		WorkingDirectory: workingDirectory,
	}

	_, executionError := stager.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}
