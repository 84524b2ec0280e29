// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with zap logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and defines the abstractions noai-guardian
// uses to hand fixed files to git in a testable manner.
package execshell
