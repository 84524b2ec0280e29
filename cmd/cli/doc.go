// Package cli wires the noai-guardian root command, configuration loading,
// and structured logging into an executable application.
package cli
