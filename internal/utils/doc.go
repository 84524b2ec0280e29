// Package utils exposes reusable helpers consumed by the CLI entrypoint.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging for noai-guardian.
package utils
