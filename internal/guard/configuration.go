package guard

import (
	"fmt"
	"strings"
)

const (
	configurationPathKeySuffixConstant = "%s.path"
	configurationFixKeySuffixConstant  = "%s.fix"
)

// CommandConfiguration captures persistent settings for the guard command.
type CommandConfiguration struct {
	Path string `mapstructure:"path"`
	Fix  bool   `mapstructure:"fix"`
}

// DefaultConfigurationValues returns baseline configuration values keyed under
// the provided configuration prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		fmt.Sprintf(configurationPathKeySuffixConstant, configurationKeyPrefix): defaultScanRootConstant,
		fmt.Sprintf(configurationFixKeySuffixConstant, configurationKeyPrefix):  false,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Path = strings.TrimSpace(configuration.Path)
	if len(sanitized.Path) == 0 {
		sanitized.Path = defaultScanRootConstant
	}
	return sanitized
}
