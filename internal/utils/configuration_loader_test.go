package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/noai-guardian/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTGUARD"
	testCommonSectionKeyConstant                   = "common"
	testLogLevelKeyConstant                        = testCommonSectionKeyConstant + ".log_level"
	testDefaultLogLevelConstant                    = "info"
	testConfiguredLogLevelConstant                 = "debug"
	testOverriddenLogLevelConstant                 = "error"
	testConfigFileNameConstant                     = "config.yaml"
	testConfigContentTemplateConstant              = "common:\n  log_level: %s\n"
	testEnvironmentVariableNameConstant            = testEnvironmentPrefixConstant + "_COMMON_LOG_LEVEL"
	testCaseDefaultsMessageConstant                = "defaults_are_applied"
	testCaseFileMessageConstant                    = "config_file_overrides_defaults"
	testCaseEnvironmentMessageConstant             = "environment_overrides_file"
	testConfigurationNameConstant                  = "config"
	testConfigurationTypeConstant                  = "yaml"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		fileLogLevel        string
		environmentLogLevel string
		expectedLogLevel    string
	}{
		{
			name:                testCaseDefaultsMessageConstant,
			fileLogLevel:        "",
			environmentLogLevel: "",
			expectedLogLevel:    testDefaultLogLevelConstant,
		},
		{
			name:                testCaseFileMessageConstant,
			fileLogLevel:        testConfiguredLogLevelConstant,
			environmentLogLevel: "",
			expectedLogLevel:    testConfiguredLogLevelConstant,
		},
		{
			name:                testCaseEnvironmentMessageConstant,
			fileLogLevel:        testConfiguredLogLevelConstant,
			environmentLogLevel: testOverriddenLogLevelConstant,
			expectedLogLevel:    testOverriddenLogLevelConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()

			configurationFilePath := ""
			if len(testCase.fileLogLevel) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileLogLevel)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o644))
			}

			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(testEnvironmentVariableNameConstant, testCase.environmentLogLevel)
			}

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{tempDirectory},
			)

			defaultValues := map[string]any{
				testLogLevelKeyConstant: testDefaultLogLevelConstant,
			}

			var loadedFixture configurationFixture
			loadedMetadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedFixture)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedFixture.Common.LogLevel)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, loadedMetadata.ConfigFileUsed)
			}
		})
	}
}
