package guard_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/noai-guardian/internal/guard"
)

const (
	rulesSubtestNameTemplateConstant = "%d_%s"

	htmlDirectivePresentCaseConstant        = "directive_present"
	htmlDirectiveUppercaseCaseConstant      = "directive_uppercase"
	htmlDirectiveMixedCaseCaseConstant      = "directive_mixed_case"
	htmlDirectiveOutsideHeadCaseConstant    = "directive_outside_head"
	htmlDirectiveMissingCaseConstant        = "directive_missing"
	htmlEmptyContentCaseConstant            = "empty_content"
	htmlExpectedMissingReasonConstant       = "meta tag missing"
	robotsAllBotsPresentCaseConstant        = "all_bots_present"
	robotsMixedCasingCaseConstant           = "mixed_casing_counts"
	robotsCommentMentionCaseConstant        = "comment_mention_counts"
	robotsSomeMissingCaseConstant           = "some_bots_missing"
	robotsEmptyContentCaseConstant          = "empty_content"
	robotsExpectedAllMissingReasonConstant  = "missing bot rule(s): GPTBot, Google-Extended, Anthropic, ClaudeBot, PerplexityBot, CCBot, aiCrawler"
	robotsExpectedSomeMissingReasonConstant = "missing bot rule(s): Google-Extended, PerplexityBot"
)

func TestHTMLMetaRuleEvaluate(testInstance *testing.T) {
	testCases := []struct {
		name           string
		content        string
		expectedPassed bool
	}{
		{
			name:           htmlDirectivePresentCaseConstant,
			content:        "<html><head>\n" + guard.MetaTagDirective + "\n</head><body></body></html>",
			expectedPassed: true,
		},
		{
			name:           htmlDirectiveUppercaseCaseConstant,
			content:        "<HTML><HEAD>" + strings.ToUpper(guard.MetaTagDirective) + "</HEAD></HTML>",
			expectedPassed: true,
		},
		{
			name:           htmlDirectiveMixedCaseCaseConstant,
			content:        `<head><Meta Name="robots" Content="noai, noimageai"></head>`,
			expectedPassed: true,
		},
		{
			name:           htmlDirectiveOutsideHeadCaseConstant,
			content:        "<html><body>" + guard.MetaTagDirective + "</body></html>",
			expectedPassed: true,
		},
		{
			name:           htmlDirectiveMissingCaseConstant,
			content:        "<html><head><title>Example</title></head><body></body></html>",
			expectedPassed: false,
		},
		{
			name:           htmlEmptyContentCaseConstant,
			content:        "",
			expectedPassed: false,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(rulesSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outcome := guard.HTMLMetaRule{}.Evaluate(testCase.content)

			require.Equal(testInstance, testCase.expectedPassed, outcome.Passed)
			if testCase.expectedPassed {
				require.Empty(testInstance, outcome.Reason)
				require.Empty(testInstance, outcome.ProposedPatch)
				return
			}

			require.Equal(testInstance, htmlExpectedMissingReasonConstant, outcome.Reason)
			require.Equal(testInstance, guard.MetaTagDirective, outcome.ProposedPatch)
		})
	}
}

func TestRobotsPolicyRuleEvaluate(testInstance *testing.T) {
	allBotsContent := &strings.Builder{}
	for _, botName := range guard.AIBotNames {
		fmt.Fprintf(allBotsContent, "User-agent: %s\nDisallow: /\n", botName)
	}

	testCases := []struct {
		name                  string
		content               string
		expectedPassed        bool
		expectedReason        string
		expectedPatchContains []string
		expectedPatchExcludes []string
	}{
		{
			name:           robotsAllBotsPresentCaseConstant,
			content:        allBotsContent.String(),
			expectedPassed: true,
		},
		{
			name:           robotsMixedCasingCaseConstant,
			content:        strings.ToUpper(allBotsContent.String()),
			expectedPassed: true,
		},
		{
			name:           robotsCommentMentionCaseConstant,
			content:        "# gptbot google-extended anthropic claudebot perplexitybot ccbot aicrawler",
			expectedPassed: true,
		},
		{
			name:           robotsSomeMissingCaseConstant,
			content:        "User-agent: GPTBot\nDisallow: /\nUser-agent: Anthropic\nDisallow: /\nUser-agent: ClaudeBot\nDisallow: /\nUser-agent: CCBot\nDisallow: /\nUser-agent: aiCrawler\nDisallow: /\n",
			expectedPassed: false,
			expectedReason: robotsExpectedSomeMissingReasonConstant,
			expectedPatchContains: []string{
				"User-agent: Google-Extended\nDisallow: /",
				"User-agent: PerplexityBot\nDisallow: /",
			},
			expectedPatchExcludes: []string{"GPTBot", "ClaudeBot", "CCBot", "aiCrawler"},
		},
		{
			name:           robotsEmptyContentCaseConstant,
			content:        "",
			expectedPassed: false,
			expectedReason: robotsExpectedAllMissingReasonConstant,
			expectedPatchContains: []string{
				"User-agent: GPTBot\nDisallow: /",
				"User-agent: aiCrawler\nDisallow: /",
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(rulesSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outcome := guard.RobotsPolicyRule{}.Evaluate(testCase.content)

			require.Equal(testInstance, testCase.expectedPassed, outcome.Passed)
			if testCase.expectedPassed {
				require.Empty(testInstance, outcome.Reason)
				require.Empty(testInstance, outcome.ProposedPatch)
				return
			}

			require.Equal(testInstance, testCase.expectedReason, outcome.Reason)
			for _, expectedFragment := range testCase.expectedPatchContains {
				require.Contains(testInstance, outcome.ProposedPatch, expectedFragment)
			}
			for _, excludedFragment := range testCase.expectedPatchExcludes {
				require.NotContains(testInstance, outcome.ProposedPatch, excludedFragment)
			}
		})
	}
}
