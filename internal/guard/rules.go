package guard

import (
	"fmt"
	"strings"
)

// MetaTagDirective is the opt-out meta tag every HTML file must carry.
const MetaTagDirective = `<meta name="robots" content="noai, noimageai">`

// AIBotNames lists the crawlers robots.txt must disallow, in report order.
var AIBotNames = []string{
	"GPTBot",
	"Google-Extended",
	"Anthropic",
	"ClaudeBot",
	"PerplexityBot",
	"CCBot",
	"aiCrawler",
}

const (
	metaTagMissingReasonConstant     = "meta tag missing"
	headTagNotFoundReasonConstant    = "<head> tag not found"
	missingBotReasonTemplateConstant = "missing bot rule(s): %s"
	missingBotJoinSeparatorConstant  = ", "
	robotsUserAgentTemplateConstant  = "User-agent: %s"
	robotsDisallowLineConstant       = "Disallow: /"
	robotsRuleLineSeparatorConstant  = "\n"
)

// ComplianceRule decides pass/fail for an artifact's current content and, when
// failing, what patch would fix it.
type ComplianceRule interface {
	Evaluate(content string) Outcome
}

// HTMLMetaRule checks HTML content for the opt-out meta tag.
type HTMLMetaRule struct{}

// Evaluate reports whether the directive occurs anywhere in the content,
// compared case-insensitively.
func (HTMLMetaRule) Evaluate(content string) Outcome {
	if strings.Contains(strings.ToLower(content), strings.ToLower(MetaTagDirective)) {
		return Outcome{Passed: true}
	}

	return Outcome{
		Passed:        false,
		Reason:        metaTagMissingReasonConstant,
		ProposedPatch: MetaTagDirective,
	}
}

// RobotsPolicyRule checks robots.txt content for disallow coverage of every
// known AI crawler.
type RobotsPolicyRule struct{}

// Evaluate reports whether every bot name appears as a case-insensitive
// substring of the content. Missing robots.txt files evaluate as empty text.
func (RobotsPolicyRule) Evaluate(content string) Outcome {
	missingBotNames := collectMissingBotNames(content)
	if len(missingBotNames) == 0 {
		return Outcome{Passed: true}
	}

	return Outcome{
		Passed:        false,
		Reason:        fmt.Sprintf(missingBotReasonTemplateConstant, strings.Join(missingBotNames, missingBotJoinSeparatorConstant)),
		ProposedPatch: robotsDisallowBlock(missingBotNames),
	}
}

func collectMissingBotNames(content string) []string {
	loweredContent := strings.ToLower(content)

	var missingBotNames []string
	for _, botName := range AIBotNames {
		if strings.Contains(loweredContent, strings.ToLower(botName)) {
			continue
		}
		missingBotNames = append(missingBotNames, botName)
	}
	return missingBotNames
}

func robotsDisallowBlock(botNames []string) string {
	ruleLines := make([]string, 0, len(botNames)*2)
	for _, botName := range botNames {
		ruleLines = append(ruleLines, fmt.Sprintf(robotsUserAgentTemplateConstant, botName), robotsDisallowLineConstant)
	}
	return strings.Join(ruleLines, robotsRuleLineSeparatorConstant)
}
