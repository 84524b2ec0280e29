package guard_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/noai-guardian/internal/guard"
)

const (
	reportFixtureTimestampConstant = "2025-06-01T10:30:00Z"
	reportFirstArtifactConstant    = "index.html"
	reportSecondArtifactConstant   = "docs/intro.html"
	reportFailReasonConstant       = "meta tag missing"
)

type fixedClock struct {
	instant time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.instant
}

func reportFixtureClock(testInstance *testing.T) fixedClock {
	testInstance.Helper()
	fixtureInstant, parseError := time.Parse(time.RFC3339, reportFixtureTimestampConstant)
	require.NoError(testInstance, parseError)
	return fixedClock{instant: fixtureInstant}
}

func TestReportBuilderFinalizeComputesOverallVerdict(testInstance *testing.T) {
	testCases := []struct {
		name           string
		outcomes       []guard.Outcome
		expectedPassed bool
	}{
		{
			name:           "all_passing",
			outcomes:       []guard.Outcome{{Passed: true}, {Passed: true}},
			expectedPassed: true,
		},
		{
			name:           "one_failing",
			outcomes:       []guard.Outcome{{Passed: true}, {Passed: false, Reason: reportFailReasonConstant, ProposedPatch: guard.MetaTagDirective}},
			expectedPassed: false,
		},
		{
			name:           "no_recorded_outcomes",
			outcomes:       nil,
			expectedPassed: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := guard.NewReportBuilder(reportFixtureClock(testInstance))
			for outcomeIndex, outcome := range testCase.outcomes {
				artifact := guard.Artifact{Path: []string{reportFirstArtifactConstant, reportSecondArtifactConstant}[outcomeIndex], Kind: guard.ArtifactKindHTMLFile}
				builder.Record(artifact, outcome)
			}

			report := builder.Finalize()
			require.Equal(testInstance, testCase.expectedPassed, report.Passed)
			require.Equal(testInstance, reportFixtureClock(testInstance).instant.UTC(), report.Timestamp)
			require.Len(testInstance, report.Entries, len(testCase.outcomes))
		})
	}
}

func TestReportMarshalJSONPreservesRecordingOrder(testInstance *testing.T) {
	builder := guard.NewReportBuilder(reportFixtureClock(testInstance))
	builder.Record(guard.Artifact{Path: reportFirstArtifactConstant, Kind: guard.ArtifactKindHTMLFile}, guard.Outcome{Passed: true})
	builder.Record(guard.Artifact{Path: reportSecondArtifactConstant, Kind: guard.ArtifactKindHTMLFile}, guard.Outcome{Passed: false, Reason: reportFailReasonConstant, ProposedPatch: guard.MetaTagDirective})
	builder.Record(guard.Artifact{Path: guard.RobotsArtifactPath, Kind: guard.ArtifactKindRobotsFile}, guard.Outcome{Passed: true})

	report := builder.Finalize()

	encodedReport, marshalError := json.Marshal(report)
	require.NoError(testInstance, marshalError)

	encodedText := string(encodedReport)
	require.Contains(testInstance, encodedText, `"timestamp":"`+reportFixtureTimestampConstant+`"`)
	require.Contains(testInstance, encodedText, `"passed":false`)

	firstArtifactPosition := strings.Index(encodedText, reportFirstArtifactConstant)
	secondArtifactPosition := strings.Index(encodedText, reportSecondArtifactConstant)
	robotsArtifactPosition := strings.Index(encodedText, guard.RobotsArtifactPath)
	require.True(testInstance, firstArtifactPosition >= 0)
	require.True(testInstance, firstArtifactPosition < secondArtifactPosition)
	require.True(testInstance, secondArtifactPosition < robotsArtifactPosition)

	var decodedRecord struct {
		Timestamp string                   `json:"timestamp"`
		Passed    bool                     `json:"passed"`
		Details   map[string]guard.Outcome `json:"details"`
	}
	require.NoError(testInstance, json.Unmarshal(encodedReport, &decodedRecord))
	require.Equal(testInstance, reportFixtureTimestampConstant, decodedRecord.Timestamp)
	require.False(testInstance, decodedRecord.Passed)
	require.Len(testInstance, decodedRecord.Details, 3)
	require.Equal(testInstance, reportFailReasonConstant, decodedRecord.Details[reportSecondArtifactConstant].Reason)
}

func TestRenderSummaryProducesMarkdownChecklist(testInstance *testing.T) {
	builder := guard.NewReportBuilder(reportFixtureClock(testInstance))
	builder.Record(guard.Artifact{Path: reportFirstArtifactConstant, Kind: guard.ArtifactKindHTMLFile}, guard.Outcome{Passed: true})
	builder.Record(guard.Artifact{Path: reportSecondArtifactConstant, Kind: guard.ArtifactKindHTMLFile}, guard.Outcome{Passed: false, Reason: reportFailReasonConstant, ProposedPatch: guard.MetaTagDirective})
	builder.Record(guard.Artifact{Path: guard.RobotsArtifactPath, Kind: guard.ArtifactKindRobotsFile}, guard.Outcome{
		Passed:        false,
		Reason:        "missing bot rule(s): GPTBot",
		ProposedPatch: "User-agent: GPTBot\nDisallow: /",
	})

	renderedSummary := guard.RenderSummary(builder.Finalize())

	require.True(testInstance, strings.HasPrefix(renderedSummary, "## NoAI Guardian Report"))
	require.Contains(testInstance, renderedSummary, "| File | Status | Reason | Fix <br>(what & where) |")
	require.Contains(testInstance, renderedSummary, "| **"+reportFirstArtifactConstant+"** | ✅ Pass | — | — |")
	require.Contains(testInstance, renderedSummary, "| **"+reportSecondArtifactConstant+"** | ❌ Fail | "+reportFailReasonConstant+" |")
	require.Contains(testInstance, renderedSummary, "Insert inside `<head>` of **"+reportSecondArtifactConstant+"**:<br>`"+guard.MetaTagDirective+"`")
	require.Contains(testInstance, renderedSummary, "Add to **/robots.txt**:<br>`User-agent: GPTBot ; Disallow: /`")
	require.True(testInstance, strings.HasSuffix(renderedSummary, "\n"))
}
