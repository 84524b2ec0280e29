package guard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	summaryTitleConstant           = "## NoAI Guardian Report"
	summaryTableHeaderConstant     = "| File | Status | Reason | Fix <br>(what & where) |"
	summaryTableDividerConstant    = "|------|--------|--------|------------------------|"
	summaryRowTemplateConstant     = "| **%s** | %s | %s | %s |"
	summaryPassMarkerConstant      = "✅ Pass"
	summaryFailMarkerConstant      = "❌ Fail"
	summaryEmptyCellConstant       = "—"
	summaryRobotsFixTemplate       = "Add to **/robots.txt**:<br>`%s`"
	summaryHTMLFixTemplate         = "Insert inside `<head>` of **%s**:<br>`%s`"
	summarySnippetJoinConstant     = " ; "
	summaryLineSeparatorConstant   = "\n"
	reportTimestampFieldConstant   = `{"timestamp":`
	reportPassedFieldConstant      = `,"passed":`
	reportDetailsFieldConstant     = `,"details":{`
	reportClosingBracesConstant    = "}}"
	reportDetailsEntrySeparator    = ","
	reportDetailsKeyValueSeparator = ":"
)

// ReportEntry pairs one artifact path with its compliance outcome.
type ReportEntry struct {
	Path    string
	Outcome Outcome
}

// Report is the immutable run-level aggregate of every artifact outcome.
type Report struct {
	Timestamp time.Time
	Passed    bool
	Entries   []ReportEntry
}

// MarshalJSON renders the report as the structured run record, preserving the
// discovery order of the details mapping.
func (report Report) MarshalJSON() ([]byte, error) {
	var encodedReport bytes.Buffer

	encodedReport.WriteString(reportTimestampFieldConstant)
	encodedTimestamp, timestampError := json.Marshal(report.Timestamp.Format(time.RFC3339))
	if timestampError != nil {
		return nil, timestampError
	}
	encodedReport.Write(encodedTimestamp)

	encodedReport.WriteString(reportPassedFieldConstant)
	encodedPassed, passedError := json.Marshal(report.Passed)
	if passedError != nil {
		return nil, passedError
	}
	encodedReport.Write(encodedPassed)

	encodedReport.WriteString(reportDetailsFieldConstant)
	for entryIndex, entry := range report.Entries {
		if entryIndex > 0 {
			encodedReport.WriteString(reportDetailsEntrySeparator)
		}

		encodedPath, pathError := json.Marshal(entry.Path)
		if pathError != nil {
			return nil, pathError
		}
		encodedReport.Write(encodedPath)
		encodedReport.WriteString(reportDetailsKeyValueSeparator)

		encodedOutcome, outcomeError := json.Marshal(entry.Outcome)
		if outcomeError != nil {
			return nil, outcomeError
		}
		encodedReport.Write(encodedOutcome)
	}
	encodedReport.WriteString(reportClosingBracesConstant)

	return encodedReport.Bytes(), nil
}

// ReportBuilder accumulates per-artifact outcomes in recording order.
type ReportBuilder struct {
	clock   Clock
	entries []ReportEntry
}

// NewReportBuilder constructs a builder stamping finalized reports with the provided clock.
func NewReportBuilder(clock Clock) *ReportBuilder {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReportBuilder{clock: clock}
}

// Record accumulates one outcome keyed by the artifact's path.
func (builder *ReportBuilder) Record(artifact Artifact, outcome Outcome) {
	builder.entries = append(builder.entries, ReportEntry{Path: artifact.Path, Outcome: outcome})
}

// Finalize computes the overall verdict, stamps the current UTC time, and
// returns the immutable report.
func (builder *ReportBuilder) Finalize() Report {
	overallPassed := true
	for _, entry := range builder.entries {
		overallPassed = overallPassed && entry.Outcome.Passed
	}

	return Report{
		Timestamp: builder.clock.Now().UTC(),
		Passed:    overallPassed,
		Entries:   append([]ReportEntry{}, builder.entries...),
	}
}

// RenderSummary produces the Markdown checklist handed to the job-summary sink.
func RenderSummary(report Report) string {
	summaryLines := []string{
		summaryTitleConstant,
		"",
		summaryTableHeaderConstant,
		summaryTableDividerConstant,
	}

	for _, entry := range report.Entries {
		statusMarker := summaryFailMarkerConstant
		if entry.Outcome.Passed {
			statusMarker = summaryPassMarkerConstant
		}

		reasonCell := entry.Outcome.Reason
		if len(reasonCell) == 0 {
			reasonCell = summaryEmptyCellConstant
		}

		summaryLines = append(summaryLines, fmt.Sprintf(summaryRowTemplateConstant, entry.Path, statusMarker, reasonCell, summaryFixCell(entry)))
	}

	summaryLines = append(summaryLines, "")
	return strings.Join(summaryLines, summaryLineSeparatorConstant)
}

func summaryFixCell(entry ReportEntry) string {
	if entry.Outcome.Passed {
		return summaryEmptyCellConstant
	}

	if entry.Path == RobotsArtifactPath {
		inlineSnippet := strings.ReplaceAll(strings.TrimSpace(entry.Outcome.ProposedPatch), summaryLineSeparatorConstant, summarySnippetJoinConstant)
		return fmt.Sprintf(summaryRobotsFixTemplate, inlineSnippet)
	}

	return fmt.Sprintf(summaryHTMLFixTemplate, entry.Path, MetaTagDirective)
}
