package guard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultScanRootConstant = "."

	// SummarySinkEnvironmentVariable names the file receiving the rendered
	// Markdown summary when set, matching the GitHub Actions job summary
	// contract.
	SummarySinkEnvironmentVariable = "GITHUB_STEP_SUMMARY"

	reportIndentPrefixConstant           = ""
	reportIndentConstant                 = "  "
	complianceFailedMessageConstant      = "compliance check failed"
	artifactReadWarningMessageConstant   = "artifact unreadable, evaluating as empty text"
	patchFailureWarningMessageConstant   = "patch could not be written"
	summaryWriteWarningMessageConstant   = "job summary could not be written"
	stagingFailureWarningMessageConstant = "staging fixed files failed"
	logFieldArtifactPathConstant         = "artifact_path"
	logFieldSummaryPathConstant          = "summary_path"
	logFieldScanRootConstant             = "scan_root"
	summaryFilePermissionsConstant       = 0o644
)

// ErrComplianceFailed signals a finished run whose overall verdict is failing.
// The structured record has already been printed when it is returned.
var ErrComplianceFailed = errors.New(complianceFailedMessageConstant)

// Service coordinates artifact discovery, rule evaluation, patching,
// reporting, and the external staging hand-off.
type Service struct {
	scanner      ArtifactScanner
	fileSystem   FileSystem
	patchEngine  *PatchEngine
	stager       RepositoryStager
	environment  EnvironmentReader
	logger       *zap.Logger
	outputWriter io.Writer
	htmlRule     ComplianceRule
	robotsRule   ComplianceRule
	clock        Clock
}

// NewService constructs a Service using the provided dependencies. A nil
// logger falls back to a no-op logger and a nil clock to the system clock.
func NewService(scanner ArtifactScanner, fileSystem FileSystem, stager RepositoryStager, environment EnvironmentReader, logger *zap.Logger, outputWriter io.Writer, clock Clock) *Service {
	resolvedFileSystem := ResolveFileSystem(fileSystem)
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Service{
		scanner:      ResolveArtifactScanner(scanner),
		fileSystem:   resolvedFileSystem,
		patchEngine:  NewPatchEngine(resolvedFileSystem),
		stager:       stager,
		environment:  ResolveEnvironmentReader(environment),
		logger:       logger,
		outputWriter: outputWriter,
		htmlRule:     HTMLMetaRule{},
		robotsRule:   RobotsPolicyRule{},
		clock:        clock,
	}
}

// Run executes one audit or fix sweep according to the provided options. It
// returns ErrComplianceFailed when the finalized report is failing, and a
// fatal error when the scan root cannot be read.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	rootPath := strings.TrimSpace(options.Path)
	if len(rootPath) == 0 {
		rootPath = defaultScanRootConstant
	}

	artifacts, discoveryError := service.scanner.DiscoverArtifacts(rootPath)
	if discoveryError != nil {
		return discoveryError
	}

	reportBuilder := NewReportBuilder(service.clock)

	for _, artifact := range artifacts {
		artifactContent := service.readArtifactContent(rootPath, artifact)
		outcome := service.ruleForArtifact(artifact).Evaluate(artifactContent)

		if !outcome.Passed && options.Fix {
			patchedOutcome, patchError := service.patchEngine.Apply(rootPath, artifact, artifactContent, outcome)
			if patchError != nil {
				service.logger.Warn(
					patchFailureWarningMessageConstant,
					zap.String(logFieldArtifactPathConstant, artifact.Path),
					zap.Error(patchError),
				)
			} else {
				outcome = patchedOutcome
			}
		}

		reportBuilder.Record(artifact, outcome)
	}

	report := reportBuilder.Finalize()

	if printError := service.printReport(report); printError != nil {
		return printError
	}

	service.writeSummary(report)

	if options.Fix {
		service.stageFixes(executionContext, rootPath)
	}

	if !report.Passed {
		return ErrComplianceFailed
	}
	return nil
}

// readArtifactContent reads the artifact as best-effort UTF-8 text. Unreadable
// files evaluate as empty text so a single bad artifact never aborts the run.
func (service *Service) readArtifactContent(rootPath string, artifact Artifact) string {
	artifactPath := filepath.Join(rootPath, filepath.FromSlash(artifact.Path))

	contentBytes, readError := service.fileSystem.ReadFile(artifactPath)
	if readError != nil {
		if artifact.Kind != ArtifactKindRobotsFile {
			service.logger.Warn(
				artifactReadWarningMessageConstant,
				zap.String(logFieldArtifactPathConstant, artifact.Path),
				zap.Error(readError),
			)
		}
		return ""
	}

	return strings.ToValidUTF8(string(contentBytes), "")
}

func (service *Service) ruleForArtifact(artifact Artifact) ComplianceRule {
	if artifact.Kind == ArtifactKindRobotsFile {
		return service.robotsRule
	}
	return service.htmlRule
}

func (service *Service) printReport(report Report) error {
	encodedReport, encodingError := json.MarshalIndent(report, reportIndentPrefixConstant, reportIndentConstant)
	if encodingError != nil {
		return encodingError
	}

	_, writeError := fmt.Fprintln(service.outputWriter, string(encodedReport))
	return writeError
}

func (service *Service) writeSummary(report Report) {
	summaryPath, variableSet := service.environment.LookupEnv(SummarySinkEnvironmentVariable)
	if !variableSet || len(strings.TrimSpace(summaryPath)) == 0 {
		return
	}

	renderedSummary := RenderSummary(report)
	if writeError := service.fileSystem.WriteFile(summaryPath, []byte(renderedSummary), summaryFilePermissionsConstant); writeError != nil {
		service.logger.Warn(
			summaryWriteWarningMessageConstant,
			zap.String(logFieldSummaryPathConstant, summaryPath),
			zap.Error(writeError),
		)
	}
}

// stageFixes hands modified paths to version control. Failures never alter the
// report or the exit code.
func (service *Service) stageFixes(executionContext context.Context, rootPath string) {
	if service.stager == nil {
		return
	}

	if stagingError := service.stager.StageAll(executionContext, rootPath); stagingError != nil {
		service.logger.Warn(
			stagingFailureWarningMessageConstant,
			zap.String(logFieldScanRootConstant, rootPath),
			zap.Error(stagingError),
		)
	}
}
