package guard

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	metaTagInsertionIndentConstant = "\n  "
	temporaryFileSuffixConstant    = ".guardian-tmp"
	patchedFilePermissionsConstant = 0o644
	robotsBlockSeparatorConstant   = "\n"
	robotsTrailingNewlineConstant  = "\n"
)

// headOpeningTagPattern anchors the textual patch to the first opening <head>
// tag, attributes and casing preserved. A DOM parse is deliberately out of
// scope; the insertion is a best-effort text substitution.
var headOpeningTagPattern = regexp.MustCompile(`(?i)<head[^>]*>`)

// PatchEngine applies a rule's proposed patch to on-disk content.
type PatchEngine struct {
	fileSystem FileSystem
}

// NewPatchEngine constructs a PatchEngine writing through the provided filesystem.
func NewPatchEngine(fileSystem FileSystem) *PatchEngine {
	return &PatchEngine{fileSystem: ResolveFileSystem(fileSystem)}
}

// Apply patches the artifact's backing file so the failing outcome becomes
// passing. HTML artifacts without a <head> tag are left untouched and keep a
// failing outcome. Robots artifacts always succeed, creating the file when it
// does not exist. Re-applying to already-patched content is a no-op because
// evaluation reports it as passing first.
func (engine *PatchEngine) Apply(rootPath string, artifact Artifact, content string, outcome Outcome) (Outcome, error) {
	switch artifact.Kind {
	case ArtifactKindRobotsFile:
		return engine.applyRobotsPatch(rootPath, artifact, content, outcome)
	default:
		return engine.applyHTMLPatch(rootPath, artifact, content)
	}
}

func (engine *PatchEngine) applyHTMLPatch(rootPath string, artifact Artifact, content string) (Outcome, error) {
	headTagLocation := headOpeningTagPattern.FindStringIndex(content)
	if headTagLocation == nil {
		return Outcome{
			Passed:        false,
			Reason:        headTagNotFoundReasonConstant,
			ProposedPatch: MetaTagDirective,
		}, nil
	}

	patchedContent := content[:headTagLocation[1]] + metaTagInsertionIndentConstant + MetaTagDirective + content[headTagLocation[1]:]

	if writeError := engine.writeAtomically(rootPath, artifact, patchedContent); writeError != nil {
		return Outcome{}, writeError
	}
	return Outcome{Passed: true}, nil
}

func (engine *PatchEngine) applyRobotsPatch(rootPath string, artifact Artifact, content string, outcome Outcome) (Outcome, error) {
	trimmedContent := strings.TrimRightFunc(content, isTrailingWhitespace)

	patchedContent := outcome.ProposedPatch + robotsTrailingNewlineConstant
	if len(trimmedContent) > 0 {
		patchedContent = trimmedContent + robotsBlockSeparatorConstant + patchedContent
	}

	if writeError := engine.writeAtomically(rootPath, artifact, patchedContent); writeError != nil {
		return Outcome{}, writeError
	}
	return Outcome{Passed: true}, nil
}

// writeAtomically persists the full new content through a sibling temporary
// file so the target never holds a partial write.
func (engine *PatchEngine) writeAtomically(rootPath string, artifact Artifact, content string) error {
	targetPath := filepath.Join(rootPath, filepath.FromSlash(artifact.Path))
	temporaryPath := targetPath + temporaryFileSuffixConstant

	if writeError := engine.fileSystem.WriteFile(temporaryPath, []byte(content), patchedFilePermissionsConstant); writeError != nil {
		return writeError
	}

	if renameError := engine.fileSystem.Rename(temporaryPath, targetPath); renameError != nil {
		_ = engine.fileSystem.Remove(temporaryPath)
		return renameError
	}
	return nil
}

func isTrailingWhitespace(character rune) bool {
	switch character {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}
