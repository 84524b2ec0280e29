package guard

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	htmlExtensionConstant = ".html"
	htmExtensionConstant  = ".htm"

	// RobotsArtifactPath is the fixed report key for the robots artifact.
	RobotsArtifactPath = "robots.txt"

	scanRootUnreadableTemplateConstant = "scan root %s is not accessible: %w"
)

// FilesystemArtifactScanner discovers auditable artifacts under a scan root.
type FilesystemArtifactScanner struct{}

// NewFilesystemArtifactScanner constructs a scanner backed by filepath.WalkDir.
func NewFilesystemArtifactScanner() *FilesystemArtifactScanner {
	return &FilesystemArtifactScanner{}
}

// DiscoverArtifacts walks the root and returns one artifact per HTML file in
// lexical path order, followed by the robots.txt artifact regardless of
// whether that file exists. An unreadable root is a fatal error.
func (scanner *FilesystemArtifactScanner) DiscoverArtifacts(rootPath string) ([]Artifact, error) {
	if _, statError := os.Stat(rootPath); statError != nil {
		return nil, fmt.Errorf(scanRootUnreadableTemplateConstant, rootPath, statError)
	}

	var htmlPaths []string
	walkError := filepath.WalkDir(rootPath, func(entryPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			// Errors on the root abort the scan; errors on descendants are skipped.
			if entryPath == rootPath {
				return entryError
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !hasHTMLExtension(directoryEntry.Name()) {
			return nil
		}

		relativePath, relativeError := filepath.Rel(rootPath, entryPath)
		if relativeError != nil {
			return nil
		}
		htmlPaths = append(htmlPaths, filepath.ToSlash(relativePath))
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(scanRootUnreadableTemplateConstant, rootPath, walkError)
	}

	sort.Strings(htmlPaths)

	artifacts := make([]Artifact, 0, len(htmlPaths)+1)
	for _, htmlPath := range htmlPaths {
		artifacts = append(artifacts, Artifact{Path: htmlPath, Kind: ArtifactKindHTMLFile})
	}
	artifacts = append(artifacts, Artifact{Path: RobotsArtifactPath, Kind: ArtifactKindRobotsFile})

	return artifacts, nil
}

func hasHTMLExtension(fileName string) bool {
	extension := strings.ToLower(filepath.Ext(fileName))
	return extension == htmlExtensionConstant || extension == htmExtensionConstant
}
