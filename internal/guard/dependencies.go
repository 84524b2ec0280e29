package guard

import (
	"context"
	"io/fs"
	"os"

	"github.com/temirov/noai-guardian/internal/filesystem"
)

// ArtifactScanner discovers auditable artifacts under a scan root.
type ArtifactScanner interface {
	DiscoverArtifacts(rootPath string) ([]Artifact, error)
}

// FileSystem provides the filesystem operations required by the audit workflow.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	Rename(oldPath string, newPath string) error
	Remove(path string) error
}

// RepositoryStager hands fixed files to version control after a fix run.
type RepositoryStager interface {
	StageAll(executionContext context.Context, workingDirectory string) error
}

// EnvironmentReader looks up process environment variables.
type EnvironmentReader interface {
	LookupEnv(name string) (string, bool)
}

// OSEnvironmentReader implements EnvironmentReader using the process environment.
type OSEnvironmentReader struct{}

// LookupEnv retrieves the named environment variable.
func (OSEnvironmentReader) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// ResolveArtifactScanner returns the provided scanner or the filesystem default.
func ResolveArtifactScanner(candidate ArtifactScanner) ArtifactScanner {
	if candidate != nil {
		return candidate
	}
	return NewFilesystemArtifactScanner()
}

// ResolveFileSystem returns the provided filesystem or the operating system default.
func ResolveFileSystem(candidate FileSystem) FileSystem {
	if candidate != nil {
		return candidate
	}
	return filesystem.OSFileSystem{}
}

// ResolveEnvironmentReader returns the provided reader or the process default.
func ResolveEnvironmentReader(candidate EnvironmentReader) EnvironmentReader {
	if candidate != nil {
		return candidate
	}
	return OSEnvironmentReader{}
}
