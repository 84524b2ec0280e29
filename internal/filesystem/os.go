package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements filesystem access using the operating system primitives.
type OSFileSystem struct{}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}

// Rename renames a path.
func (OSFileSystem) Rename(oldPath string, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Remove deletes a path.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}
