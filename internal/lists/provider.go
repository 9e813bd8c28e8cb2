package lists

import (
	"io/fs"
	"os"
)

// DataProvider defines the interface for reading the lists directory.
// This abstraction keeps the store testable without touching the filesystem.
//
// Implementations:
//   - dirDataProvider: reads a directory on disk (production)
//   - MockDataProvider: uses an in-memory map (tests)
type DataProvider interface {
	// ReadFile reads the named list file. The name is relative to the lists root.
	ReadFile(name string) ([]byte, error)

	// ReadDir reads the named directory ("." for the lists root).
	ReadDir(name string) ([]fs.DirEntry, error)

	// Stat returns file info for name, following symbolic links.
	Stat(name string) (fs.FileInfo, error)
}

// dirDataProvider implements DataProvider on top of a directory on disk.
// Names are validated by fs.ValidPath, so a list name cannot escape the root.
type dirDataProvider struct {
	fsys fs.FS
}

// NewDirDataProvider creates a DataProvider rooted at dir.
func NewDirDataProvider(dir string) DataProvider {
	return &dirDataProvider{fsys: os.DirFS(dir)}
}

func (p *dirDataProvider) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(p.fsys, name)
}

func (p *dirDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(p.fsys, name)
}

func (p *dirDataProvider) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(p.fsys, name)
}
