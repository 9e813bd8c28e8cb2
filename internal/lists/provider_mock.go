package lists

import (
	"io/fs"
	"path"
	"strings"
	"time"
)

// MockDataProvider implements DataProvider for testing.
// It keeps list files in memory; a name containing '/' implies a subdirectory.
type MockDataProvider struct {
	files map[string][]byte
	err   error
}

// NewMockDataProvider creates an empty mock provider.
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{
		files: make(map[string][]byte),
	}
}

// AddFile adds a list file to the mock provider.
func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.files[name] = content
}

// FailWith makes every subsequent call return err.
func (m *MockDataProvider) FailWith(err error) {
	m.err = err
}

// ReadFile reads a file from the mock storage.
func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	content, exists := m.files[name]
	if !exists {
		if m.isDir(name) {
			return nil, &fs.PathError{Op: "read", Path: name, Err: errIsDir}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return content, nil
}

// ReadDir returns entries for all files and subdirectories directly under name.
func (m *MockDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	if m.err != nil {
		return nil, m.err
	}

	var entries []fs.DirEntry
	seen := make(map[string]bool)

	for filePath := range m.files {
		rel := filePath
		if name != "." {
			if !strings.HasPrefix(filePath, name+"/") {
				continue
			}
			rel = strings.TrimPrefix(filePath, name+"/")
		}

		first, _, nested := strings.Cut(rel, "/")
		if seen[first] {
			continue
		}
		seen[first] = true
		entries = append(entries, &mockDirEntry{name: first, isDir: nested})
	}

	if len(entries) == 0 && name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return entries, nil
}

// Stat returns file info for a file or implied directory.
func (m *MockDataProvider) Stat(name string) (fs.FileInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.files[name]; ok {
		return &mockFileInfo{name: path.Base(name)}, nil
	}
	if m.isDir(name) {
		return &mockFileInfo{name: path.Base(name), isDir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MockDataProvider) isDir(name string) bool {
	for filePath := range m.files {
		if strings.HasPrefix(filePath, name+"/") {
			return true
		}
	}
	return false
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errIsDir = mockError("is a directory")

// mockDirEntry implements fs.DirEntry for testing.
type mockDirEntry struct {
	name  string
	isDir bool
}

func (e *mockDirEntry) Name() string {
	return e.name
}

func (e *mockDirEntry) IsDir() bool {
	return e.isDir
}

func (e *mockDirEntry) Type() fs.FileMode {
	if e.isDir {
		return fs.ModeDir
	}
	return 0
}

func (e *mockDirEntry) Info() (fs.FileInfo, error) {
	return &mockFileInfo{
		name:  e.name,
		isDir: e.isDir,
	}, nil
}

// mockFileInfo implements fs.FileInfo for testing.
type mockFileInfo struct {
	name  string
	isDir bool
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return 0 }
func (i *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (i *mockFileInfo) IsDir() bool        { return i.isDir }
func (i *mockFileInfo) Sys() interface{}   { return nil }

func (i *mockFileInfo) Mode() fs.FileMode {
	if i.isDir {
		return fs.ModeDir
	}
	return 0
}
