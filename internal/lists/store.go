// Package lists reads curated title lists: one flat file per list, one page
// title per line. Files are re-read on every call so edits apply immediately.
package lists

import (
	"errors"
	"io/fs"
	"math/rand/v2"
	"strings"

	"github.com/redactle/redactle-server/internal/failure"
)

// DefaultDir is where list files live relative to the working directory.
const DefaultDir = "lists"

// Store enumerates and reads list files.
type Store struct {
	provider DataProvider
	pick     func(n int) int
}

// NewStore creates a Store reading list files from dir.
func NewStore(dir string) *Store {
	return NewStoreWithProvider(NewDirDataProvider(dir))
}

// NewStoreWithProvider creates a Store over any DataProvider.
func NewStoreWithProvider(provider DataProvider) *Store {
	return &Store{provider: provider, pick: rand.IntN}
}

// Available returns the names of the regular files in the lists directory.
// The order depends on the underlying storage; callers must not rely on it.
func (s *Store) Available() ([]string, error) {
	entries, err := s.provider.ReadDir(".")
	if err != nil {
		return nil, failure.Storage(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
			continue
		}
		// Symlinks count when they resolve to a regular file.
		if e.Type()&fs.ModeSymlink != 0 {
			if info, err := s.provider.Stat(e.Name()); err == nil && info.Mode().IsRegular() {
				names = append(names, e.Name())
			}
		}
	}
	return names, nil
}

// Titles returns the trimmed, non-blank lines of the named list.
func (s *Store) Titles(name string) ([]string, error) {
	data, err := s.provider.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, failure.NotFound("list %q", name)
		}
		return nil, failure.Storage(err)
	}

	var titles []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			titles = append(titles, line)
		}
	}
	return titles, nil
}

// RandomTitle returns one title of the named list, chosen uniformly.
func (s *Store) RandomTitle(name string) (string, error) {
	titles, err := s.Titles(name)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", failure.Empty("list %q", name)
	}
	return titles[s.pick(len(titles))], nil
}
