package lists

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// stubTitles is a fixed generation of titles answering queries by substring.
type stubTitles struct {
	titles    []TitleHit
	searchErr error
	closed    atomic.Bool

	mu    sync.Mutex
	sizes []int
}

func newStubTitles(titles ...TitleHit) *stubTitles {
	return &stubTitles{titles: titles}
}

func (s *stubTitles) Search(query string, size int) ([]TitleHit, int, error) {
	if s.closed.Load() {
		return nil, 0, errors.New("search on closed title index")
	}
	if s.searchErr != nil {
		return nil, 0, s.searchErr
	}

	s.mu.Lock()
	s.sizes = append(s.sizes, size)
	s.mu.Unlock()

	var hits []TitleHit
	for _, t := range s.titles {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(query)) {
			hits = append(hits, t)
		}
	}
	total := len(hits)
	if len(hits) > size {
		hits = hits[:size]
	}
	return hits, total, nil
}

func (s *stubTitles) DocCount() (uint64, error) {
	if s.closed.Load() {
		return 0, errors.New("count on closed title index")
	}
	return uint64(len(s.titles)), nil
}

func (s *stubTitles) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return errors.New("title index closed twice")
	}
	return nil
}

func (s *stubTitles) requestedSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.sizes...)
}
