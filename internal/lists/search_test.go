package lists

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func newSearchStore() *Store {
	mock := NewMockDataProvider()
	mock.AddFile("Video Games", []byte("Portal (video game)\nTetris\nThe Legend of Zelda\n"))
	mock.AddFile("Board Games", []byte("Chess\nGo (game)\n\n"))
	return NewStoreWithProvider(mock)
}

func TestTitleIndex_Search(t *testing.T) {
	idx := NewTitleIndex(newSearchStore())
	defer idx.Close()

	hits, total, err := idx.Search("chess", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if total != 1 || len(hits) != 1 {
		t.Fatalf("Search(chess) = %d hits (total %d), want 1", len(hits), total)
	}
	if hits[0].Title != "Chess" || hits[0].List != "Board Games" {
		t.Errorf("Search(chess) hit = %+v, want Chess in Board Games", hits[0])
	}
}

func TestTitleIndex_SearchStemmed(t *testing.T) {
	idx := NewTitleIndex(newSearchStore())
	defer idx.Close()

	// "games" and "game" share an English stem.
	hits, _, err := idx.Search("games", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	titles := make(map[string]bool)
	for _, h := range hits {
		titles[h.Title] = true
	}
	for _, want := range []string{"Portal (video game)", "Go (game)"} {
		if !titles[want] {
			t.Errorf("Search(games) missing %q in %v", want, hits)
		}
	}
}

func TestTitleIndex_Rebuild(t *testing.T) {
	mock := NewMockDataProvider()
	mock.AddFile("list", []byte("Chess\n"))
	idx := NewTitleIndex(NewStoreWithProvider(mock))
	defer idx.Close()

	if _, total, _ := idx.Search("tetris", 5); total != 0 {
		t.Fatalf("Search(tetris) total = %d before rebuild, want 0", total)
	}

	mock.AddFile("list", []byte("Chess\nTetris\n"))
	if err := idx.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	if _, total, _ := idx.Search("tetris", 5); total != 1 {
		t.Errorf("Search(tetris) total = %d after rebuild, want 1", total)
	}
}

func TestTitleIndex_StorageFailure(t *testing.T) {
	mock := NewMockDataProvider()
	mock.FailWith(errors.New("disk gone"))
	idx := NewTitleIndex(NewStoreWithProvider(mock))

	if _, _, err := idx.Search("chess", 5); err == nil {
		t.Error("Search() should fail when lists cannot be read")
	}
}

// These tests exercise the atomic swap with stub generations (no bleve index built)

func stubGeneration() (*stubTitles, Index) {
	stub := newStubTitles(
		TitleHit{List: "Puzzles", Title: "Tetris", Score: 1},
		TitleHit{List: "Puzzles", Title: "Tetris Effect", Score: 0.5},
		TitleHit{List: "Board Games", Title: "Chess", Score: 1},
	)
	return stub, Index(stub)
}

func TestTitleIndex_ConcurrentReadsWithStub(t *testing.T) {
	_, idx := stubGeneration()

	holder := NewTitleIndex(newSearchStore())
	holder.current.Store(&idx)

	const numReaders = 50
	var wg sync.WaitGroup
	errChan := make(chan error, numReaders)

	for i := 0; i < numReaders; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			hits, total, err := holder.Search("tetris", 5)
			if err != nil {
				errChan <- fmt.Errorf("goroutine %d: %v", id, err)
				return
			}
			if total != 2 || len(hits) != 2 || hits[0].List != "Puzzles" {
				errChan <- fmt.Errorf("goroutine %d: got %+v (total %d)", id, hits, total)
			}
		}(i)
	}
	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Error(err)
	}
}

func TestTitleIndex_SearchClampsSize(t *testing.T) {
	stub, idx := stubGeneration()

	holder := NewTitleIndex(newSearchStore())
	holder.current.Store(&idx)

	for _, maxHits := range []int{0, -3, 7, 1000} {
		if _, _, err := holder.Search("chess", maxHits); err != nil {
			t.Fatalf("Search(maxHits=%d) error = %v", maxHits, err)
		}
	}

	want := []int{defaultMaxHits, defaultMaxHits, 7, maxHitsLimit}
	got := stub.requestedSizes()
	if len(got) != len(want) {
		t.Fatalf("sizes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("size[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTitleIndex_RebuildClosesOldIndex(t *testing.T) {
	stub, idx := stubGeneration()

	holder := NewTitleIndex(newSearchStore())
	holder.current.Store(&idx)

	if err := holder.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	defer holder.Close()

	if !stub.closed.Load() {
		t.Error("old index should be closed after rebuild")
	}
	if _, total, _ := holder.Search("effect", 5); total != 0 {
		t.Errorf("Search(effect) total = %d, want 0 from the rebuilt lists", total)
	}
}

func TestTitleIndex_CloseThenSearchRebuilds(t *testing.T) {
	stub, idx := stubGeneration()

	holder := NewTitleIndex(newSearchStore())
	holder.current.Store(&idx)

	if err := holder.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !stub.closed.Load() {
		t.Error("Close() should close the index")
	}

	if _, total, err := holder.Search("tetris", 5); err != nil || total != 1 {
		t.Errorf("Search() after Close = total %d, err %v; want 1, nil", total, err)
	}
	holder.Close()
}

func TestTitleIndex_SearchErrorPropagates(t *testing.T) {
	stub, idx := stubGeneration()
	stub.searchErr = errors.New("broken")

	holder := NewTitleIndex(newSearchStore())
	holder.current.Store(&idx)

	if _, _, err := holder.Search("x", 5); err == nil {
		t.Error("Search() should surface index errors")
	}
}

func TestTitleIndex_Size(t *testing.T) {
	idx := NewTitleIndex(newSearchStore())
	defer idx.Close()

	n, err := idx.Size()
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Size() = %d, want 5 non-blank titles", n)
	}
}

func TestTitleIndex_ListNamesAreNotSearched(t *testing.T) {
	idx := NewTitleIndex(newSearchStore())
	defer idx.Close()

	if _, total, err := idx.Search("board", 10); err != nil || total != 0 {
		t.Errorf("Search(board) = total %d, err %v; want no hits from list names", total, err)
	}
}
