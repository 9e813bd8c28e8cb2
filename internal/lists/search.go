package lists

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

const (
	defaultMaxHits = 10
	maxHitsLimit   = 50
	indexBatchSize = 500
)

// titleDoc is one indexed title.
type titleDoc struct {
	List  string `json:"list"`
	Title string `json:"title"`
}

// TitleHit is a search result.
type TitleHit struct {
	List  string  `json:"list"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// TitleIndex is a full-text index over the titles of every list.
// It lives in memory and is rebuilt from the store on demand, typically when
// the lists directory changes.
type TitleIndex struct {
	store *Store

	// current holds the active index pointer (atomic access for lock-free reads)
	current atomic.Pointer[Index]

	// refreshMu prevents concurrent rebuilds; searches never take it
	refreshMu sync.Mutex

	// wg tracks in-flight searches so a replaced index is closed only once idle
	wg sync.WaitGroup
}

// NewTitleIndex creates an empty TitleIndex over store. The first Search builds it.
func NewTitleIndex(store *Store) *TitleIndex {
	return &TitleIndex{store: store}
}

// Rebuild re-reads every list and atomically replaces the index.
func (x *TitleIndex) Rebuild() error {
	x.refreshMu.Lock()
	defer x.refreshMu.Unlock()

	start := time.Now()
	idx, count, err := x.build()
	if err != nil {
		return err
	}

	old := x.current.Swap(&idx)
	if old != nil {
		x.wg.Wait()
		if err := (*old).Close(); err != nil {
			log.Printf("Warning: closing previous title index: %v", err)
		}
	}

	log.Printf("✓ Title index rebuilt (%d titles) in %v", count, time.Since(start).Round(time.Millisecond))
	return nil
}

func (x *TitleIndex) build() (Index, int, error) {
	names, err := x.store.Available()
	if err != nil {
		return nil, 0, err
	}

	mapping := bleve.NewIndexMapping()
	mapping.DefaultAnalyzer = en.AnalyzerName

	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, 0, fmt.Errorf("create title index: %w", err)
	}

	count := 0
	batch := index.NewBatch()
	for _, name := range names {
		titles, err := x.store.Titles(name)
		if err != nil {
			// A list removed between Available and Titles is simply skipped.
			log.Printf("Warning: skipping list %q: %v", name, err)
			continue
		}
		for i, title := range titles {
			id := name + "/" + strconv.Itoa(i)
			if err := batch.Index(id, titleDoc{List: name, Title: title}); err != nil {
				index.Close()
				return nil, 0, fmt.Errorf("index title %q: %w", title, err)
			}
			count++

			if batch.Size() >= indexBatchSize {
				if err := index.Batch(batch); err != nil {
					index.Close()
					return nil, 0, fmt.Errorf("index batch: %w", err)
				}
				batch = index.NewBatch()
			}
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, 0, fmt.Errorf("index final batch: %w", err)
		}
	}

	return newBleveTitles(index), count, nil
}

// Search runs a match query over all titles and returns the best hits
// and the total number of matches.
func (x *TitleIndex) Search(query string, maxHits int) ([]TitleHit, int, error) {
	if x.current.Load() == nil {
		if err := x.ensureBuilt(); err != nil {
			return nil, 0, err
		}
	}

	// Track in-flight searches for graceful cleanup (MUST be before Load)
	x.wg.Add(1)
	defer x.wg.Done()

	indexPtr := x.current.Load()
	if indexPtr == nil {
		return nil, 0, fmt.Errorf("title index closed")
	}
	index := *indexPtr

	if maxHits <= 0 {
		maxHits = defaultMaxHits
	}
	if maxHits > maxHitsLimit {
		maxHits = maxHitsLimit
	}

	return index.Search(query, maxHits)
}

// Size returns the number of indexed titles, building the index if needed.
func (x *TitleIndex) Size() (uint64, error) {
	if x.current.Load() == nil {
		if err := x.ensureBuilt(); err != nil {
			return 0, err
		}
	}

	x.wg.Add(1)
	defer x.wg.Done()

	indexPtr := x.current.Load()
	if indexPtr == nil {
		return 0, fmt.Errorf("title index closed")
	}
	return (*indexPtr).DocCount()
}

// ensureBuilt builds the index unless another caller already did.
// It runs outside the wg so a concurrent Rebuild never waits on it.
func (x *TitleIndex) ensureBuilt() error {
	x.refreshMu.Lock()
	defer x.refreshMu.Unlock()

	if x.current.Load() != nil {
		return nil
	}
	idx, count, err := x.build()
	if err != nil {
		return err
	}
	x.current.Store(&idx)
	log.Printf("✓ Title index built (%d titles)", count)
	return nil
}

// Close releases the index. Later searches rebuild it.
func (x *TitleIndex) Close() error {
	indexPtr := x.current.Swap(nil)
	if indexPtr == nil {
		return nil
	}
	x.wg.Wait()
	return (*indexPtr).Close()
}
