package lists

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
)

// Index is one immutable generation of the title search. TitleIndex swaps
// generations atomically; tests substitute their own.
type Index interface {
	// Search returns up to size hits for query and the total number of matches.
	Search(query string, size int) ([]TitleHit, int, error)

	// DocCount returns the number of indexed titles.
	DocCount() (uint64, error)

	Close() error
}

// bleveTitles serves title queries from a bleve index of titleDoc documents.
type bleveTitles struct {
	index bleve.Index
}

func newBleveTitles(index bleve.Index) Index {
	return &bleveTitles{index: index}
}

// Search runs a match query against the title field only, so list names
// never produce hits.
func (b *bleveTitles) Search(query string, size int) ([]TitleHit, int, error) {
	match := bleve.NewMatchQuery(query)
	match.SetField("title")

	req := bleve.NewSearchRequest(match)
	req.Size = size
	req.Fields = []string{"list", "title"}

	res, err := b.index.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search titles: %w", err)
	}

	hits := make([]TitleHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := TitleHit{Score: h.Score}
		hit.List, _ = h.Fields["list"].(string)
		hit.Title, _ = h.Fields["title"].(string)
		hits = append(hits, hit)
	}
	return hits, int(res.Total), nil
}

func (b *bleveTitles) DocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *bleveTitles) Close() error {
	return b.index.Close()
}
