// Package game wires the page source, the list store and the redactor into
// the operations a client calls: classify a guess, fetch a redacted page,
// pick a title, enumerate and search lists.
package game

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/redactle/redactle-server/internal/lists"
	"github.com/redactle/redactle-server/internal/redact"
	"github.com/redactle/redactle-server/internal/wiki"
)

// PageSource fetches articles. *wiki.Client implements it.
type PageSource interface {
	FetchPage(ctx context.Context, title string) (wiki.Page, error)
	FetchRandomTitle(ctx context.Context) (string, error)
}

// Word is a guessed word with the identifier it reveals.
type Word struct {
	Stemmed   string `json:"stemmed"`
	Unstemmed string `json:"unstemmed"`
}

// Service holds the collaborators for one game server. It has no mutable state
// of its own and is safe for concurrent use.
type Service struct {
	pages    PageSource
	store    *lists.Store
	index    *lists.TitleIndex
	redactor *redact.Redactor
}

// New creates a Service. index may be nil when title search is not wanted.
func New(pages PageSource, store *lists.Store, index *lists.TitleIndex) *Service {
	return &Service{
		pages:    pages,
		store:    store,
		index:    index,
		redactor: redact.NewRedactor(redact.Classify),
	}
}

// Classify returns the word-class identifier of word.
func (s *Service) Classify(word string) string {
	return redact.Classify(word)
}

// Words splits text on whitespace and classifies each piece.
func Words(text string) []Word {
	fields := strings.Fields(text)
	words := make([]Word, 0, len(fields))
	for _, f := range fields {
		words = append(words, Word{Stemmed: redact.Classify(f), Unstemmed: f})
	}
	return words
}

// RedactedPage fetches the article named title and returns it redacted.
func (s *Service) RedactedPage(ctx context.Context, title string) (string, error) {
	page, err := s.pages.FetchPage(ctx, title)
	if err != nil {
		return "", fmt.Errorf("fetch page %q: %w", title, err)
	}
	return s.redactor.Page(page.Title, page.Extract), nil
}

// RandomTitle picks a title from the named list, or from the whole
// encyclopedia when list is empty.
func (s *Service) RandomTitle(ctx context.Context, list string) (string, error) {
	if list != "" {
		return s.store.RandomTitle(list)
	}
	title, err := s.pages.FetchRandomTitle(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch random title: %w", err)
	}
	return title, nil
}

// Lists returns the names of the available title lists, in no particular order.
func (s *Service) Lists() ([]string, error) {
	return s.store.Available()
}

// SearchTitles searches every list for titles matching query.
func (s *Service) SearchTitles(query string, maxHits int) ([]lists.TitleHit, int, error) {
	if s.index == nil {
		return nil, 0, fmt.Errorf("title search is disabled")
	}
	return s.index.Search(query, maxHits)
}

// RefreshTitles rebuilds the title search index and returns how many titles it holds.
func (s *Service) RefreshTitles() (uint64, error) {
	if s.index == nil {
		return 0, fmt.Errorf("title search is disabled")
	}
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild title index: %w", err)
	}
	return s.index.Size()
}

// FollowLists consumes list changes until the channel closes, rebuilding the
// title index and passing the current list names to notify after each one.
// notify may be nil.
func (s *Service) FollowLists(changes <-chan lists.Change, notify func(names []string)) {
	for change := range changes {
		log.Printf("List %q %s", change.List, change.Op)

		if s.index != nil {
			if err := s.index.Rebuild(); err != nil {
				log.Printf("Warning: title index rebuild failed: %v", err)
			}
		}

		if notify == nil {
			continue
		}
		names, err := s.store.Available()
		if err != nil {
			log.Printf("Warning: reading lists: %v", err)
			continue
		}
		notify(names)
	}
}
