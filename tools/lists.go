package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redactle/redactle-server/internal/lists"
)

// ListTitleListsInput defines input for list_title_lists tool
type ListTitleListsInput struct {
	// No input needed - returns every list
}

// ListTitleListsOutput defines output for list_title_lists tool
type ListTitleListsOutput struct {
	Lists []string `json:"lists"`
	Count int      `json:"count"`
}

// ListTitleLists returns the names of the curated title lists
func (h *Handlers) ListTitleLists(ctx context.Context, req *mcp.CallToolRequest, input ListTitleListsInput) (*mcp.CallToolResult, ListTitleListsOutput, error) {
	names, err := h.svc.Lists()
	if err != nil {
		return nil, ListTitleListsOutput{}, err
	}
	sort.Strings(names)
	return nil, ListTitleListsOutput{Lists: names, Count: len(names)}, nil
}

// SearchTitlesInput defines input for search_titles tool
type SearchTitlesInput struct {
	Query      string `json:"query" jsonschema:"Words to look for in list titles"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to 10)"`
}

// SearchTitlesOutput defines output for search_titles tool
type SearchTitlesOutput struct {
	Results   []lists.TitleHit `json:"results"`
	Query     string           `json:"query"`
	TotalHits int              `json:"total_hits"`
}

// SearchTitles searches every curated list for matching titles
func (h *Handlers) SearchTitles(ctx context.Context, req *mcp.CallToolRequest, input SearchTitlesInput) (*mcp.CallToolResult, SearchTitlesOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, SearchTitlesOutput{}, fmt.Errorf("query is required")
	}

	hits, total, err := h.svc.SearchTitles(query, input.MaxResults)
	if err != nil {
		return nil, SearchTitlesOutput{}, fmt.Errorf("search failed: %w", err)
	}
	return nil, SearchTitlesOutput{Results: hits, Query: query, TotalHits: total}, nil
}

// RefreshTitleIndexInput defines input for refresh_title_index tool
type RefreshTitleIndexInput struct{}

// RefreshTitleIndexOutput defines output for refresh_title_index tool
type RefreshTitleIndexOutput struct {
	TitlesIndexed uint64 `json:"titles_indexed"`
	Message       string `json:"message"`
}

// RefreshTitleIndex re-reads every list and rebuilds the title index
func (h *Handlers) RefreshTitleIndex(ctx context.Context, req *mcp.CallToolRequest, input RefreshTitleIndexInput) (*mcp.CallToolResult, RefreshTitleIndexOutput, error) {
	n, err := h.svc.RefreshTitles()
	if err != nil {
		return nil, RefreshTitleIndexOutput{}, err
	}
	return nil, RefreshTitleIndexOutput{
		TitlesIndexed: n,
		Message:       fmt.Sprintf("Title index rebuilt with %d titles", n),
	}, nil
}

func (h *Handlers) registerListTools(server *mcp.Server) int {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_title_lists",
			Description: "List the curated title lists that random_title can pick from",
		},
		h.ListTitleLists,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_titles",
			Description: "Full-text search over the titles of every curated list. Returns the best matches with their list and score.",
		},
		h.SearchTitles,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "refresh_title_index",
			Description: "Re-read the lists directory and rebuild the title search index (runs automatically when list files change)",
		},
		h.RefreshTitleIndex,
	)
	return 3
}
