package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FetchRedactedPageInput defines input for fetch_redacted_page tool
type FetchRedactedPageInput struct {
	Title string `json:"title" jsonschema:"Article title to fetch"`
}

// FetchRedactedPageOutput defines output for fetch_redacted_page tool
type FetchRedactedPageOutput struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// FetchRedactedPage fetches an article and returns its redacted markup
func (h *Handlers) FetchRedactedPage(ctx context.Context, req *mcp.CallToolRequest, input FetchRedactedPageInput) (*mcp.CallToolResult, FetchRedactedPageOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, FetchRedactedPageOutput{}, fmt.Errorf("title is required")
	}

	html, err := h.svc.RedactedPage(ctx, title)
	if err != nil {
		return nil, FetchRedactedPageOutput{}, err
	}
	return nil, FetchRedactedPageOutput{Title: title, HTML: html}, nil
}

// RandomTitleInput defines input for random_title tool
type RandomTitleInput struct {
	List string `json:"list,omitempty" jsonschema:"Curated list to pick from (optional, defaults to any article)"`
}

// RandomTitleOutput defines output for random_title tool
type RandomTitleOutput struct {
	Title string `json:"title"`
	List  string `json:"list,omitempty"`
}

// RandomTitle picks a title from a curated list or the whole encyclopedia
func (h *Handlers) RandomTitle(ctx context.Context, req *mcp.CallToolRequest, input RandomTitleInput) (*mcp.CallToolResult, RandomTitleOutput, error) {
	title, err := h.svc.RandomTitle(ctx, input.List)
	if err != nil {
		return nil, RandomTitleOutput{}, err
	}
	return nil, RandomTitleOutput{Title: title, List: input.List}, nil
}

func (h *Handlers) registerPageTools(server *mcp.Server) int {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "fetch_redacted_page",
			Description: "Fetch an encyclopedia article and return it as HTML with every word replaced by a placeholder showing only its length and word-class identifier. Markup and entities are preserved.",
		},
		h.FetchRedactedPage,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "random_title",
			Description: "Pick a random article title, either from a curated list (see list_title_lists) or from the whole encyclopedia",
		},
		h.RandomTitle,
	)
	return 2
}
