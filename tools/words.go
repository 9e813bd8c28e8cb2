package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redactle/redactle-server/internal/game"
)

// ClassifyWordInput defines input for classify_word tool
type ClassifyWordInput struct {
	Word string `json:"word" jsonschema:"A guessed word, or several separated by whitespace"`
}

// ClassifyWordOutput defines output for classify_word tool
type ClassifyWordOutput struct {
	Words []game.Word `json:"words"`
	Count int         `json:"count"`
}

// ClassifyWord returns the word-class identifier of every word in the input
func (h *Handlers) ClassifyWord(ctx context.Context, req *mcp.CallToolRequest, input ClassifyWordInput) (*mcp.CallToolResult, ClassifyWordOutput, error) {
	if strings.TrimSpace(input.Word) == "" {
		return nil, ClassifyWordOutput{}, fmt.Errorf("word is required")
	}

	words := game.Words(input.Word)
	return nil, ClassifyWordOutput{Words: words, Count: len(words)}, nil
}

func (h *Handlers) registerWordTools(server *mcp.Server) int {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "classify_word",
			Description: "Compute the word-class identifier of a guess. Every inflection of the same root (game, games, gaming) gets the same identifier, which matches the word--ID class on the redacted placeholders.",
		},
		h.ClassifyWord,
	)
	return 1
}
