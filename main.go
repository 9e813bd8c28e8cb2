package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redactle/redactle-server/internal/config"
	"github.com/redactle/redactle-server/internal/game"
	"github.com/redactle/redactle-server/internal/lists"
	"github.com/redactle/redactle-server/internal/wiki"
	"github.com/redactle/redactle-server/tools"
)

const (
	version     = "0.3.0"
	serverName  = "redactle-server"
	description = "MCP server for the Redactle word-guessing game"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// Set up logging to stderr (MCP uses stdout for protocol)
	log.SetOutput(os.Stderr)
	log.Printf("%s v%s starting...", serverName, version)

	cfg := config.Load()

	client, err := wiki.New(cfg.APIURL, cfg.UserAgent, nil)
	if err != nil {
		log.Fatalf("Failed to create content API client: %v", err)
	}
	store := lists.NewStore(cfg.ListsDir)
	index := lists.NewTitleIndex(store)
	svc := game.New(client, store, index)

	// Set up cleanup on shutdown
	defer func() {
		if err := index.Close(); err != nil {
			log.Printf("Error closing title index: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchLists(ctx, cfg.ListsDir, svc)

	server := createMCPServer()
	n := tools.NewHandlers(svc).Register(server)
	log.Printf("✓ All tools registered: %d tools", n)
	log.Printf("✓ Server ready and waiting for connections")

	// Run server with stdio transport
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Printf("Server error: %v", err)
	}
}

// createMCPServer initializes the MCP server
func createMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: description,
		},
	)

	log.Printf("Server initialized: %s v%s", serverName, version)
	return server
}

// watchLists keeps the title index in step with the lists directory. A
// directory that cannot be watched only disables the automatic rebuild.
func watchLists(ctx context.Context, dir string, svc *game.Service) {
	watcher, err := lists.NewWatcher(dir)
	if err != nil {
		log.Printf("Warning: list watcher unavailable: %v", err)
		return
	}
	changes, err := watcher.Watch(ctx)
	if err != nil {
		log.Printf("Warning: not watching %s: %v", dir, err)
		watcher.Stop()
		return
	}

	go func() {
		svc.FollowLists(changes, nil)
		watcher.Stop()
	}()
}
