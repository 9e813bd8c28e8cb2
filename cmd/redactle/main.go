// Command redactle runs the game operations from the shell and serves the
// websocket feed for the browser client.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/redactle/redactle-server/internal/chat"
	"github.com/redactle/redactle-server/internal/config"
	"github.com/redactle/redactle-server/internal/game"
	"github.com/redactle/redactle-server/internal/lists"
	"github.com/redactle/redactle-server/internal/wiki"
)

const version = "0.3.0"

// Globals holds flags shared by every command.
type Globals struct {
	API       string `name:"api" help:"Content API endpoint" default:"${api_url}"`
	UserAgent string `name:"user-agent" help:"User-Agent sent to the content API" default:"${user_agent}"`
	ListsDir  string `name:"lists-dir" short:"l" help:"Directory of title lists" default:"${lists_dir}" type:"path"`

	out io.Writer `kong:"-"`
}

// CLI defines the command-line interface for redactle.
type CLI struct {
	Globals

	Classify ClassifyCmd `cmd:"" help:"Print the word-class identifier of each word"`
	Page     PageCmd     `cmd:"" help:"Fetch an article and print its redacted markup"`
	Random   RandomCmd   `cmd:"" help:"Print a random article title"`
	Lists    ListsCmd    `cmd:"" name:"lists" help:"Print the available title lists"`
	Search   SearchCmd   `cmd:"" help:"Search list titles"`
	Serve    ServeCmd    `cmd:"" help:"Serve the websocket feed of chat guesses and list changes"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

func (g *Globals) stdout() io.Writer {
	if g.out != nil {
		return g.out
	}
	return os.Stdout
}

// service builds the game service. The returned index must be closed.
func (g *Globals) service() (*game.Service, *lists.TitleIndex, error) {
	client, err := wiki.New(g.API, g.UserAgent, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create content API client: %w", err)
	}
	store := lists.NewStore(g.ListsDir)
	index := lists.NewTitleIndex(store)
	return game.New(client, store, index), index, nil
}

// ClassifyCmd prints word-class identifiers.
type ClassifyCmd struct {
	Words []string `arg:"" help:"Words to classify"`
}

func (c *ClassifyCmd) Run(g *Globals) error {
	w := tabwriter.NewWriter(g.stdout(), 0, 4, 2, ' ', 0)
	for _, word := range game.Words(strings.Join(c.Words, " ")) {
		fmt.Fprintf(w, "%s\t%s\n", word.Unstemmed, word.Stemmed)
	}
	return w.Flush()
}

// PageCmd prints a redacted article.
type PageCmd struct {
	Title string `arg:"" help:"Article title"`
}

func (c *PageCmd) Run(g *Globals) error {
	svc, index, err := g.service()
	if err != nil {
		return err
	}
	defer index.Close()

	html, err := svc.RedactedPage(context.Background(), c.Title)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.stdout(), html)
	return err
}

// RandomCmd prints a random title.
type RandomCmd struct {
	List string `help:"Pick from this title list instead of the whole encyclopedia"`
}

func (c *RandomCmd) Run(g *Globals) error {
	svc, index, err := g.service()
	if err != nil {
		return err
	}
	defer index.Close()

	title, err := svc.RandomTitle(context.Background(), c.List)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.stdout(), title)
	return err
}

// ListsCmd prints the list names.
type ListsCmd struct{}

func (c *ListsCmd) Run(g *Globals) error {
	svc, index, err := g.service()
	if err != nil {
		return err
	}
	defer index.Close()

	names, err := svc.Lists()
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(g.stdout(), name)
	}
	return nil
}

// SearchCmd searches list titles.
type SearchCmd struct {
	Query []string `arg:"" help:"Search terms"`
	Max   int      `help:"Maximum number of results" default:"10"`
}

func (c *SearchCmd) Run(g *Globals) error {
	svc, index, err := g.service()
	if err != nil {
		return err
	}
	defer index.Close()

	hits, total, err := svc.SearchTitles(strings.Join(c.Query, " "), c.Max)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(g.stdout(), 0, 4, 2, ' ', 0)
	for _, h := range hits {
		fmt.Fprintf(w, "%.3f\t%s\t%s\n", h.Score, h.List, h.Title)
	}
	fmt.Fprintf(w, "(%d of %d matches)\n", len(hits), total)
	return w.Flush()
}

// ServeCmd runs the websocket server.
type ServeCmd struct {
	Listen string `help:"Address to listen on" default:"${listen_addr}"`
	Chat   string `help:"Twitch channel whose chat is relayed as guesses (empty disables chat)" default:"${chat_channel}"`
}

func (c *ServeCmd) Run(g *Globals) error {
	svc, index, err := g.service()
	if err != nil {
		return err
	}
	defer index.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := chat.NewHub()
	go hub.Run(ctx)

	if watcher, err := lists.NewWatcher(g.ListsDir); err != nil {
		log.Printf("Warning: list watcher unavailable: %v", err)
	} else if changes, err := watcher.Watch(ctx); err != nil {
		log.Printf("Warning: not watching %s: %v", g.ListsDir, err)
		watcher.Stop()
	} else {
		defer watcher.Stop()
		go svc.FollowLists(changes, hub.PublishLists)
	}

	if c.Chat != "" {
		source := chat.NewTwitchSource(c.Chat)
		go func() {
			if err := source.Run(ctx, hub.PublishChat); err != nil {
				log.Printf("Warning: chat relay stopped: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:        c.Listen,
		Handler:     newMux(svc, hub),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Printf("Shutting down...")

		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()

		if err := srv.Shutdown(shutCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("✓ Listening on %s", c.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status      string `json:"status"`
	Subscribers int    `json:"subscribers"`
	Lists       int    `json:"lists"`
}

func newMux(svc *game.Service, hub *chat.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", hub)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok", Subscribers: hub.Subscribers()}
		if names, err := svc.Lists(); err != nil {
			resp.Status = "degraded"
		} else {
			resp.Lists = len(names)
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	})
	return mux
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.stdout(), "redactle version %s\n", version)
	return err
}

// vars exposes the environment configuration as flag defaults.
func vars(cfg *config.Cfg) kong.Vars {
	return kong.Vars{
		"api_url":      cfg.APIURL,
		"user_agent":   cfg.UserAgent,
		"lists_dir":    cfg.ListsDir,
		"listen_addr":  cfg.ListenAddr,
		"chat_channel": cfg.ChatChannel,
	}
}

func main() {
	log.SetOutput(os.Stderr)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("redactle"),
		kong.Description("Redactle - guess the article behind the redacted words"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		vars(config.Load()),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
