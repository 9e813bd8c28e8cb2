package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/redactle/redactle-server/internal/chat"
	"github.com/redactle/redactle-server/internal/config"
	"github.com/redactle/redactle-server/internal/game"
	"github.com/redactle/redactle-server/internal/lists"
	"github.com/redactle/redactle-server/internal/wiki"
)

// Test helper functions

func createListsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Video Games": "Portal\nTetris\n",
		"Board Games": "Chess\n\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to create list file: %v", err)
		}
	}
	return dir
}

// runCLI parses args like the real binary and returns what the command printed.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var cli CLI
	parser, err := kong.New(&cli, kong.Name("redactle"), vars(config.FromEnv()))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}

	var out bytes.Buffer
	cli.Globals.out = &out
	if err := ctx.Run(&cli.Globals); err != nil {
		t.Fatalf("Run(%v) error = %v", args, err)
	}
	return out.String()
}

func TestClassifyCmd(t *testing.T) {
	out := runCLI(t, "classify", "games", "Gaming")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	first := strings.Fields(lines[0])
	second := strings.Fields(lines[1])
	if first[0] != "games" || second[0] != "Gaming" {
		t.Errorf("expected original words first, got %q", out)
	}
	if first[1] != second[1] {
		t.Errorf("expected a shared identifier, got %q", out)
	}
}

func TestListsCmd(t *testing.T) {
	dir := createListsDir(t)

	out := runCLI(t, "--lists-dir", dir, "lists")
	if out != "Board Games\nVideo Games\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRandomCmd_FromList(t *testing.T) {
	dir := createListsDir(t)

	out := runCLI(t, "-l", dir, "random", "--list", "Board Games")
	if out != "Chess\n" {
		t.Errorf("expected Chess, got %q", out)
	}
}

func TestSearchCmd(t *testing.T) {
	dir := createListsDir(t)

	out := runCLI(t, "-l", dir, "search", "tetris")
	if !strings.Contains(out, "Video Games") || !strings.Contains(out, "Tetris") {
		t.Errorf("expected Tetris in Video Games, got %q", out)
	}
	if !strings.Contains(out, "(1 of 1 matches)") {
		t.Errorf("expected match summary, got %q", out)
	}
}

func TestPageCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("titles") != "Chess" {
			t.Errorf("unexpected titles parameter %q", r.URL.Query().Get("titles"))
		}
		w.Write([]byte(`{"query":{"pages":{"5134":{"title":"Chess","extract":"<p>Chess</p>"}}}}`))
	}))
	defer srv.Close()

	out := runCLI(t, "--api", srv.URL, "page", "Chess")
	if !strings.HasPrefix(out, `<h1 id="the-title"><span title="5"`) {
		t.Errorf("expected redacted page, got %q", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out := runCLI(t, "version")
	if out != "redactle version "+version+"\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestHealth(t *testing.T) {
	client, err := wiki.New("http://127.0.0.1:0", "", nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		dir        string
		wantStatus int
		wantBody   healthResponse
	}{
		{
			name:       "ok",
			dir:        createListsDir(t),
			wantStatus: http.StatusOK,
			wantBody:   healthResponse{Status: "ok", Lists: 2},
		},
		{
			name:       "missing lists directory",
			dir:        filepath.Join(t.TempDir(), "missing"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   healthResponse{Status: "degraded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := game.New(client, lists.NewStore(tt.dir), nil)
			mux := newMux(svc, chat.NewHub())

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got healthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid body %q: %v", rec.Body.String(), err)
			}
			if got != tt.wantBody {
				t.Errorf("body = %+v, want %+v", got, tt.wantBody)
			}
		})
	}
}
