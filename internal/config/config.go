package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/redactle/redactle-server/internal/lists"
	"github.com/redactle/redactle-server/internal/wiki"
)

// Cfg holds runtime configuration loaded from environment variables.
type Cfg struct {
	APIURL     string // REDACTLE_API_URL, content API endpoint
	UserAgent  string // REDACTLE_USER_AGENT
	ListsDir   string // REDACTLE_LISTS_DIR
	ListenAddr string // REDACTLE_LISTEN_ADDR, e.g. :8080

	// ChatChannel is the Twitch channel to read guesses from; empty disables chat.
	ChatChannel string // REDACTLE_CHAT_CHANNEL
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() *Cfg {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds Cfg from the process environment only.
func FromEnv() *Cfg {
	return &Cfg{
		APIURL:      envOr("REDACTLE_API_URL", wiki.DefaultAPIURL),
		UserAgent:   envOr("REDACTLE_USER_AGENT", wiki.DefaultUserAgent),
		ListsDir:    envOr("REDACTLE_LISTS_DIR", lists.DefaultDir),
		ListenAddr:  envOr("REDACTLE_LISTEN_ADDR", ":8080"),
		ChatChannel: strings.TrimSpace(os.Getenv("REDACTLE_CHAT_CHANNEL")),
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
