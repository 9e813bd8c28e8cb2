// Package wiki fetches article extracts and random titles from a MediaWiki
// content API. Each call issues exactly one request; there is no retry.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/redactle/redactle-server/internal/failure"
)

const (
	// DefaultAPIURL is the English Wikipedia action API.
	DefaultAPIURL = "https://en.wikipedia.org/w/api.php"

	// DefaultUserAgent identifies us to the API, which rejects anonymous clients.
	DefaultUserAgent = "redactle-server/0.1 (word guessing game)"
)

// titleSeparator delimits multiple titles in a single query.
const titleSeparator = "|"

// Page is an article title with its HTML extract.
type Page struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// Client talks to the content API.
type Client struct {
	apiURL    string
	userAgent string
	http      *http.Client
	schemas   *responseSchemas
}

// New creates a Client for apiURL. A nil httpClient uses the transport defaults.
func New(apiURL, userAgent string, httpClient *http.Client) (*Client, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	return &Client{
		apiURL:    strings.TrimRight(apiURL, "?"),
		userAgent: userAgent,
		http:      httpClient,
		schemas:   schemas,
	}, nil
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type pageEntry struct {
	Title   string          `json:"title"`
	Extract string          `json:"extract"`
	Missing json.RawMessage `json:"missing"`
	Invalid json.RawMessage `json:"invalid"`
}

type extractsResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Pages map[string]pageEntry `json:"pages"`
	} `json:"query"`
}

type randomResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Random []struct {
			Title string `json:"title"`
		} `json:"random"`
	} `json:"query"`
}

// FetchPage returns the title and extract of the article named title,
// following redirects. It fails with failure.ErrNotFound when the API
// knows no such page and with failure.ErrTransport on any request or
// decode problem. A title containing '|' is NotFound without a request:
// the API would split it into several titles.
func (c *Client) FetchPage(ctx context.Context, title string) (Page, error) {
	if strings.Contains(title, titleSeparator) {
		return Page{}, failure.NotFound("page %q", title)
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("redirects", "")
	params.Set("format", "json")
	params.Set("titles", title)

	body, err := c.get(ctx, params)
	if err != nil {
		return Page{}, err
	}
	if err := validate(c.schemas.page, body); err != nil {
		return Page{}, failure.Transport(err)
	}

	var resp extractsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Page{}, failure.Transport(err)
	}
	if resp.Error != nil {
		return Page{}, failure.Transport(resp.Error)
	}

	page, ok := firstPage(resp.Query.Pages)
	if !ok {
		return Page{}, failure.NotFound("page %q", title)
	}
	return page, nil
}

// FetchRandomTitle returns the title of one random article in the main namespace.
func (c *Client) FetchRandomTitle(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "random")
	params.Set("rnnamespace", "0")
	params.Set("rnlimit", "1")
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}
	if err := validate(c.schemas.random, body); err != nil {
		return "", failure.Transport(err)
	}

	var resp randomResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", failure.Transport(err)
	}
	if resp.Error != nil {
		return "", failure.Transport(resp.Error)
	}
	if len(resp.Query.Random) == 0 {
		return "", failure.NotFound("random page")
	}
	return resp.Query.Random[0].Title, nil
}

// get issues one GET with params percent-encoded into the query string.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	u := c.apiURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, failure.Transport(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failure.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failure.Transport(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, failure.Transport(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return body, nil
}

// firstPage picks the existing page with the lowest numeric id.
// Missing and invalid titles come back with negative ids and are skipped.
func firstPage(pages map[string]pageEntry) (Page, bool) {
	ids := make([]int, 0, len(pages))
	byID := make(map[int]pageEntry, len(pages))
	for key, p := range pages {
		id, err := strconv.Atoi(key)
		if err != nil || id < 0 || p.Missing != nil || p.Invalid != nil {
			continue
		}
		ids = append(ids, id)
		byID[id] = p
	}
	if len(ids) == 0 {
		return Page{}, false
	}

	sort.Ints(ids)
	p := byID[ids[0]]
	return Page{Title: p.Title, Extract: p.Extract}, true
}

func (e *apiError) Error() string {
	if e.Info == "" {
		return "api error " + e.Code
	}
	return e.Code + ": " + e.Info
}

