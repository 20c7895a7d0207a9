// Package search queries SerpAPI for recent astronomy articles so the
// summarizer can ground its prompts in fresh context. The whole feature is
// optional: without an API key no searches run and prompts carry scraped
// facts only.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://serpapi.com"

	resultLimit    = 8
	pageFetchLimit = 3
	pageTextLimit  = 4000
)

const userAgent = "Mozilla/5.0"

// Result is one search hit, plus the linked page's visible text when page
// fetching is enabled.
type Result struct {
	Title    string
	Link     string
	Snippet  string
	PageText string
}

// Client wraps SerpAPI's Google search endpoint.
type Client struct {
	key        string
	fetchPages bool
	httpClient *http.Client
	log        *zap.Logger

	// baseURL is a field so tests can point it at a local server.
	baseURL string
}

func NewClient(key string, fetchPages bool, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		key:        key,
		fetchPages: fetchPages,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		baseURL:    defaultBaseURL,
	}
}

type searchResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Search runs one Google query and returns up to eight organic results.
// When page fetching is on, the first three linked pages are fetched and
// their visible text attached. Page fetch failures are logged and skipped;
// a failed search itself is an error.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.key == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("num", "10")
	q.Set("api_key", c.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("search: decode: %w", err)
	}

	var out []Result
	for i, it := range body.OrganicResults {
		if i >= resultLimit {
			break
		}
		r := Result{Title: it.Title, Link: it.Link, Snippet: it.Snippet}
		if c.fetchPages && it.Link != "" && i < pageFetchLimit {
			r.PageText = c.fetchPageText(ctx, it.Link)
		}
		out = append(out, r)
	}
	return out, nil
}

// fetchPageText pulls a result page and reduces it to visible text, dropping
// chrome elements and collapsing whitespace. Best-effort: any failure yields
// an empty string.
func (c *Client) fetchPageText(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("result page fetch failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, header, footer, nav").Remove()

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	runes := []rune(text)
	if len(runes) > pageTextLimit {
		text = string(runes[:pageTextLimit])
	}
	return text
}
