// Package sources scrapes the third-party astronomy pages a report is
// built from. The pages are not an API: extraction is defensive and every
// failure mode maps to domain.ErrSourceUnavailable so the report builder
// can degrade to partial data.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

const (
	defaultTADBase     = "https://www.timeanddate.com/astronomy/night/"
	defaultEarthSkyURL = "https://earthsky.org/astronomy-essentials/" +
		"visible-planets-tonight-mars-jupiter-venus-saturn-mercury/"
	defaultHABase = "https://heavens-above.com/PassSummary.aspx"
)

// Client fetches and extracts fields from the fixed-layout astronomy pages.
type Client struct {
	httpClient *http.Client
	log        *zap.Logger

	// Base URLs are fields so tests can point them at local servers.
	tadBase     string
	earthSkyURL string
	haBase      string
}

// NewClient creates a scraping client with the given HTTP timeout.
func NewClient(timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		log:         log,
		tadBase:     defaultTADBase,
		earthSkyURL: defaultEarthSkyURL,
		haBase:      defaultHABase,
	}
}

// fetchDocument issues a GET with a browser User-Agent and parses the body.
func (c *Client) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrSourceUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrSourceUnavailable, url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrSourceUnavailable, url, err)
	}
	return doc, nil
}
