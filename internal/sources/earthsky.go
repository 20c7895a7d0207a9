package sources

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const earthSkyMaxRunes = 400

// FetchEarthSky returns the lead paragraph of the EarthSky visible-planets
// page, truncated to a message-friendly length.
func (c *Client) FetchEarthSky(ctx context.Context) (string, error) {
	doc, err := c.fetchDocument(ctx, c.earthSkyURL)
	if err != nil {
		return "", err
	}

	var para *goquery.Selection
	if h := findVisiblePlanetsHeading(doc); h != nil {
		para = h.NextAllFiltered("p").First()
		if para.Length() == 0 {
			para = h.Parent().Find("p").First()
		}
	}
	if para == nil || para.Length() == 0 {
		para = doc.Find("p").First()
	}
	if para.Length() == 0 {
		return "", nil
	}

	txt := squeeze(para.Text())
	if runes := []rune(txt); len(runes) > earthSkyMaxRunes {
		txt = string(runes[:earthSkyMaxRunes]) + "…"
	}
	return txt, nil
}

func findVisiblePlanetsHeading(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("h1, h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(h.Text()), "visible planets") {
			found = h
			return false
		}
		return true
	})
	return found
}
