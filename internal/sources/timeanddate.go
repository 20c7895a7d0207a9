package sources

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

var (
	moonRe    = regexp.MustCompile(`Moon:\s*([0-9.]+%)`)
	nightRe   = regexp.MustCompile(`Night Time:\s*(.*?)\s*Sunset:\s*(.*?)\s*Sunrise:\s*(.*?)(?:\s+Moon:|$)`)
	pageTime  = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*[ap]m)\b`)
	commentRe = regexp.MustCompile(`(?i)(Good|Fairly good|Average|Difficult|Perfect|Very difficult).*?visibility`)
)

var fallbackPlanets = []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"}

// FetchNightSky fetches and parses the timeanddate night-sky page for a
// location path such as "usa/detroit". Parsing is defensive: if the layout
// changed, a minimal summary with city and date is still returned.
func (c *Client) FetchNightSky(ctx context.Context, path, tz string) (*domain.NightSummary, error) {
	url := c.tadBase + strings.TrimPrefix(path, "/")
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	sum := &domain.NightSummary{
		Date: nowInTZ(tz).Format("Jan 02, 2006"),
		City: path,
	}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		txt := squeeze(h1.Text())
		if city := strings.TrimSpace(strings.Replace(txt, "Night Sky Tonight in ", "", 1)); city != "" {
			sum.City = city
		}
	}

	if block := findBlock(doc, "Night Time:"); block != "" {
		if m := moonRe.FindStringSubmatch(block); m != nil {
			sum.MoonPhase = m[1]
		}
		if m := nightRe.FindStringSubmatch(block); m != nil {
			sum.NightTime = strings.TrimSpace(m[1])
			sum.Sunset = strings.TrimSpace(m[2])
			sum.Sunrise = strings.TrimSpace(m[3])
		}
	}

	sum.Planets = extractPlanetTable(doc)
	if len(sum.Planets) == 0 {
		sum.Planets = extractPlanetSections(doc)
	}
	if len(sum.Planets) == 0 {
		c.log.Warn("no planets extracted, page layout may have changed",
			zap.String("url", url))
	}

	return sum, nil
}

// extractPlanetTable reads the "Planets Visible in ..." table:
// name, rise, set and comment columns.
func extractPlanetTable(doc *goquery.Document) []domain.PlanetWindow {
	var planets []domain.PlanetWindow

	hdr := findHeading(doc, "Planets Visible in")
	if hdr == nil {
		return nil
	}
	table := hdr.NextAllFiltered("table").First()
	if table.Length() == 0 {
		table = hdr.Parent().NextAllFiltered("table").First()
	}
	if table.Length() == 0 {
		return nil
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		var cols []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cols = append(cols, squeeze(cell.Text()))
		})
		if len(cols) >= 5 {
			planets = append(planets, domain.PlanetWindow{
				Name:    cols[0],
				Rise:    cols[1],
				Set:     cols[2],
				Comment: cols[4],
			})
		}
	})
	return planets
}

// extractPlanetSections is the fallback for pages without the table: one
// "<planet> rise and set" h3 section per planet.
func extractPlanetSections(doc *goquery.Document) []domain.PlanetWindow {
	var planets []domain.PlanetWindow
	for _, name := range fallbackPlanets {
		prefix := strings.ToLower(name + " rise and set")
		var section *goquery.Selection
		doc.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
			if strings.HasPrefix(strings.ToLower(squeeze(h.Text())), prefix) {
				section = h
				return false
			}
			return true
		})
		if section == nil {
			continue
		}
		txt := squeeze(section.Parent().Text())
		times := pageTime.FindAllString(txt, 2)

		p := domain.PlanetWindow{Name: name}
		if len(times) > 0 {
			p.Rise = times[0]
		}
		if len(times) > 1 {
			p.Set = times[1]
		}
		if m := commentRe.FindString(txt); m != "" {
			p.Comment = m
		}
		planets = append(planets, p)
	}
	return planets
}

// findHeading returns the first h1..h4 whose text contains the marker.
func findHeading(doc *goquery.Document, marker string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(h.Text(), marker) {
			found = h
			return false
		}
		return true
	})
	return found
}

// findBlock returns the text of the smallest element containing the marker,
// approximating "the text node's direct parent".
func findBlock(doc *goquery.Document, marker string) string {
	best := ""
	doc.Find("p, td, th, div, section, span").Each(func(_ int, s *goquery.Selection) {
		txt := squeeze(s.Text())
		if !strings.Contains(txt, marker) {
			return
		}
		if best == "" || len(txt) < len(best) {
			best = txt
		}
	})
	return best
}

// squeeze collapses all whitespace runs to single spaces.
func squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nowInTZ(tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
