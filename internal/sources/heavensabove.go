package sources

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

const issSatID = "25544"

var digitsRe = regexp.MustCompile(`[^0-9]`)

// FetchISS fetches the Heavens-Above pass summary for the given coordinates
// and returns the best upcoming ISS pass, scored by altitude against
// magnitude. A pass summary with no usable rows returns (nil, nil).
func (c *Client) FetchISS(ctx context.Context, lat, lon float64, tz string) (*domain.ISSPass, error) {
	doc, err := c.fetchDocument(ctx, c.haBase+"?"+passParams(lat, lon, tz).Encode())
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: heavens-above pass table missing", domain.ErrSourceUnavailable)
	}

	var best *domain.ISSPass
	bestScore := 0.0
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var tds []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			tds = append(tds, squeeze(td.Text()))
		})
		if len(tds) < 10 {
			return
		}
		pass := &domain.ISSPass{
			Date:    tds[0],
			Mag:     tds[1],
			Start:   tds[2],
			MaxTime: tds[5],
			MaxAlt:  tds[6],
		}
		score := passScore(pass)
		if best == nil || score > bestScore {
			best, bestScore = pass, score
		}
	})
	return best, nil
}

// passScore favours high passes and bright (low) magnitudes.
func passScore(p *domain.ISSPass) float64 {
	alt, err := strconv.Atoi(digitsRe.ReplaceAllString(p.MaxAlt, ""))
	if err != nil {
		alt = 0
	}
	mag, err := strconv.ParseFloat(p.Mag, 64)
	if err != nil {
		mag = 99.0
	}
	return float64(alt) - mag*5
}

func passParams(lat, lon float64, tz string) url.Values {
	return url.Values{
		"satid": {issSatID},
		"lat":   {fmt.Sprintf("%.4f", lat)},
		"lng":   {fmt.Sprintf("%.4f", lon)},
		"alt":   {"0"},
		"loc":   {"Observer"},
		"tz":    {tzAbbr(tz)},
	}
}

func tzAbbr(tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "UTC"
	}
	abbr, _ := time.Now().In(loc).Zone()
	if abbr == "" {
		return "UTC"
	}
	return abbr
}
