package sources

import (
	"strings"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

// SourceURLs returns direct links to the pages a user's report is built
// from. The Heavens-Above link is empty until GPS coordinates are known.
func (c *Client) SourceURLs(u *domain.UserSettings) domain.SourceLinks {
	links := domain.SourceLinks{
		TimeAndDate: c.tadBase + strings.TrimPrefix(u.LocationPath, "/"),
		EarthSky:    c.earthSkyURL,
	}
	if u.HasCoords() {
		links.HeavensAbove = c.haBase + "?" + passParams(*u.Lat, *u.Lon, u.TZ).Encode()
	}
	return links
}
