package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

const sourcesFooter = "Sources: timeanddate.com · Heavens-Above · EarthSky"

// FormatToday renders the plain single-day bulletin.
func FormatToday(sum *domain.NightSummary, iss *domain.ISSPass, earthSky string) string {
	var L []string
	L = append(L, fmt.Sprintf("TODAY — %s · %s", sum.City, sum.Date))

	if sum.Sunset != "" || sum.Sunrise != "" {
		L = append(L, fmt.Sprintf("Sunset %s · Sunrise %s", orUnknown(sum.Sunset), orUnknown(sum.Sunrise)))
	}
	if sum.MoonPhase != "" {
		L = append(L, "Moon: "+sum.MoonPhase)
	}

	var planetLines []string
	for _, p := range sum.Planets {
		if !domain.BrightPlanets[p.Name] {
			continue
		}
		var bits []string
		if p.Rise != "" {
			bits = append(bits, "↑ "+p.Rise)
		}
		if p.Set != "" {
			bits = append(bits, "↓ "+p.Set)
		}
		if p.Comment != "" {
			bits = append(bits, p.Comment)
		}
		line := "- " + p.Name
		if len(bits) > 0 {
			line += ": " + strings.Join(bits, ", ")
		}
		planetLines = append(planetLines, line)
	}
	if len(planetLines) > 0 {
		L = append(L, "Planets:")
		L = append(L, planetLines...)
	}

	if iss != nil {
		L = append(L, fmt.Sprintf("ISS: start %s, max %s at %s (mag %s)",
			iss.Start, iss.MaxAlt, iss.MaxTime, iss.Mag))
	}
	if earthSky != "" {
		L = append(L, "EarthSky: "+earthSky)
	}
	L = append(L, sourcesFooter)
	return strings.Join(L, "\n")
}

// weeklyWindows assigns the fixed observation window shown per planet in the
// weekly outlook.
func weeklyWindow(name string) string {
	switch name {
	case "Venus", "Jupiter":
		return "pre-dawn best"
	case "Saturn":
		return "late night -> dawn"
	case "Mars":
		return "after dusk"
	default: // Mercury
		return "near twilight — hard"
	}
}

var weeklyOrder = []string{"Venus", "Jupiter", "Saturn", "Mars", "Mercury"}

// FormatWeekly renders the plain 7-day outlook.
func FormatWeekly(sum *domain.NightSummary, iss *domain.ISSPass, start, earthSky string) string {
	var L []string
	L = append(L, fmt.Sprintf("WEEKLY OUTLOOK — %s · starting %s", sum.City, start))

	present := make(map[string]bool, len(sum.Planets))
	for _, p := range sum.Planets {
		if domain.BrightPlanets[p.Name] {
			present[p.Name] = true
		}
	}
	for _, name := range weeklyOrder {
		if present[name] {
			L = append(L, fmt.Sprintf("- %s: %s", name, weeklyWindow(name)))
		}
	}

	if iss != nil {
		L = append(L, fmt.Sprintf("- ISS: good pass %s around %s (max %s)",
			iss.Date, iss.MaxTime, iss.MaxAlt))
	}
	if earthSky != "" {
		L = append(L, "EarthSky: "+earthSky)
	}
	L = append(L, "(For precise nightly times, use /today.)")
	L = append(L, sourcesFooter)
	return strings.Join(L, "\n")
}

// FormatNow renders what is happening within the next ~3 hours: planets up
// or rising/setting soon, and an ISS max inside the window.
func FormatNow(sum *domain.NightSummary, iss *domain.ISSPass, tz string, now time.Time) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	now = now.In(loc)
	horizon := now.Add(3 * time.Hour)

	var L []string
	L = append(L, fmt.Sprintf("NOW — %s · %s", sum.City, now.Format("Jan 02, 2006 3:04 PM")))

	var planetLines []string
	for _, p := range sum.Planets {
		if !domain.BrightPlanets[p.Name] {
			continue
		}
		rise, okR := domain.ParseClockTimeOn(now, tz, p.Rise)
		set, okS := domain.ParseClockTimeOn(now, tz, p.Set)
		if !okR || !okS {
			continue
		}
		// windows spanning midnight
		if !set.After(rise) {
			set = set.AddDate(0, 0, 1)
		}
		switch {
		case !rise.After(now) && !now.After(set):
			planetLines = append(planetLines, fmt.Sprintf("- %s: up now, sets in %s",
				p.Name, domain.FormatDelta(set.Sub(now))))
		case rise.After(now) && !rise.After(horizon):
			planetLines = append(planetLines, fmt.Sprintf("- %s: rises in %s",
				p.Name, domain.FormatDelta(rise.Sub(now))))
		case set.After(now) && !set.After(horizon) && rise.Before(now):
			planetLines = append(planetLines, fmt.Sprintf("- %s: sets in %s",
				p.Name, domain.FormatDelta(set.Sub(now))))
		}
	}
	if len(planetLines) > 0 {
		L = append(L, "Planets (next 3h):")
		L = append(L, planetLines...)
	}

	if iss != nil && iss.MaxTime != "" {
		if maxAt, ok := domain.ParseClockTimeOn(now, tz, iss.MaxTime); ok &&
			!maxAt.Before(now) && !maxAt.After(horizon) {
			L = append(L, fmt.Sprintf("ISS: max at %s (max %s)",
				maxAt.Format("3:04 PM"), iss.MaxAlt))
		}
	}

	if sum.NightTime != "" {
		L = append(L, "Night window: "+sum.NightTime)
	}
	if len(L) == 1 {
		L = append(L, "No obvious activity within ~3 hours.")
	}
	L = append(L, "Tip: use /today for full details.")
	return strings.Join(L, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

var (
	zeroWidthRe  = regexp.MustCompile("[\u200b\u200c\u200d\ufeff]")
	spacesRe     = regexp.MustCompile(`[ \t]{2,}`)
	blankRunsRe  = regexp.MustCompile(`\n{3,}`)
	controlCharf = func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 {
			return r
		}
		return -1
	}
)

// CleanText strips zero-width and control characters (keeping newlines and
// tabs) and tidies whitespace so the result is always safe to send as a
// plain Telegram message.
func CleanText(s string) string {
	s = zeroWidthRe.ReplaceAllString(s, "")
	s = strings.Map(controlCharf, s)
	s = spacesRe.ReplaceAllString(s, " ")
	s = blankRunsRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
