package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var hhmmRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseHHMM parses a strict 24h "HH:MM" string into hour and minute.
func ParseHHMM(s string) (hour, minute int, err error) {
	m := hhmmRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidInput, s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour out of range: %d", ErrInvalidInput, hour)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute out of range: %d", ErrInvalidInput, minute)
	}
	return hour, minute, nil
}

// ValidateTZ checks that tz is a valid IANA location and returns its
// canonical name.
func ValidateTZ(tz string) (string, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(tz))
	if err != nil {
		return "", fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, tz)
	}
	return loc.String(), nil
}

// ParseCoords parses "lat,lon" decimal coordinates, e.g. "42.33,-83.04".
func ParseCoords(s string) (lat, lon float64, err error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected lat,lon", ErrInvalidInput)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%w: bad latitude %q", ErrInvalidInput, parts[0])
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("%w: bad longitude %q", ErrInvalidInput, parts[1])
	}
	return lat, lon, nil
}

// NormalizeLocationPath trims a timeanddate page path: no surrounding
// whitespace or leading slash, lowercase host-relative form like "usa/detroit".
func NormalizeLocationPath(s string) (string, error) {
	p := strings.TrimPrefix(strings.TrimSpace(s), "/")
	if p == "" || strings.ContainsAny(p, " \t\n") {
		return "", fmt.Errorf("%w: bad location path %q", ErrInvalidInput, s)
	}
	return strings.ToLower(p), nil
}

// clockFormats the astronomy pages print times in.
var clockFormats = []string{"3:04 pm", "3:04pm", "15:04", "15:04:05"}

// ParseClockTime parses a local time string as printed by timeanddate or
// Heavens-Above ("7:12 pm", "07:12 PM", "21:33", "21:33:10") into a
// timezone-aware instant on today's date in the given zone.
func ParseClockTime(tz, s string) (time.Time, bool) {
	return ParseClockTimeOn(time.Now(), tz, s)
}

// ParseClockTimeOn is ParseClockTime anchored to the date of base in tz.
func ParseClockTimeOn(base time.Time, tz, s string) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, false
	}
	s = strings.NewReplacer("–", "-", "—", "-").Replace(s)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, false
	}
	now := base.In(loc)
	for _, f := range clockFormats {
		t, err := time.Parse(f, s)
		if err != nil {
			continue
		}
		return time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, loc), true
	}
	return time.Time{}, false
}

// FormatDelta renders a duration as "1h 5m" or "45m". Negative values clamp
// to "0m".
func FormatDelta(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins < 0 {
		mins = 0
	}
	h, m := mins/60, mins%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatHHMM returns the zero-padded "HH:MM" form of a daily send time.
func FormatHHMM(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// LocalizeTime formats t in the given timezone as HH:MM.
func LocalizeTime(t time.Time, tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format("15:04"), nil
}
