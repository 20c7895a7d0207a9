package domain

import "time"

// UserSettings represents per-chat report preferences and daily schedule.
type UserSettings struct {
	ChatID       int64
	TZ           string   // IANA zone name
	LocationPath string   // timeanddate night-sky page path, e.g. "usa/detroit"
	Lat          *float64 // GPS, nullable; enables ISS passes
	Lon          *float64
	DailyHour    int // local wall-clock hour of the daily push (0..23)
	DailyMinute  int // local wall-clock minute (0..59)
	UseLLM       bool
	CreatedAt    time.Time // UTC
}

// HasCoords reports whether the user shared GPS coordinates.
func (u *UserSettings) HasCoords() bool {
	return u.Lat != nil && u.Lon != nil
}
