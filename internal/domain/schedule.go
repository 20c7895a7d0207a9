package domain

import "time"

// NextDailyFire computes the next occurrence of the user's daily send time,
// evaluated as wall-clock HH:MM in their zone, returned in UTC. If the time
// is still ahead today it fires today, otherwise tomorrow. An unknown zone
// falls back to UTC rather than losing the job.
func NextDailyFire(nowUTC time.Time, u *UserSettings) time.Time {
	loc, err := time.LoadLocation(u.TZ)
	if err != nil {
		loc = time.UTC
	}
	localNow := nowUTC.In(loc)
	next := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
		u.DailyHour, u.DailyMinute, 0, 0, loc)
	if !next.After(localNow) {
		next = next.AddDate(0, 0, 1)
	}
	return next.UTC()
}
