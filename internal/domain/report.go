package domain

// PlanetWindow is one planet's visibility window as shown on the night-sky page.
type PlanetWindow struct {
	Name    string
	Rise    string // local time text as printed on the page, e.g. "7:12 pm"
	Set     string
	Comment string
}

// NightSummary holds the facts extracted from the timeanddate night-sky page.
type NightSummary struct {
	Date      string
	City      string
	MoonPhase string
	NightTime string
	Sunset    string
	Sunrise   string
	Planets   []PlanetWindow
}

// ISSPass is the best upcoming ISS pass from the Heavens-Above pass summary.
type ISSPass struct {
	Date    string
	Start   string
	MaxAlt  string
	MaxTime string
	Mag     string
}

// SourceLinks are the pages a report is built from, for the /source command.
type SourceLinks struct {
	TimeAndDate  string
	EarthSky     string
	HeavensAbove string // empty until the user shares GPS
}

// BrightPlanets are the naked-eye planets reports care about.
var BrightPlanets = map[string]bool{
	"Mercury": true,
	"Venus":   true,
	"Mars":    true,
	"Jupiter": true,
	"Saturn":  true,
}
