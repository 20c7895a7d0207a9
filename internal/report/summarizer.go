package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/search"
)

// TextGenerator is the LLM call the summarizer needs; gemini.Client
// implements it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Searcher supplies fresh web context for prompts; search.Client implements
// it. A nil Searcher means prompts carry scraped facts only.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// Summarizer rewrites scraped facts into a concise bulletin through an LLM.
// Any failure surfaces as domain.ErrSummarizerUnavailable so callers can
// substitute the plain-formatted text.
type Summarizer struct {
	gen      TextGenerator
	searcher Searcher
	log      *zap.Logger
}

func NewSummarizer(gen TextGenerator, searcher Searcher, log *zap.Logger) *Summarizer {
	return &Summarizer{gen: gen, searcher: searcher, log: log}
}

const todayPromptFmt = "You are an astronomy assistant. Using the data below, list notable " +
	"observable sky events for %s near %s (timezone %s). Prefer naked-eye events; note " +
	"difficulty when obvious (naked, binoculars, small, four-inch, large). If uncertain, say so briefly. " +
	"Constraints: no Markdown/HTML, use bullet points with dashes, keep compact. " +
	"Structure: first line 'TODAY — {city} · {date}'. Next line 'Sunset HH:MM · Sunrise HH:MM' if available. " +
	"Then 'Moon: ' if available. Then 'Planets:' with up to 5 lines (Mercury, Venus, Mars, Jupiter, Saturn) " +
	"like 'Name: ↑ rise, ↓ set, note'. If ISS data exists add 'ISS: start, max alt at time (mag)'. " +
	"Finish with 'Sources: timeanddate.com · Heavens-Above · EarthSky'. " +
	"Data JSON: %s"

const weeklyPromptFmt = "You are an astronomy assistant. Using the data below, format a compact " +
	"7-day outlook of observable sky events starting %s near %s (timezone %s). Prefer naked-eye events. " +
	"Constraints: no Markdown/HTML, use bullet points with dashes, keep compact. " +
	"First line: 'WEEKLY OUTLOOK — {city} · starting {start}'. " +
	"Then 4-6 bullets summarizing visibility windows for Venus, Jupiter, Saturn, Mars, Mercury. " +
	"If ISS data exists include a bullet for it. " +
	"Close with '(For precise nightly times, use /today.)' and 'Sources: timeanddate.com · Heavens-Above · EarthSky'. " +
	"Data JSON: %s"

type todayPayload struct {
	City      string                `json:"city"`
	Date      string                `json:"date"`
	Sunset    string                `json:"sunset,omitempty"`
	Sunrise   string                `json:"sunrise,omitempty"`
	MoonPhase string                `json:"moon_phase,omitempty"`
	Planets   []domain.PlanetWindow `json:"planets,omitempty"`
	ISS       *domain.ISSPass       `json:"iss,omitempty"`
	EarthSky  string                `json:"earthsky,omitempty"`
}

type weeklyPayload struct {
	City     string                `json:"city"`
	Start    string                `json:"start"`
	Planets  []domain.PlanetWindow `json:"planets,omitempty"`
	ISS      *domain.ISSPass       `json:"iss,omitempty"`
	EarthSky string                `json:"earthsky,omitempty"`
}

// RenderToday produces the LLM bulletin for a single day.
func (s *Summarizer) RenderToday(ctx context.Context, u *domain.UserSettings, f *Facts) (string, error) {
	payload := todayPayload{
		City:      f.Summary.City,
		Date:      f.Summary.Date,
		Sunset:    f.Summary.Sunset,
		Sunrise:   f.Summary.Sunrise,
		MoonPhase: f.Summary.MoonPhase,
		Planets:   f.Summary.Planets,
		ISS:       f.ISS,
		EarthSky:  f.EarthSky,
	}
	prompt := fmt.Sprintf(todayPromptFmt, f.Summary.Date, placeDesc(u), u.TZ, mustJSON(payload))
	prompt += s.searchContext(ctx, "astronomy events today "+f.Summary.Date)
	return s.generate(ctx, prompt)
}

// RenderWeekly produces the LLM 7-day outlook.
func (s *Summarizer) RenderWeekly(ctx context.Context, u *domain.UserSettings, f *Facts, start string) (string, error) {
	payload := weeklyPayload{
		City:     f.Summary.City,
		Start:    start,
		Planets:  brightOnly(f.Summary.Planets),
		ISS:      f.ISS,
		EarthSky: f.EarthSky,
	}
	prompt := fmt.Sprintf(weeklyPromptFmt, start, placeDesc(u), u.TZ, mustJSON(payload))
	prompt += s.searchContext(ctx, "astronomy events over the next 7 days (today is: "+start+")")
	return s.generate(ctx, prompt)
}

// Probe performs a minimal live generation, used by /diag.
func (s *Summarizer) Probe(ctx context.Context) error {
	_, err := s.generate(ctx, "Reply with the single word OK.")
	return err
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummarizerUnavailable, err)
	}
	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("%w: blank response", domain.ErrSummarizerUnavailable)
	}
	return text, nil
}

// searchContext renders search hits into a prompt suffix. Search failures
// never block the summary; the prompt just goes out without snippets.
func (s *Summarizer) searchContext(ctx context.Context, query string) string {
	if s.searcher == nil {
		return ""
	}
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.log.Warn("search enrichment failed", zap.Error(err))
		return ""
	}
	if len(results) == 0 {
		return ""
	}
	var lines []string
	for _, r := range results {
		line := fmt.Sprintf("- %s: %s (%s)", r.Title, r.Snippet, r.Link)
		if r.PageText != "" {
			line += "\n  " + r.PageText
		}
		lines = append(lines, line)
	}
	return "\nSnippets:\n" + strings.Join(lines, "\n")
}

func placeDesc(u *domain.UserSettings) string {
	if u.HasCoords() {
		return fmt.Sprintf("lat %.2f, lon %.2f", *u.Lat, *u.Lon)
	}
	return u.LocationPath
}

func brightOnly(ps []domain.PlanetWindow) []domain.PlanetWindow {
	var out []domain.PlanetWindow
	for _, p := range ps {
		if domain.BrightPlanets[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
