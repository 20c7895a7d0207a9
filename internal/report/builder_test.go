package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/search"
)

type fakeFetcher struct {
	summary *domain.NightSummary
	iss     *domain.ISSPass
	earth   string

	summaryErr error
	issErr     error
	earthErr   error
}

func (f *fakeFetcher) FetchNightSky(context.Context, string, string) (*domain.NightSummary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeFetcher) FetchISS(context.Context, float64, float64, string) (*domain.ISSPass, error) {
	return f.iss, f.issErr
}

func (f *fakeFetcher) FetchEarthSky(context.Context) (string, error) {
	return f.earth, f.earthErr
}

type fakeGenerator struct {
	text string
	err  error

	lastPrompt string
}

func (g *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.text, g.err
}

type fakeSearcher struct {
	results []search.Result
	err     error

	lastQuery string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]search.Result, error) {
	s.lastQuery = query
	return s.results, s.err
}

func detSummary() *domain.NightSummary {
	return &domain.NightSummary{
		Date:      "May 05, 2025",
		City:      "Detroit, Michigan, USA",
		MoonPhase: "42.0%",
		Sunset:    "8:43 pm",
		Sunrise:   "6:17 am",
		Planets: []domain.PlanetWindow{
			{Name: "Venus", Rise: "4:02 am", Set: "5:58 pm", Comment: "Great visibility"},
			{Name: "Uranus", Rise: "9:00 am", Set: "11:00 pm", Comment: "Telescope only"},
		},
	}
}

func testUser() *domain.UserSettings {
	return &domain.UserSettings{
		ChatID:       1,
		TZ:           "America/Detroit",
		LocationPath: "usa/detroit",
	}
}

func TestToday_PlainFormatting(t *testing.T) {
	b := NewBuilder(&fakeFetcher{summary: detSummary(), earth: "Venus blazes before dawn."},
		nil, false, zap.NewNop())

	text, backend := b.Today(context.Background(), testUser())
	assert.Equal(t, BackendAPI, backend)
	assert.Contains(t, text, "TODAY — Detroit, Michigan, USA · May 05, 2025")
	assert.Contains(t, text, "Moon: 42.0%")
	assert.Contains(t, text, "- Venus: ↑ 4:02 am, ↓ 5:58 pm, Great visibility")
	assert.NotContains(t, text, "Uranus") // bright planets only
	assert.Contains(t, text, "EarthSky: Venus blazes before dawn.")
	assert.Contains(t, text, "Sources: timeanddate.com")
}

func TestToday_AllSourcesFailedStillReturnsMessage(t *testing.T) {
	f := &fakeFetcher{
		summaryErr: domain.ErrSourceUnavailable,
		earthErr:   domain.ErrSourceUnavailable,
	}
	b := NewBuilder(f, nil, false, zap.NewNop())

	text, backend := b.Today(context.Background(), testUser())
	assert.Equal(t, BackendAPI, backend)
	assert.NotEmpty(t, text)
	assert.Contains(t, text, "No astronomy data is available")
}

func TestToday_SummarizerUsedWhenEnabled(t *testing.T) {
	s := NewSummarizer(&fakeGenerator{text: "TODAY — Detroit\n- Venus: bright before dawn"}, nil, zap.NewNop())
	b := NewBuilder(&fakeFetcher{summary: detSummary()}, s, false, zap.NewNop())

	u := testUser()
	u.UseLLM = true
	text, backend := b.Today(context.Background(), u)
	assert.Equal(t, BackendLLM, backend)
	assert.Equal(t, "TODAY — Detroit\n- Venus: bright before dawn", text)
}

func TestToday_SummarizerFailureFallsBackToPlainText(t *testing.T) {
	s := NewSummarizer(&fakeGenerator{err: errors.New("timeout")}, nil, zap.NewNop())
	fetcher := &fakeFetcher{summary: detSummary(), earth: "Tonight's planets."}

	withLLM := NewBuilder(fetcher, s, true, zap.NewNop())
	plain := NewBuilder(fetcher, nil, false, zap.NewNop())

	got, backend := withLLM.Today(context.Background(), testUser())
	want, _ := plain.Today(context.Background(), testUser())

	assert.Equal(t, BackendLLMFail, backend)
	assert.Equal(t, want, got) // fallback equals the plain scraped rendering
}

func TestToday_PartialDataWhenOneSourceFails(t *testing.T) {
	lat, lon := 42.3314, -83.0458
	u := testUser()
	u.Lat, u.Lon = &lat, &lon

	f := &fakeFetcher{
		summary: detSummary(),
		issErr:  domain.ErrSourceUnavailable,
		earth:   "Planets galore.",
	}
	b := NewBuilder(f, nil, false, zap.NewNop())

	text, _ := b.Today(context.Background(), u)
	assert.Contains(t, text, "TODAY —")
	assert.NotContains(t, text, "ISS:")
}

func TestToday_IncludesISSWhenCoordsShared(t *testing.T) {
	lat, lon := 42.3314, -83.0458
	u := testUser()
	u.Lat, u.Lon = &lat, &lon

	f := &fakeFetcher{
		summary: detSummary(),
		iss:     &domain.ISSPass{Date: "06 May", Start: "22:01:05", MaxAlt: "78°", MaxTime: "22:04:21", Mag: "-3.4"},
	}
	b := NewBuilder(f, nil, false, zap.NewNop())

	text, _ := b.Today(context.Background(), u)
	assert.Contains(t, text, "ISS: start 22:01:05, max 78° at 22:04:21 (mag -3.4)")
}

func TestWeekly_PlainFormatting(t *testing.T) {
	b := NewBuilder(&fakeFetcher{summary: detSummary()}, nil, false, zap.NewNop())

	text, backend := b.Weekly(context.Background(), testUser())
	assert.Equal(t, BackendAPI, backend)
	assert.Contains(t, text, "WEEKLY OUTLOOK — Detroit, Michigan, USA · starting ")
	assert.Contains(t, text, "- Venus: pre-dawn best")
	assert.Contains(t, text, "(For precise nightly times, use /today.)")
}

func TestWeekly_EnvDefaultEnablesSummarizer(t *testing.T) {
	s := NewSummarizer(&fakeGenerator{text: "WEEKLY OUTLOOK — Detroit"}, nil, zap.NewNop())
	b := NewBuilder(&fakeFetcher{summary: detSummary()}, s, true, zap.NewNop())

	// user flag off, process default on
	text, backend := b.Weekly(context.Background(), testUser())
	assert.Equal(t, BackendLLM, backend)
	assert.Equal(t, "WEEKLY OUTLOOK — Detroit", text)
}

func TestToday_SearchSnippetsEnrichPrompt(t *testing.T) {
	gen := &fakeGenerator{text: "TODAY — Detroit"}
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Eta Aquariids peak", Snippet: "Meteor shower peaks before dawn.", Link: "https://example.org/eta"},
		{Title: "Venus at brightest", Snippet: "Morning star.", Link: "https://example.org/venus", PageText: "Venus reaches greatest brilliancy this week."},
	}}
	s := NewSummarizer(gen, searcher, zap.NewNop())
	b := NewBuilder(&fakeFetcher{summary: detSummary()}, s, true, zap.NewNop())

	_, backend := b.Today(context.Background(), testUser())
	assert.Equal(t, BackendLLM, backend)
	assert.Equal(t, "astronomy events today May 05, 2025", searcher.lastQuery)
	assert.Contains(t, gen.lastPrompt, "Snippets:")
	assert.Contains(t, gen.lastPrompt, "- Eta Aquariids peak: Meteor shower peaks before dawn. (https://example.org/eta)")
	assert.Contains(t, gen.lastPrompt, "Venus reaches greatest brilliancy this week.")
}

func TestToday_SearchFailureStillSummarizes(t *testing.T) {
	gen := &fakeGenerator{text: "TODAY — Detroit"}
	searcher := &fakeSearcher{err: errors.New("serpapi down")}
	s := NewSummarizer(gen, searcher, zap.NewNop())
	b := NewBuilder(&fakeFetcher{summary: detSummary()}, s, true, zap.NewNop())

	text, backend := b.Today(context.Background(), testUser())
	assert.Equal(t, BackendLLM, backend)
	assert.Equal(t, "TODAY — Detroit", text)
	assert.NotContains(t, gen.lastPrompt, "Snippets:")
}

func TestWeekly_SearchQueryCoversTheWeek(t *testing.T) {
	gen := &fakeGenerator{text: "WEEKLY OUTLOOK — Detroit"}
	searcher := &fakeSearcher{}
	s := NewSummarizer(gen, searcher, zap.NewNop())
	b := NewBuilder(&fakeFetcher{summary: detSummary()}, s, true, zap.NewNop())

	_, _ = b.Weekly(context.Background(), testUser())
	assert.Contains(t, searcher.lastQuery, "astronomy events over the next 7 days")
}

func TestSummarizerProbe(t *testing.T) {
	b := NewBuilder(&fakeFetcher{summary: detSummary()}, nil, false, zap.NewNop())
	configured, err := b.SummarizerProbe(context.Background())
	assert.False(t, configured)
	assert.Error(t, err)

	ok := NewBuilder(&fakeFetcher{},
		NewSummarizer(&fakeGenerator{text: "OK"}, nil, zap.NewNop()), false, zap.NewNop())
	configured, err = ok.SummarizerProbe(context.Background())
	assert.True(t, configured)
	require.NoError(t, err)
}
