// Package report composes the scraped sources into the text bulletins the
// bot sends: today, weekly outlook and the next-3-hours view. Reports are
// derived fresh on every call and never persisted.
package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

// Backend names which renderer produced a report, surfaced by /diag.
type Backend string

const (
	BackendLLM     Backend = "LLM"
	BackendLLMFail Backend = "LLM-FAIL"
	BackendAPI     Backend = "API"
)

// Fetcher is the scraping surface the builder composes; sources.Client
// implements it.
type Fetcher interface {
	FetchNightSky(ctx context.Context, path, tz string) (*domain.NightSummary, error)
	FetchISS(ctx context.Context, lat, lon float64, tz string) (*domain.ISSPass, error)
	FetchEarthSky(ctx context.Context) (string, error)
}

// Facts is the raw material for one report.
type Facts struct {
	Summary  *domain.NightSummary
	ISS      *domain.ISSPass
	EarthSky string

	// empty is set when every source failed.
	empty bool
}

// Builder produces reports for a user, attempting the summarizer first when
// enabled and substituting plain formatting on ErrSummarizerUnavailable.
type Builder struct {
	fetcher    Fetcher
	summarizer *Summarizer // nil when no API key is configured
	llmDefault bool        // process-wide default, overridden per user
	log        *zap.Logger
	now        func() time.Time
}

func NewBuilder(fetcher Fetcher, summarizer *Summarizer, llmDefault bool, log *zap.Logger) *Builder {
	return &Builder{
		fetcher:    fetcher,
		summarizer: summarizer,
		llmDefault: llmDefault,
		log:        log,
		now:        time.Now,
	}
}

// collect gathers facts from all sources. Sources are independent: each
// failure is logged and leaves its slot empty.
func (b *Builder) collect(ctx context.Context, u *domain.UserSettings) *Facts {
	f := &Facts{}
	okCount := 0

	sum, err := b.fetcher.FetchNightSky(ctx, u.LocationPath, u.TZ)
	if err != nil {
		b.log.Warn("night sky fetch failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
		sum = &domain.NightSummary{
			Date: b.now().UTC().Format("Jan 02, 2006"),
			City: u.LocationPath,
		}
	} else {
		okCount++
	}
	f.Summary = sum

	if u.HasCoords() {
		iss, err := b.fetcher.FetchISS(ctx, *u.Lat, *u.Lon, u.TZ)
		if err != nil {
			b.log.Warn("iss fetch failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
		} else if iss != nil {
			f.ISS = iss
			okCount++
		}
	}

	es, err := b.fetcher.FetchEarthSky(ctx)
	if err != nil {
		b.log.Warn("earthsky fetch failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
	} else if es != "" {
		f.EarthSky = es
		okCount++
	}

	f.empty = okCount == 0
	return f
}

const noDataNotice = "No astronomy data is available right now — the sources " +
	"did not respond. Please try /today again later."

func (b *Builder) useLLM(u *domain.UserSettings) bool {
	return (u.UseLLM || b.llmDefault) && b.summarizer != nil
}

// Today builds the single-day report. The output contract is "always return
// something displayable": all-sources failure yields an explicit notice and
// a summarizer failure falls back to the plain text.
func (b *Builder) Today(ctx context.Context, u *domain.UserSettings) (string, Backend) {
	f := b.collect(ctx, u)
	if f.empty {
		return noDataNotice, BackendAPI
	}

	backend := BackendAPI
	if b.useLLM(u) {
		if txt, err := b.summarizer.RenderToday(ctx, u, f); err == nil {
			return txt, BackendLLM
		} else {
			b.log.Warn("summarizer failed, using plain formatting",
				zap.Error(err), zap.Int64("chatID", u.ChatID))
			backend = BackendLLMFail
		}
	}
	return FormatToday(f.Summary, f.ISS, f.EarthSky), backend
}

// Weekly builds the 7-day outlook.
func (b *Builder) Weekly(ctx context.Context, u *domain.UserSettings) (string, Backend) {
	f := b.collect(ctx, u)
	if f.empty {
		return noDataNotice, BackendAPI
	}
	start := b.localNow(u).Format("Jan 02, 2006")

	backend := BackendAPI
	if b.useLLM(u) {
		if txt, err := b.summarizer.RenderWeekly(ctx, u, f, start); err == nil {
			return txt, BackendLLM
		} else {
			b.log.Warn("summarizer failed, using plain formatting",
				zap.Error(err), zap.Int64("chatID", u.ChatID))
			backend = BackendLLMFail
		}
	}
	return FormatWeekly(f.Summary, f.ISS, start, f.EarthSky), backend
}

// Now builds the next-3-hours view. It is always plain-formatted.
func (b *Builder) Now(ctx context.Context, u *domain.UserSettings) string {
	f := b.collect(ctx, u)
	if f.empty {
		return noDataNotice
	}
	return FormatNow(f.Summary, f.ISS, u.TZ, b.now())
}

// SummarizerProbe reports summarizer configuration and liveness for /diag.
// The second value is nil when a live probe call succeeds.
func (b *Builder) SummarizerProbe(ctx context.Context) (configured bool, err error) {
	if b.summarizer == nil {
		return false, domain.ErrSummarizerUnavailable
	}
	return true, b.summarizer.Probe(ctx)
}

func (b *Builder) localNow(u *domain.UserSettings) time.Time {
	loc, err := time.LoadLocation(u.TZ)
	if err != nil {
		loc = time.UTC
	}
	return b.now().In(loc)
}
