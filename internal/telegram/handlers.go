package telegram

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

// ensureUser makes sure a settings row exists; if not, creates it with
// defaults and arms the daily job.
func (r *Router) ensureUser(ctx context.Context, chatID int64) (*domain.UserSettings, error) {
	u, err := r.repo.GetUser(ctx, chatID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	u = &domain.UserSettings{
		ChatID:       chatID,
		TZ:           r.defaults.TZ,
		LocationPath: r.defaults.LocationPath,
		DailyHour:    r.defaults.DailyHour,
		DailyMinute:  r.defaults.DailyMinute,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		return nil, err
	}
	r.sched.Arm(chatID)
	return u, nil
}

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	if err := r.SendMessage(chatID, text); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) sendTyping(chatID int64) {
	_, _ = r.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

// --- Core commands ---

func (r *Router) handleStart(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sched.Arm(chatID)

	current := fmt.Sprintf("\n\nCurrent: %s @ %s (%s)",
		u.LocationPath, domain.FormatHHMM(u.DailyHour, u.DailyMinute), u.TZ)
	r.sendText(chatID, startText+current)

	msg := tgbotapi.NewMessage(chatID, shareLocationText)
	msg.ReplyMarkup = shareLocationKeyboard()
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) handleToday(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sendTyping(chatID)
	text, backend := r.builder.Today(ctx, u)
	r.setLastBackend(chatID, backend)
	r.sendText(chatID, text)
}

func (r *Router) handleWeekly(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sendTyping(chatID)
	text, backend := r.builder.Weekly(ctx, u)
	r.setLastBackend(chatID, backend)
	r.sendText(chatID, text)
}

func (r *Router) handleNow(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sendTyping(chatID)
	r.sendText(chatID, r.builder.Now(ctx, u))
}

// --- Settings commands ---
// Input is validated before any write, so a rejected command never leaves
// partial state behind.

func (r *Router) handleSetLocation(ctx context.Context, chatID int64, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		r.sendText(chatID, setLocationUsage)
		return
	}

	// "lat,lon" sets coordinates; anything else is a timeanddate path.
	if strings.Contains(args, ",") {
		lat, lon, err := domain.ParseCoords(args)
		if err != nil {
			r.sendText(chatID, badLocationText)
			return
		}
		r.saveCoords(ctx, chatID, lat, lon)
		return
	}

	path, err := domain.NormalizeLocationPath(args)
	if err != nil {
		r.sendText(chatID, badLocationText)
		return
	}
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	u.LocationPath = path
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("save location failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sendText(chatID, "timeanddate page set to: "+path)
}

func (r *Router) handleGPS(ctx context.Context, chatID int64, lat, lon float64) {
	r.saveCoords(ctx, chatID, lat, lon)
}

func (r *Router) saveCoords(ctx context.Context, chatID int64, lat, lon float64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	u.Lat, u.Lon = &lat, &lon
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("save coords failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sendText(chatID, fmt.Sprintf("Location saved (lat=%.4f, lon=%.4f).", lat, lon))
}

func (r *Router) handleSetTime(ctx context.Context, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		r.sendText(chatID, setTimeUsageText)
		return
	}
	hh, mm, err := domain.ParseHHMM(args)
	if err != nil {
		r.sendText(chatID, badTimeText)
		return
	}
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	u.DailyHour, u.DailyMinute = hh, mm
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("save time failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sched.Arm(chatID)
	r.sendText(chatID, fmt.Sprintf("Daily push set to %s (%s).", domain.FormatHHMM(hh, mm), u.TZ))
}

func (r *Router) handleSetTZ(ctx context.Context, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		r.sendText(chatID, setTZUsageText)
		return
	}
	tz, err := domain.ValidateTZ(args)
	if err != nil {
		r.sendText(chatID, badTZText)
		return
	}
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	u.TZ = tz
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("save tz failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sched.Arm(chatID)
	r.sendText(chatID, "Timezone set to "+tz+".")
}

func (r *Router) handleMode(ctx context.Context, chatID int64, args string) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	val := strings.ToLower(strings.TrimSpace(args))
	if val == "" {
		r.sendText(chatID, "Current mode: "+modeName(u.UseLLM)+".\nUse /mode api or /mode llm.")
		return
	}
	if val != "api" && val != "llm" {
		r.sendText(chatID, modeUsageText)
		return
	}
	if err := r.repo.SetUseLLM(ctx, chatID, val == "llm"); err != nil {
		r.log.Error("set mode failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sendText(chatID, "Mode set to "+modeName(val == "llm")+".")
}

func modeName(useLLM bool) string {
	if useLLM {
		return "LLM"
	}
	return "API"
}

// --- Info commands ---

func (r *Router) handleSource(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	links := r.links.SourceURLs(u)

	lines := []string{
		"SOURCES:",
		"- timeanddate: " + links.TimeAndDate,
		"- EarthSky: " + links.EarthSky,
	}
	if links.HeavensAbove != "" {
		lines = append(lines, "- Heavens-Above (ISS): "+links.HeavensAbove)
	} else {
		lines = append(lines, "- Heavens-Above (ISS): share GPS with /setlocation to enable")
	}
	r.sendText(chatID, strings.Join(lines, "\n"))
}

func (r *Router) handleDiag(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}
	r.sendTyping(chatID)

	configured, probeErr := r.builder.SummarizerProbe(ctx)
	llmCfg := "missing-key"
	if configured {
		llmCfg = "configured"
	}
	probe := "OK"
	if probeErr != nil {
		probe = "FAIL"
	}

	lines := []string{
		"Mode: " + modeName(u.UseLLM),
		fmt.Sprintf("Gemini: %s / probe %s", llmCfg, probe),
		"Last backend used: " + string(r.getLastBackend(chatID)),
	}
	r.sendText(chatID, strings.Join(lines, "\n"))
}
