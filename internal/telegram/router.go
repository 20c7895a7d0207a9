package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/report"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/scheduler"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/sources"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/store"
)

// Defaults seed a new user's settings on first /start.
type Defaults struct {
	TZ           string
	LocationPath string
	DailyHour    int
	DailyMinute  int
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	repo     store.Repo
	builder  *report.Builder
	sched    *scheduler.Scheduler
	links    *sources.Client
	defaults Defaults

	mu          sync.RWMutex
	lastBackend map[int64]report.Backend // chatID -> last renderer used
}

// NewRouter creates a new Telegram router.
func NewRouter(
	bot *tgbotapi.BotAPI,
	log *zap.Logger,
	repo store.Repo,
	builder *report.Builder,
	sched *scheduler.Scheduler,
	links *sources.Client,
	defaults Defaults,
) *Router {
	return &Router{
		bot:         bot,
		log:         log,
		repo:        repo,
		builder:     builder,
		sched:       sched,
		links:       links,
		defaults:    defaults,
		lastBackend: make(map[int64]report.Backend),
	}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	// A shared GPS location sets coordinates, same as /setlocation.
	if msg.Location != nil {
		r.handleGPS(ctx, chatID, msg.Location.Latitude, msg.Location.Longitude)
		return
	}

	switch msg.Command() {
	case "start":
		r.handleStart(ctx, chatID)
	case "help":
		r.sendText(chatID, helpText)
	case "today":
		r.handleToday(ctx, chatID)
	case "weekly":
		r.handleWeekly(ctx, chatID)
	case "now":
		r.handleNow(ctx, chatID)
	case "setlocation":
		r.handleSetLocation(ctx, chatID, msg.CommandArguments())
	case "settime":
		r.handleSetTime(ctx, chatID, msg.CommandArguments())
	case "settz":
		r.handleSetTZ(ctx, chatID, msg.CommandArguments())
	case "mode":
		r.handleMode(ctx, chatID, msg.CommandArguments())
	case "source":
		r.handleSource(ctx, chatID)
	case "diag":
		r.handleDiag(ctx, chatID)
	default:
		// Non-command free text is ignored.
	}
}

// SendMessage sends a sanitized plain text message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, report.CleanText(text)))
	return err
}

// RecordBackend notes which render path produced a chat's last message.
// The scheduler calls it for daily pushes so /diag stays accurate.
func (r *Router) RecordBackend(chatID int64, b report.Backend) {
	r.setLastBackend(chatID, b)
}

func (r *Router) setLastBackend(chatID int64, b report.Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastBackend[chatID] = b
}

func (r *Router) getLastBackend(chatID int64) report.Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.lastBackend[chatID]; ok {
		return b
	}
	return "unknown"
}
